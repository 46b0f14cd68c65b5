package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/football-cup/models"
	"github.com/google/uuid"
)

var ErrDrawAlreadyRecorded = errors.New("draw of this kind already recorded")

// DrawRepository is the append-only log of draws and generated rounds.
type DrawRepository interface {
	Append(ctx context.Context, exec SQLExecutor, record *models.DrawRecord) error
	List(ctx context.Context, exec SQLExecutor) ([]*models.DrawRecord, error)
}

type postgresDrawRepository struct {
	db *sql.DB
}

func NewPostgresDrawRepository(db *sql.DB) DrawRepository {
	return &postgresDrawRepository{db: db}
}

func (r *postgresDrawRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

type drawPayload struct {
	Groups   []models.GroupAssignment `json:"groups,omitempty"`
	Pairings []models.Pairing         `json:"pairings,omitempty"`
}

func (r *postgresDrawRepository) Append(ctx context.Context, exec SQLExecutor, record *models.DrawRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	payload, err := json.Marshal(drawPayload{Groups: record.Groups, Pairings: record.Pairings})
	if err != nil {
		return fmt.Errorf("encode draw payload: %w", err)
	}

	query := `
		INSERT INTO draw_records (id, kind, manual, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err = r.getExecutor(exec).QueryRowContext(ctx, query,
		record.ID, record.Kind, record.Manual, payload,
	).Scan(&record.CreatedAt)
	if err != nil {
		if code, constraint := pqErrorCode(err); code == pqUniqueViolation && constraint == "draw_records_kind_key" {
			return fmt.Errorf("%w: %s", ErrDrawAlreadyRecorded, record.Kind)
		}
		return err
	}
	return nil
}

func (r *postgresDrawRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.DrawRecord, error) {
	query := `SELECT id, kind, manual, payload, created_at FROM draw_records ORDER BY created_at ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*models.DrawRecord, 0)
	for rows.Next() {
		var (
			rec     models.DrawRecord
			raw     []byte
			payload drawPayload
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Manual, &raw, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decode draw payload %s: %w", rec.ID, err)
		}
		rec.Groups = payload.Groups
		rec.Pairings = payload.Pairings
		records = append(records, &rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
