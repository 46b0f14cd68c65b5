package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/Dosada05/football-cup/models"
	"github.com/Dosada05/football-cup/reports"
	"github.com/Dosada05/football-cup/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

type scheduleRequest struct {
	Start           time.Time `json:"start"`
	IntervalMinutes int       `json:"interval_minutes"`
}

func (s scheduleRequest) schedule() services.Schedule {
	return services.Schedule{
		Start:    s.Start,
		Interval: time.Duration(s.IntervalMinutes) * time.Minute,
	}
}

type quarterfinalRequest struct {
	scheduleRequest
	Random bool `json:"random"`
}

type semifinalRequest struct {
	scheduleRequest
	Pairings []models.Pairing `json:"pairings,omitempty"`
}

func (h *TournamentHandler) DrawGroups(w http.ResponseWriter, r *http.Request) {
	record, err := h.tournamentService.DrawGroups(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"draw": record}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GenerateGroupFixtures(w http.ResponseWriter, r *http.Request) {
	var input scheduleRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.GenerateGroupFixtures(r.Context(), input.schedule())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GenerateQuarterfinals(w http.ResponseWriter, r *http.Request) {
	var input quarterfinalRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := h.tournamentService.GenerateQuarterfinals(r.Context(), services.QuarterfinalInput{
		Random:   input.Random,
		Schedule: input.schedule(),
	})
	h.writeRound(w, r, round, err)
}

func (h *TournamentHandler) GenerateSemifinals(w http.ResponseWriter, r *http.Request) {
	var input semifinalRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := h.tournamentService.GenerateSemifinals(r.Context(), services.SemifinalInput{
		Manual:   input.Pairings,
		Schedule: input.schedule(),
	})
	h.writeRound(w, r, round, err)
}

func (h *TournamentHandler) GenerateFinal(w http.ResponseWriter, r *http.Request) {
	var input scheduleRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := h.tournamentService.GenerateFinal(r.Context(), input.schedule())
	h.writeRound(w, r, round, err)
}

func (h *TournamentHandler) writeRound(w http.ResponseWriter, r *http.Request, round *services.Round, err error) {
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.tournamentService.Standings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetGroupStandings(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.tournamentService.GroupedStandings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	groups := make(map[string][]models.StandingsRow, len(grouped))
	for g, rows := range grouped {
		key := string(g)
		if g == models.GroupUnassigned {
			key = "unassigned"
		}
		groups[key] = rows
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"groups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetQualifiers(w http.ResponseWriter, r *http.Request) {
	set, err := h.tournamentService.Qualifiers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"firsts":     set.Firsts,
		"seconds":    set.Seconds,
		"incomplete": set.Incomplete,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ExportStandings(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.tournamentService.GroupedStandings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteStandingsXLSX(&buf, grouped); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", reports.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="standings.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *TournamentHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.tournamentService.Progress(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"progress": progress}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetChampion(w http.ResponseWriter, r *http.Request) {
	team, err := h.tournamentService.Champion(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrChampionNotDecided) {
			errorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"champion": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetDrawHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.tournamentService.DrawHistory(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"draws": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
