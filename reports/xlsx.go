// Package reports renders standings for download.
package reports

import (
	"fmt"
	"io"

	"github.com/Dosada05/football-cup/models"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of the workbook written by WriteStandingsXLSX.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var standingsHeader = []interface{}{
	"Pos", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts", "Yellow", "Red",
}

// SheetName returns the worksheet title used for a group.
func SheetName(g models.GroupLabel) string {
	if g == models.GroupUnassigned {
		return "Unassigned"
	}
	return "Group " + string(g)
}

// WriteStandingsXLSX writes one worksheet per group A-D, in rank order, plus an
// "Unassigned" sheet when ungrouped teams exist.
func WriteStandingsXLSX(w io.Writer, grouped map[models.GroupLabel][]models.StandingsRow) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	groups := models.AllGroups
	if len(grouped[models.GroupUnassigned]) > 0 {
		groups = append(groups[:len(groups):len(groups)], models.GroupUnassigned)
	}

	for i, g := range groups {
		sheet := SheetName(g)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}

		if err := f.SetSheetRow(sheet, "A1", &standingsHeader); err != nil {
			return fmt.Errorf("write header of %s: %w", sheet, err)
		}
		if err := f.SetCellStyle(sheet, "A1", "L1", headerStyle); err != nil {
			return fmt.Errorf("style header of %s: %w", sheet, err)
		}
		if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
			return fmt.Errorf("size team column of %s: %w", sheet, err)
		}

		for pos, row := range grouped[g] {
			cell, err := excelize.CoordinatesToCellName(1, pos+2)
			if err != nil {
				return err
			}
			values := []interface{}{
				pos + 1, row.TeamName, row.Played, row.Wins, row.Draws, row.Losses,
				row.GoalsFor, row.GoalsAgainst, row.GoalDifference, row.Points,
				row.YellowCards, row.RedCards,
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("write %s row %d: %w", sheet, pos+1, err)
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
