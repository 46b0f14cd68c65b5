package models

// StandingsRow is the per-team table line. It is recomputed from matches on every query.
type StandingsRow struct {
	TeamID         int         `json:"team_id"`
	TeamName       string      `json:"team_name"`
	Group          *GroupLabel `json:"group,omitempty"`
	Points         int         `json:"points"`
	Played         int         `json:"played"`
	Wins           int         `json:"wins"`
	Draws          int         `json:"draws"`
	Losses         int         `json:"losses"`
	GoalsFor       int         `json:"goals_for"`
	GoalsAgainst   int         `json:"goals_against"`
	GoalDifference int         `json:"goal_difference"`
	YellowCards    int         `json:"yellow_cards"`
	RedCards       int         `json:"red_cards"`
}

func (r StandingsRow) GroupOrUnassigned() GroupLabel {
	if r.Group == nil {
		return GroupUnassigned
	}
	return *r.Group
}
