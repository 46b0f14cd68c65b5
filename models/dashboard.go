package models

// CupStats is the dashboard summary of the cup so far.
type CupStats struct {
	Stage            Stage   `json:"stage"`
	TeamsTotal       int     `json:"teams_total"`
	MatchesTotal     int     `json:"matches_total"`
	MatchesPlayed    int     `json:"matches_played"`
	GoalsTotal       int     `json:"goals_total"`
	GoalsPerMatch    float64 `json:"goals_per_match"`
	YellowCardsTotal int     `json:"yellow_cards_total"`
	RedCardsTotal    int     `json:"red_cards_total"`
	Shootouts        int     `json:"shootouts"`
}
