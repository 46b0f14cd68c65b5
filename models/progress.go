package models

// Stage is the state of the cup progression machine.
type Stage string

const (
	StageDraw         Stage = "draw"
	StageGroups       Stage = "groups"
	StageQuarterfinal Stage = "quarterfinal"
	StageSemifinal    Stage = "semifinal"
	StageFinal        Stage = "final"
	StageChampion     Stage = "champion"
)

type PhaseStatus struct {
	Phase    Phase `json:"phase"`
	Exists   bool  `json:"exists"`
	Complete bool  `json:"complete"`
	Matches  int   `json:"matches"`
	Played   int   `json:"played"`
}

type Progress struct {
	Stage  Stage         `json:"stage"`
	Phases []PhaseStatus `json:"phases"`
}
