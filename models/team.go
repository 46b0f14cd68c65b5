package models

import "time"

// GroupLabel identifies one of the four groups of the cup.
type GroupLabel string

const (
	GroupA GroupLabel = "A"
	GroupB GroupLabel = "B"
	GroupC GroupLabel = "C"
	GroupD GroupLabel = "D"

	// GroupUnassigned is the bucket for teams that have not been drawn into a group yet.
	GroupUnassigned GroupLabel = ""
)

// AllGroups lists the groups in draw order.
var AllGroups = []GroupLabel{GroupA, GroupB, GroupC, GroupD}

func (g GroupLabel) Valid() bool {
	switch g {
	case GroupA, GroupB, GroupC, GroupD:
		return true
	}
	return false
}

type Team struct {
	ID        int         `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	City      string      `json:"city" db:"city"`
	Group     *GroupLabel `json:"group,omitempty" db:"group_label"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

// GroupOrUnassigned returns the team's group or GroupUnassigned.
func (t *Team) GroupOrUnassigned() GroupLabel {
	if t == nil || t.Group == nil {
		return GroupUnassigned
	}
	return *t.Group
}
