package storage

import (
	"time"

	"gorm.io/gorm"
)

// Session is the persisted adventure session. The engine state is stored
// verbatim as the flat JSON its structs serialize to, so a snapshot can be
// restored across process restarts without translation.
type Session struct {
	gorm.Model
	SessionID  string `json:"session_id" gorm:"uniqueIndex"`
	PlayerName string `json:"player_name"`
	Status     string `json:"status" gorm:"index"`
	StateJSON  string `json:"-" gorm:"type:text"`
	CombatJSON string `json:"-" gorm:"type:text"`
	// LastActionAt feeds the idle-session sweeper.
	LastActionAt time.Time `json:"last_action_at"`
}

// TableName keeps the persisted table name explicit.
func (Session) TableName() string { return "adventure_sessions" }

// SummaryRecord stores the end-of-adventure summary for later retrieval.
type SummaryRecord struct {
	gorm.Model
	SessionID     string `json:"session_id" gorm:"index"`
	Reason        string `json:"reason"`
	Steps         int    `json:"steps"`
	ScenesVisited int    `json:"scenes_visited"`
	Gold          int    `json:"gold"`
	XP            int    `json:"xp"`
	ItemsJSON     string `json:"-" gorm:"type:text"`
}

// TableName keeps the persisted table name explicit.
func (SummaryRecord) TableName() string { return "adventure_summaries" }
