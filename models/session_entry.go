package models

import "time"

// SessionEntry is one persisted session key for one browser session.
type SessionEntry struct {
	Namespace string    `json:"namespace" db:"namespace" gorm:"type:text;primaryKey;not null"`
	Key       string    `json:"key" db:"key" gorm:"type:text;primaryKey;not null"`
	Value     string    `json:"value" db:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

func (SessionEntry) TableName() string {
	return "session_entries"
}
