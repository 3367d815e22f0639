package models

import "time"

// LocalEntry is one persisted key/value pair of client-side storage.
type LocalEntry struct {
	Key       string    `gorm:"primaryKey;column:key;size:64" json:"key"`
	Value     string    `gorm:"column:value;type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LocalEntry) TableName() string {
	return "local_entries"
}
