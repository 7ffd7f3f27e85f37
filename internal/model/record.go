package model

import (
	"time"

	"gorm.io/gorm"
)

// BuildRecord is the local history entry for a finished build observed by the
// poller. One row per (builder, number).
type BuildRecord struct {
	gorm.Model
	Builder    string `gorm:"not null;uniqueIndex:idx_builder_number"`
	Number     int    `gorm:"not null;uniqueIndex:idx_builder_number"`
	Result     int    `gorm:"not null"`
	Revision   string
	Owner      string
	Reason     string
	Slave      string
	StartedAt  time.Time
	FinishedAt time.Time
}
