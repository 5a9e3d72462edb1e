package models

import (
	"time"

	"gorm.io/datatypes"
)

// Report log actions.
const (
	ReportLogActionCreated      = "created"
	ReportLogActionStatusPrefix = "status:"
)

// ReportLog is an append-only audit entry recorded when an issue is created
// or its status changes. Entries are never updated or deleted.
type ReportLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	IssueID   uint              `gorm:"index;not null" json:"issue_id"`
	Action    string            `gorm:"size:128;not null" json:"action"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// TableName keeps the historical table name.
func (ReportLog) TableName() string {
	return "reports_log"
}
