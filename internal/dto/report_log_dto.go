package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/publicpulse/publicpulse-api/internal/models"
)

// ReportLogResponse is the serialized representation of an audit entry.
type ReportLogResponse struct {
	ID        uint              `json:"id"`
	IssueID   uint              `json:"issue_id"`
	Action    string            `json:"action"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewReportLogResponses converts a slice of models.
func NewReportLogResponses(entries []models.ReportLog) []ReportLogResponse {
	result := make([]ReportLogResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, ReportLogResponse{
			ID:        entry.ID,
			IssueID:   entry.IssueID,
			Action:    entry.Action,
			Metadata:  entry.Metadata,
			CreatedAt: entry.CreatedAt,
		})
	}
	return result
}
