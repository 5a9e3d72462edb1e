package dto

import (
	"path"
	"time"

	"github.com/publicpulse/publicpulse-api/internal/models"
)

// ReportRequest is the payload for submitting a new issue report. The photo
// travels separately as a multipart file.
type ReportRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	Location    string `json:"location" form:"location"`
}

// VoteRequest is the payload for voting on an issue by title.
type VoteRequest struct {
	Title string `json:"title" form:"title" validate:"required"`
}

// UpdateStatusRequest is the admin payload for retagging an issue.
type UpdateStatusRequest struct {
	IssueID uint   `json:"issue_id" form:"issue_id" validate:"required"`
	Status  string `json:"status" form:"status" validate:"required"`
}

// IssueResponse is the serialized representation of an issue. PhotoURL is
// derived from the stored photo path and is null when no photo was uploaded.
type IssueResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Votes       int       `json:"votes"`
	Status      string    `json:"status"`
	PhotoPath   string    `json:"photo_path"`
	PhotoURL    *string   `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewIssueResponse converts a model into a DTO.
func NewIssueResponse(issue models.Issue) IssueResponse {
	resp := IssueResponse{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Location:    issue.Location,
		Votes:       issue.Votes,
		Status:      issue.Status,
		PhotoPath:   issue.PhotoPath,
		CreatedAt:   issue.CreatedAt,
	}

	if issue.PhotoPath != "" {
		url := "/uploads/" + path.Base(issue.PhotoPath)
		resp.PhotoURL = &url
	}

	return resp
}

// NewIssueResponses converts a slice of models.
func NewIssueResponses(issues []models.Issue) []IssueResponse {
	result := make([]IssueResponse, 0, len(issues))
	for _, issue := range issues {
		result = append(result, NewIssueResponse(issue))
	}
	return result
}
