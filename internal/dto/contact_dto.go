package dto

import (
	"time"

	"github.com/publicpulse/publicpulse-api/internal/models"
)

// ContactRequest is the public contact form payload. Email presence is
// required but its format is deliberately not validated; the historical
// contract accepts any non-empty string.
type ContactRequest struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}

// ContactResponse is the serialized representation of a contact message.
type ContactResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewContactResponse converts a model into a DTO.
func NewContactResponse(contact models.Contact) ContactResponse {
	return ContactResponse{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Message:   contact.Message,
		CreatedAt: contact.CreatedAt,
	}
}

// NewContactResponses converts a slice of models.
func NewContactResponses(contacts []models.Contact) []ContactResponse {
	result := make([]ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		result = append(result, NewContactResponse(contact))
	}
	return result
}
