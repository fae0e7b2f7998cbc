// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
)

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// parseID parses a UUID field, naming the field in the validation error.
func parseID(field, raw string) (id.ID, error) {
	v, err := id.Parse(raw)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id format").
			WithDetail("field", field).
			WithDetail("value", raw)
	}
	return v, nil
}

func parseOptionalID(field, raw string) (*id.ID, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := parseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
