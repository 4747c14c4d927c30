package dto

import (
	"time"

	"github.com/hrd-platform/hr-admin-api/internal/models"
)

// PeriodResponse is the API shape of a period with date-only bounds.
type PeriodResponse struct {
	ID          string    `json:"id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPeriodResponse maps a period.
func NewPeriodResponse(p models.Period) PeriodResponse {
	return PeriodResponse{
		ID:          p.ID,
		StartDate:   formatDate(p.StartDate),
		EndDate:     formatDate(p.EndDate),
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewPeriodList maps a period slice.
func NewPeriodList(periods []models.Period) []PeriodResponse {
	out := make([]PeriodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, NewPeriodResponse(p))
	}
	return out
}
