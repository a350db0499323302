package dto

import "github.com/examplanner/examplanner/internal/app/models"

// PeriodResponse represents an examination period
type PeriodResponse struct {
	ID          int64  `json:"id" example:"1"`
	Type        string `json:"type" example:"WRITTEN"`
	PeriodStart string `json:"periodStart" example:"2025-06-01"`
	PeriodEnd   string `json:"periodEnd" example:"2025-06-30"`
}

// NewPeriodResponse maps an examination period to its API shape.
func NewPeriodResponse(p models.ExaminationPeriod) PeriodResponse {
	return PeriodResponse{
		ID:          p.ID,
		Type:        string(p.Type),
		PeriodStart: p.PeriodStart.Format(models.DateLayout),
		PeriodEnd:   p.PeriodEnd.Format(models.DateLayout),
	}
}

// CreatePeriodRequest represents examination period creation data
type CreatePeriodRequest struct {
	Type        string `json:"type" binding:"required,oneof=WRITTEN COLLOQUIUM" example:"WRITTEN"`
	PeriodStart string `json:"periodStart" binding:"required" example:"2025-06-01"`
	PeriodEnd   string `json:"periodEnd" binding:"required" example:"2025-06-30"`
}

// UpdatePeriodRequest represents examination period update data
type UpdatePeriodRequest struct {
	Type        string `json:"type" binding:"required,oneof=WRITTEN COLLOQUIUM" example:"COLLOQUIUM"`
	PeriodStart string `json:"periodStart" binding:"required" example:"2025-06-01"`
	PeriodEnd   string `json:"periodEnd" binding:"required" example:"2025-06-30"`
}

// PeriodListResponse represents a list of examination periods
type PeriodListResponse struct {
	Periods []PeriodResponse `json:"periods"`
}
