package dto

import (
	"time"

	"github.com/hrd-platform/hr-admin-api/internal/models"
)

// RelatedPeriod is the trimmed period embedded in evaluation payloads.
type RelatedPeriod struct {
	ID          string  `json:"id"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description"`
}

// RelatedEmployee is the trimmed employee embedded in evaluation payloads.
type RelatedEmployee struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// EvaluationResponse is the API shape of an evaluation with its period and
// the two employee relations embedded.
type EvaluationResponse struct {
	ID                string           `json:"id"`
	Period            RelatedPeriod    `json:"period"`
	Employee          RelatedEmployee  `json:"employee"`
	Evaluator         RelatedEmployee  `json:"evaluator"`
	PeriodStart       *string          `json:"period_start"`
	PeriodEnd         *string          `json:"period_end"`
	EndContractDate   *string          `json:"end_contract_date"`
	EvaluationPurpose *string          `json:"evaluation_purpose"`
	Question1         int              `json:"question_1"`
	Question2         int              `json:"question_2"`
	Question3         int              `json:"question_3"`
	Question4         int              `json:"question_4"`
	Question5         int              `json:"question_5"`
	Question6         int              `json:"question_6"`
	Question7         int              `json:"question_7"`
	Question8         int              `json:"question_8"`
	Question9         int              `json:"question_9"`
	Question10        int              `json:"question_10"`
	Comments          *string          `json:"comments"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// NewEvaluationResponse maps an evaluation detail row.
func NewEvaluationResponse(d models.EvaluationDetail) EvaluationResponse {
	return EvaluationResponse{
		ID: d.ID,
		Period: RelatedPeriod{
			ID:          d.PeriodID,
			StartDate:   formatDatePtr(d.PeriodStartDate),
			EndDate:     formatDatePtr(d.PeriodEndDate),
			Description: d.PeriodDescription,
		},
		Employee:          RelatedEmployee{ID: d.EmployeeID, Name: d.EmployeeName},
		Evaluator:         RelatedEmployee{ID: d.EvaluatorID, Name: d.EvaluatorName},
		PeriodStart:       formatDatePtr(d.PeriodStart),
		PeriodEnd:         formatDatePtr(d.PeriodEnd),
		EndContractDate:   formatDatePtr(d.EndContractDate),
		EvaluationPurpose: d.EvaluationPurpose,
		Question1:         d.Question1,
		Question2:         d.Question2,
		Question3:         d.Question3,
		Question4:         d.Question4,
		Question5:         d.Question5,
		Question6:         d.Question6,
		Question7:         d.Question7,
		Question8:         d.Question8,
		Question9:         d.Question9,
		Question10:        d.Question10,
		Comments:          d.Comments,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// NewEvaluationList maps an evaluation detail slice.
func NewEvaluationList(evaluations []models.EvaluationDetail) []EvaluationResponse {
	out := make([]EvaluationResponse, 0, len(evaluations))
	for _, e := range evaluations {
		out = append(out, NewEvaluationResponse(e))
	}
	return out
}
