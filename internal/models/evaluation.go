package models

import "time"

// Evaluation is one evaluator's assessment of one employee within one period.
// At most one non-deleted row may exist per (period, employee, evaluator);
// the service enforces this at validation time.
type Evaluation struct {
	ID                string     `db:"id" json:"id"`
	PeriodID          string     `db:"period_id" json:"period_id"`
	EmployeeID        string     `db:"employee_id" json:"employee_id"`
	EvaluatorID       string     `db:"evaluator_id" json:"evaluator_id"`
	PeriodStart       *time.Time `db:"period_start" json:"period_start"`
	PeriodEnd         *time.Time `db:"period_end" json:"period_end"`
	EndContractDate   *time.Time `db:"end_contract_date" json:"end_contract_date"`
	EvaluationPurpose *string    `db:"evaluation_purpose" json:"evaluation_purpose"`
	Question1         int        `db:"question_1" json:"question_1"`
	Question2         int        `db:"question_2" json:"question_2"`
	Question3         int        `db:"question_3" json:"question_3"`
	Question4         int        `db:"question_4" json:"question_4"`
	Question5         int        `db:"question_5" json:"question_5"`
	Question6         int        `db:"question_6" json:"question_6"`
	Question7         int        `db:"question_7" json:"question_7"`
	Question8         int        `db:"question_8" json:"question_8"`
	Question9         int        `db:"question_9" json:"question_9"`
	Question10        int        `db:"question_10" json:"question_10"`
	Comments          *string    `db:"comments" json:"comments"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at" json:"-"`
}

// Questions returns the ten fixed scores in order.
func (e *Evaluation) Questions() [10]int {
	return [10]int{
		e.Question1, e.Question2, e.Question3, e.Question4, e.Question5,
		e.Question6, e.Question7, e.Question8, e.Question9, e.Question10,
	}
}

// EvaluationDetail joins display fields of the three eager-loaded relations.
type EvaluationDetail struct {
	Evaluation
	PeriodStartDate   *time.Time `db:"p_start_date"`
	PeriodEndDate     *time.Time `db:"p_end_date"`
	PeriodDescription *string    `db:"p_description"`
	EmployeeName      *string    `db:"employee_name"`
	EvaluatorName     *string    `db:"evaluator_name"`
}

// EvaluationAnswer is a line-item answer tied to a template question.
// CalculatedScore is derived: input_value × the question's weight_point.
type EvaluationAnswer struct {
	ID              string     `db:"id" json:"id"`
	EvaluationID    string     `db:"evaluation_id" json:"evaluation_id"`
	QuestionID      string     `db:"question_id" json:"question_id"`
	InputValue      float64    `db:"input_value" json:"input_value"`
	CalculatedScore float64    `db:"calculated_score" json:"calculated_score"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at" json:"-"`
}

// EvaluationFilter narrows evaluation listings.
type EvaluationFilter struct {
	Search      string // matches ratee name
	PeriodID    string
	EmployeeID  string
	EvaluatorID string
	Page        int
	PageSize    int
}
