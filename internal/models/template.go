package models

import "time"

// Question input types understood by the client form renderer.
const (
	InputRadio1To5 = "radio_1_5"
	InputNumberQty = "number_qty"
	InputText      = "text"
)

// EvaluationTemplate is the header of one scored form definition. Only one
// template per period is expected active at a time; that is a convention, not
// a constraint.
type EvaluationTemplate struct {
	ID          string     `db:"id" json:"id"`
	PeriodID    string     `db:"period_id" json:"period_id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`

	Sections []TemplateSection `db:"-" json:"sections,omitempty"`
}

// TemplateSection groups questions, ordered by SequenceOrder.
type TemplateSection struct {
	ID            string     `db:"id" json:"id"`
	TemplateID    string     `db:"template_id" json:"template_id"`
	Name          string     `db:"name" json:"name"`
	DescriptionEN *string    `db:"description_en" json:"description_en"`
	DescriptionJP *string    `db:"description_jp" json:"description_jp"`
	SequenceOrder int        `db:"sequence_order" json:"sequence_order"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at" json:"-"`

	Questions []TemplateQuestion `db:"-" json:"questions,omitempty"`
}

// TemplateQuestion is one scored item. KeyIdentifier is the stable key the
// client maps answers with.
type TemplateQuestion struct {
	ID            string     `db:"id" json:"id"`
	SectionID     string     `db:"section_id" json:"section_id"`
	LabelEN       string     `db:"label_en" json:"label_en"`
	DescriptionEN *string    `db:"description_en" json:"description_en"`
	DescriptionJP *string    `db:"description_jp" json:"description_jp"`
	KeyIdentifier string     `db:"key_identifier" json:"key_identifier"`
	InputType     string     `db:"input_type" json:"input_type"`
	WeightPoint   float64    `db:"weight_point" json:"weight_point"`
	SequenceOrder int        `db:"sequence_order" json:"sequence_order"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at" json:"-"`
}

// TemplateFilter narrows template listings.
type TemplateFilter struct {
	PeriodID string
	Active   *bool
	Page     int
	PageSize int
}
