package models

import "time"

// Period is a bounded date range anchoring evaluations, templates and
// attendance aggregation.
type Period struct {
	ID          string     `db:"id" json:"id"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	EndDate     time.Time  `db:"end_date" json:"end_date"`
	Description *string    `db:"description" json:"description"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}

// PeriodFilter narrows period listings.
type PeriodFilter struct {
	Search   string
	Page     int
	PageSize int
}
