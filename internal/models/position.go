package models

import "time"

// Position is a job title referenced by employees.
type Position struct {
	ID        string     `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`

	EmployeesCount int `db:"employees_count" json:"employees_count"`
}

// PositionFilter narrows position listings.
type PositionFilter struct {
	Search   string
	Page     int
	PageSize int
}

// Level is a seniority classification label.
type Level struct {
	ID        string     `db:"id" json:"id"`
	Level     string     `db:"level" json:"level"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// LevelFilter narrows level listings.
type LevelFilter struct {
	Search   string
	Page     int
	PageSize int
}
