package models

import "time"

// Department is one organizational unit. Departments form a tree through
// ParentID; only direct self-parenting is rejected on write.
type Department struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	ParentID  *string    `db:"parent_id" json:"parent_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`

	// Populated on demand, not by every query.
	ParentName *string      `db:"parent_name" json:"parent_name,omitempty"`
	Children   []Department `db:"-" json:"children,omitempty"`
}

// DepartmentFilter narrows department listings.
type DepartmentFilter struct {
	Search   string
	TreeOnly bool
	Page     int
	PageSize int
}
