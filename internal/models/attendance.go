package models

import "time"

// AttendanceRecord holds per (period, employee) attendance counters. Values are
// decimal(8,2) in the store; half-day units occur.
type AttendanceRecord struct {
	ID              string     `db:"id" json:"id"`
	PeriodID        string     `db:"period_id" json:"period_id"`
	EmployeeID      string     `db:"employee_id" json:"employee_id"`
	Sick            float64    `db:"sick" json:"sick"`
	WorkAccident    float64    `db:"work_accident" json:"work_accident"`
	Permit          float64    `db:"permit" json:"permit"`
	Awol            float64    `db:"awol" json:"awol"`
	LatePermit      float64    `db:"late_permit" json:"late_permit"`
	EarlyLeave      float64    `db:"early_leave" json:"early_leave"`
	AnnualLeave     float64    `db:"annual_leave" json:"annual_leave"`
	Late            float64    `db:"late" json:"late"`
	WarningLetter1  float64    `db:"warning_letter_1" json:"warning_letter_1"`
	WarningLetter2  float64    `db:"warning_letter_2" json:"warning_letter_2"`
	WarningLetter3  float64    `db:"warning_letter_3" json:"warning_letter_3"`
	SubordinateLate float64    `db:"subordinate_late" json:"subordinate_late"`
	SubordinateAwol float64    `db:"subordinate_awol" json:"subordinate_awol"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at" json:"-"`
}

// AttendanceFilter narrows attendance record listings.
type AttendanceFilter struct {
	PeriodID   string
	EmployeeID string
	Page       int
	PageSize   int
}
