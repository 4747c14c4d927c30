package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/hrd-platform/hr-admin-api/internal/models"
)

const dateLayout = "2006-01-02"

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// parseDate parses a required YYYY-MM-DD value.
func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}

// parseOptionalDate parses a nullable YYYY-MM-DD value.
func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func buildPagination(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
