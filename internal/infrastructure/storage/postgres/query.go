package postgres

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
)

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// ParseOrderBy turns "field" / "-field" / "+field" into an ORDER BY clause.
// Only columns in allowed are accepted; empty input yields fallback.
func ParseOrderBy(orderBy string, allowed []string, fallback string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		return fallback, nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	for _, col := range allowed {
		if col == field {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid orderBy").
		WithDetail("orderBy", orderBy).
		WithDetail("field", field)
}
