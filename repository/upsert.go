package repository

import (
	"fmt"
	"strings"

	"mew/models"
)

// mergePolicy decides how a supplied value meets the stored one on conflict
type mergePolicy uint8

const (
	// mergeOverwrite replaces the stored value
	mergeOverwrite mergePolicy = iota
	// mergeLeast keeps the smaller of the two; NULL on either side yields the other
	mergeLeast
	// mergeKeepExisting only fills a column that is still NULL
	mergeKeepExisting
)

type column struct {
	name  string
	value any
	merge mergePolicy
}

// upsert builds a partial INSERT ... ON CONFLICT statement. Only the key
// columns and the supplied columns appear in the statement, so every other
// column keeps its stored value (or its default on insert).
type upsert struct {
	table     string
	keys      []column
	set       []column
	touch     bool // bump updated_at when an existing row changes
	returning string
}

// field adds f to the statement when it was supplied. Null on a column that
// cannot be null is rejected before anything reaches the store.
func field[T any](u *upsert, name string, f models.Field[T], nullable bool) error {
	return mergedField(u, name, f, nullable, mergeOverwrite)
}

func mergedField[T any](u *upsert, name string, f models.Field[T], nullable bool, merge mergePolicy) error {
	if !f.IsSet() {
		return nil
	}
	if f.IsNull() && !nullable {
		return fmt.Errorf("%w: %s.%s", models.ErrNullNotAllowed, u.table, name)
	}
	u.set = append(u.set, column{name: name, value: f.SQLValue(), merge: merge})
	return nil
}

// value adds a column that is always written
func (u *upsert) value(name string, v any) {
	u.set = append(u.set, column{name: name, value: v})
}

func (u *upsert) sql() (string, []any) {
	names := make([]string, 0, len(u.keys)+len(u.set))
	placeholders := make([]string, 0, cap(names))
	args := make([]any, 0, cap(names))
	keyNames := make([]string, 0, len(u.keys))

	for _, c := range u.keys {
		keyNames = append(keyNames, c.name)
	}
	for _, c := range append(append([]column{}, u.keys...), u.set...) {
		args = append(args, c.value)
		names = append(names, c.name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	assignments := make([]string, 0, len(u.set)+1)
	for _, c := range u.set {
		switch c.merge {
		case mergeLeast:
			assignments = append(assignments, fmt.Sprintf("%[2]s = LEAST(%[1]s.%[2]s, EXCLUDED.%[2]s)", u.table, c.name))
		case mergeKeepExisting:
			assignments = append(assignments, fmt.Sprintf("%[2]s = COALESCE(%[1]s.%[2]s, EXCLUDED.%[2]s)", u.table, c.name))
		default:
			assignments = append(assignments, fmt.Sprintf("%[1]s = EXCLUDED.%[1]s", c.name))
		}
	}
	if len(assignments) > 0 && u.touch {
		assignments = append(assignments, "updated_at = NOW()")
	}
	if len(assignments) == 0 {
		// Nothing supplied: a no-op update still lets RETURNING yield the row
		assignments = append(assignments, fmt.Sprintf("%[1]s = EXCLUDED.%[1]s", keyNames[0]))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s RETURNING %s",
		u.table,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(keyNames, ", "),
		strings.Join(assignments, ", "),
		u.returning,
	)
	return query, args
}

// firstErr returns the first non-nil error
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
