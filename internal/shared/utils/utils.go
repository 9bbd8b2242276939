package utils

import "time"

// Ptr returns a pointer to v. Handy for optional DTO fields.
func Ptr[T any](v T) *T {
	return &v
}

// FormatDate renders a timestamp the way editorial documents show dates.
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
