package domain

import "time"

// Remark is an append-only handler note on a report, optionally carrying an
// evidence image reference.
type Remark struct {
	ID         string
	ReportID   string
	Text       string
	AuthorName string
	AuthorRole Role
	ImageURL   string
	CreatedAt  time.Time
}
