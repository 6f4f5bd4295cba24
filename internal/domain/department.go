package domain

import "time"

// Department routes reports by category name during administrative verify.
type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
