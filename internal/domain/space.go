package domain

import "time"

// Space represents a bookable venue space
type Space struct {
	ID        int64
	Name      string
	Location  *string
	Capacity  int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
