package catalog

import "time"

type Merchandise struct {
	UID          string
	Name         string
	PriceCents   int64
	Stock        int
	CreatedAt    time.Time
	LastModified *time.Time
}
