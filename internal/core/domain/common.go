package domain

import "time"

// AuditFields holds creation and modification timestamps shared by all entities.
type AuditFields struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}
