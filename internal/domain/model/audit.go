package model

import "time"

// AuditEntry is an append-only record of a workflow mutation. It is the only
// durable history mechanism; entries are never updated or deleted.
type AuditEntry struct {
	ID         int64
	ActorID    int64
	ActorRole  Role
	Action     string
	TargetType string
	TargetID   int64
	OldValue   string
	NewValue   string
	Note       string
	CreatedAt  time.Time
}
