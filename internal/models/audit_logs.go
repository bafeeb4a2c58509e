package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records one mutating HTTP request.
type AuditLog struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Action     string     `json:"action" db:"action"`
	Path       string     `json:"path" db:"path"`
	ActorID    *uuid.UUID `json:"actorId,omitempty" db:"actor_id"`
	StatusCode int        `json:"statusCode" db:"status_code"`
	IP         string     `json:"ip" db:"ip"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// OrphanedBlob is an object key whose delete failed and is awaiting the sweeper.
type OrphanedBlob struct {
	ObjectKey string    `json:"objectKey" db:"object_key"`
	Reason    string    `json:"reason" db:"reason"`
	Attempts  int       `json:"attempts" db:"attempts"`
	LastError string    `json:"lastError" db:"last_error"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
