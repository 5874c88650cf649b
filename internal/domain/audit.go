package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditCreate     AuditAction = "create"
	AuditUpdate     AuditAction = "update"
	AuditConfirm    AuditAction = "confirm"
	AuditDelete     AuditAction = "delete"
	AuditBulkCreate AuditAction = "bulk_create"
	AuditBulkUpdate AuditAction = "bulk_update"
	AuditBulkDelete AuditAction = "bulk_delete"
)

type AuditEntry struct {
	ID         uuid.UUID      `json:"id"`
	CompanyID  uuid.UUID      `json:"companyID"`
	ActorID    uuid.UUID      `json:"actorID"`
	Action     AuditAction    `json:"action"`
	EntityType string         `json:"entityType"`
	EntityIDs  []uuid.UUID    `json:"entityIDs"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"createdAt"`
}
