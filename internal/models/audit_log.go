package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action performed
type AuditAction string

const (
	AuditActionTeacherRegistered  AuditAction = "Teacher Registered"
	AuditActionRegistrationFailed AuditAction = "Teacher Registration Failed"
	AuditActionPinValidationFail  AuditAction = "PIN Validation Failed"
	AuditActionPinValidationOK    AuditAction = "PIN Validation Successful"
	AuditActionAccountLocked      AuditAction = "Account Locked"
	AuditActionPinReset           AuditAction = "PIN Reset"
	AuditActionPinResetFailed     AuditAction = "PIN Reset Failed"
	AuditActionAccountUnlocked    AuditAction = "Account Unlocked"
	AuditActionUnlockFailed       AuditAction = "Account Unlock Failed"
	AuditActionTeacherDeactivated AuditAction = "Teacher Deactivated"
)

// AuditLog represents a record of a security-relevant event
type AuditLog struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	UserID     string      `json:"user_id" db:"user_id"`
	Action     AuditAction `json:"action" db:"action"`
	Details    string      `json:"details" db:"details"`
	DocumentID *string     `json:"document_id,omitempty" db:"document_id"` // Optional: set when the event concerns a linked document
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

// CreateAuditLogRequest represents the request to create a new audit log entry
type CreateAuditLogRequest struct {
	UserID     string
	Action     AuditAction
	Details    string
	DocumentID *string
}
