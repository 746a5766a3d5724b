package models

import (
	"gorm.io/gorm"
)

type HistoryAction string

const (
	ActionSubmitted         HistoryAction = "submitted"
	ActionApproved          HistoryAction = "approved"
	ActionRevisionRequested HistoryAction = "revision_requested"
)

// ApprovalHistory is the append-only audit trail of status-changing actions
// on an event. Rows are written in the same transaction as the status change
// and are never updated or deleted.
type ApprovalHistory struct {
	gorm.Model
	EventID       uint          `json:"event_id" gorm:"index"`
	Action        HistoryAction `json:"action" gorm:"type:varchar(30)"`
	StatusBefore  EventStatus   `json:"status_before" gorm:"type:varchar(30)"`
	StatusAfter   EventStatus   `json:"status_after" gorm:"type:varchar(30)"`
	PerformerID   uint          `json:"performer_id"`
	PerformerName string        `json:"performer_name"`
	Comments      string        `json:"comments"`
}
