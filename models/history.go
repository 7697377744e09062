package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mmfreshmart/pos_backend/config"
	"gorm.io/gorm"
)

// History is the audit trail of settlement activity, one row per action.
type History struct {
	ID            int            `gorm:"primary_key" json:"id"`
	ReferenceId   int            `gorm:"index;not null" json:"reference_id"`
	ReferenceType string         `gorm:"size:50;index;not null" json:"reference_type"`
	Action        ActivityAction `gorm:"size:1;not null" json:"action"`
	Description   string         `gorm:"size:255" json:"description"`
	Detail        []byte         `gorm:"type:json" json:"detail"`
	UserId        int            `gorm:"index" json:"user_id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

const (
	OutboxPublishStatusPending    = "PENDING"
	OutboxPublishStatusProcessing = "PROCESSING"
	OutboxPublishStatusSent       = "SENT"
	OutboxPublishStatusFailed     = "FAILED"
	OutboxPublishStatusDead       = "DEAD"
)

// ActivityOutbox is the transactional outbox for the activity sink. Rows are
// written in the same transaction as the settlement they describe and pushed
// to Pub/Sub by the dispatcher afterwards.
type ActivityOutbox struct {
	ID               int            `gorm:"primary_key" json:"id"`
	MessageId        string         `gorm:"size:36;not null;uniqueIndex" json:"message_id"`
	ReferenceId      int            `gorm:"index;not null" json:"reference_id"`
	ReferenceType    string         `gorm:"size:50;not null" json:"reference_type"`
	Action           ActivityAction `gorm:"size:1;not null" json:"action"`
	Description      string         `gorm:"size:255" json:"description"`
	Detail           []byte         `gorm:"type:json" json:"detail"`
	CorrelationId    string         `gorm:"size:36" json:"correlation_id"`
	PublishStatus    string         `gorm:"size:10;index;not null;default:'PENDING'" json:"publish_status"`
	PublishAttempts  int            `gorm:"not null;default:0" json:"publish_attempts"`
	LastPublishError *string        `gorm:"size:255" json:"last_publish_error"`
	NextAttemptAt    *time.Time     `json:"next_attempt_at"`
	LockedAt         *time.Time     `json:"locked_at"`
	LockedBy         *string        `gorm:"size:36" json:"locked_by"`
	PubSubMessageId  *string        `gorm:"size:100" json:"pub_sub_message_id"`
	PublishedAt      *time.Time     `json:"published_at"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func NewActivityOutbox(referenceId int, referenceType string, action ActivityAction, description string, detail []byte, correlationId string) *ActivityOutbox {
	return &ActivityOutbox{
		MessageId:     uuid.NewString(),
		ReferenceId:   referenceId,
		ReferenceType: referenceType,
		Action:        action,
		Description:   description,
		Detail:        detail,
		CorrelationId: correlationId,
		PublishStatus: OutboxPublishStatusPending,
	}
}

func ConvertToActivityMessage(o ActivityOutbox) *config.ActivityMessage {
	return &config.ActivityMessage{
		ID:            o.MessageId,
		OccurredAt:    o.CreatedAt,
		ReferenceId:   o.ReferenceId,
		ReferenceType: o.ReferenceType,
		Action:        string(o.Action),
		Description:   o.Description,
		Detail:        o.Detail,
		CorrelationId: o.CorrelationId,
	}
}

func CreateActivityOutbox(tx *gorm.DB, outbox *ActivityOutbox) error {
	return tx.Create(outbox).Error
}
