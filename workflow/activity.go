package workflow

import (
	"encoding/json"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AppendActivity writes a history row and an outbox row inside the caller's
// transaction. It is best-effort: a failure is logged and swallowed so the
// settlement it describes is never rolled back over its own audit trail.
func AppendActivity(tx *gorm.DB, logger *logrus.Logger, referenceId int, referenceType string, action models.ActivityAction, description string, detail interface{}, correlationId string) {
	var detailJSON []byte
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			config.LogError(logger, "activity.go", "AppendActivity", "Marshal detail", referenceType, err)
		} else {
			detailJSON = b
		}
	}

	history := models.History{
		ReferenceId:   referenceId,
		ReferenceType: referenceType,
		Action:        action,
		Description:   description,
		Detail:        detailJSON,
	}
	if err := tx.Create(&history).Error; err != nil {
		config.LogError(logger, "activity.go", "AppendActivity", "Create History", referenceType, err)
	}

	outbox := models.NewActivityOutbox(referenceId, referenceType, action, description, detailJSON, correlationId)
	if err := models.CreateActivityOutbox(tx, outbox); err != nil {
		config.LogError(logger, "activity.go", "AppendActivity", "Create ActivityOutbox", referenceType, err)
	}
}
