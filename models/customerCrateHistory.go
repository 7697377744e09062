package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerCrateHistory tracks crates handed to a customer with a sale.
// Status moves one way, given to returned; returning releases the crates
// back to the pool exactly once.
type CustomerCrateHistory struct {
	ID              int                `gorm:"primary_key" json:"id"`
	SaleId          int                `gorm:"index;not null" json:"sale_id"`
	CustomerId      int                `gorm:"index;not null" json:"customer_id"`
	Customer        *Customer          `json:"customer,omitempty"`
	CrateType1      decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"crate_type_1"`
	CrateType2      decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"crate_type_2"`
	CrateType1Price decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"crate_type_1_price"`
	CrateType2Price decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"crate_type_2_price"`
	Status          CrateHistoryStatus `gorm:"type:enum('given','returned');not null;default:'given'" json:"status"`
	CreatedAt       time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetCrateHistoryById(ctx context.Context, id int) (*CustomerCrateHistory, error) {
	db := config.GetDB()
	var history CustomerCrateHistory
	err := db.WithContext(ctx).Preload("Customer").First(&history, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("crate history not found")
		}
		return nil, err
	}
	return &history, nil
}

func GetCrateHistoryForUpdate(tx *gorm.DB, id int) (*CustomerCrateHistory, error) {
	var history CustomerCrateHistory
	err := tx.Raw("SELECT * FROM customer_crate_histories WHERE id = ? FOR UPDATE", id).Scan(&history).Error
	if err != nil {
		return nil, err
	}
	if history.ID == 0 {
		return nil, utils.NewNotFoundError("crate history not found")
	}
	return &history, nil
}
