package models

import (
	"context"
	"time"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/shopspring/decimal"
)

// MoneyAccount is a cash/bank account a balance transaction can be paid
// through.
type MoneyAccount struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name" binding:"required"`
	AccountNumber string          `gorm:"size:50" json:"account_number"`
	Balance       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMoneyAccount struct {
	Name          string `json:"name" binding:"required"`
	AccountNumber string `json:"account_number"`
}

func CreateMoneyAccount(ctx context.Context, input *NewMoneyAccount) (*MoneyAccount, error) {
	db := config.GetDB()
	account := MoneyAccount{
		Name:          input.Name,
		AccountNumber: input.AccountNumber,
	}
	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func ListMoneyAccounts(ctx context.Context) ([]MoneyAccount, error) {
	db := config.GetDB()
	var accounts []MoneyAccount
	if err := db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
