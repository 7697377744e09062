package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Balance is a deposit against a customer's or supplier's account.
// TransactionId is unique so a retried request cannot post twice.
type Balance struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Date          time.Time       `gorm:"index;not null" json:"date"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	TransactionId string          `gorm:"size:100;not null;uniqueIndex" json:"transaction_id"`
	PaymentMethod string          `gorm:"size:50" json:"payment_method"`
	AccountId     *int            `gorm:"index" json:"account_id"`
	BalanceFor    int             `gorm:"index;not null" json:"balance_for"`
	Role          BalanceRole     `gorm:"type:enum('customer','supplier');not null" json:"role"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBalance struct {
	Date          time.Time       `json:"date" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	TransactionId string          `json:"transaction_id" binding:"required"`
	PaymentMethod string          `json:"payment_method"`
	AccountId     *int            `json:"account_id"`
	BalanceFor    int             `json:"balance_for" binding:"required,min=1"`
	Role          BalanceRole     `json:"role" binding:"required"`
}

func CreateBalance(tx *gorm.DB, balance *Balance) error {
	return tx.Create(balance).Error
}
