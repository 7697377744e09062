package models

import (
	"context"
	"time"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Date      time.Time       `gorm:"index;not null" json:"date"`
	Title     string          `gorm:"size:100;not null" json:"title"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Note      string          `gorm:"size:255" json:"note"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExpense struct {
	Date   time.Time       `json:"date" binding:"required"`
	Title  string          `json:"title" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note"`
}

func CreateExpense(ctx context.Context, input *NewExpense) (*Expense, error) {
	db := config.GetDB()
	expense := Expense{
		Date:   input.Date,
		Title:  input.Title,
		Amount: input.Amount,
		Note:   input.Note,
	}
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}
