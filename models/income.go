package models

import (
	"context"
	"time"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/shopspring/decimal"
)

// Income is the per-sale revenue snapshot, written once by sale settlement
// and never mutated afterwards.
type Income struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	SellDate           time.Time       `gorm:"index;not null" json:"sell_date"`
	SaleId             int             `gorm:"index;not null" json:"sale_id"`
	LotIds             IntList         `gorm:"type:json" json:"lot_ids"`
	TotalSell          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_sell"`
	LotCommission      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"lot_commission"`
	CustomerCommission decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"customer_commission"`
	TotalIncome        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_income"`
	Received           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"received"`
	Due                decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"due"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func ListIncome(ctx context.Context, from, to *time.Time, limit, offset int) ([]*Income, int64, error) {
	db := config.GetDB()
	var rows []*Income
	var total int64

	q := db.WithContext(ctx).Model(&Income{})
	if from != nil {
		q = q.Where("sell_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("sell_date <= ?", *to)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = config.SearchLimit
	}
	err := q.Order("sell_date DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
