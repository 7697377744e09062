package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment records money paid out to a supplier for a set of lots.
// TransactionId is unique so a retried request cannot post twice.
type Payment struct {
	ID                int             `gorm:"primary_key" json:"id"`
	Date              time.Time       `gorm:"index;not null" json:"date"`
	SupplierId        int             `gorm:"index;not null" json:"supplier_id"`
	Supplier          *Supplier       `json:"supplier,omitempty"`
	InventoryLotIds   IntList         `gorm:"type:json" json:"inventory_lot_ids"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	TransactionId     string          `gorm:"size:100;not null;uniqueIndex" json:"transaction_id"`
	PaymentMethod     string          `gorm:"size:50" json:"payment_method"`
	AmountFromBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount_from_balance"`
	NeedToPayDue      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"need_to_pay_due"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// SelectedLotInfo carries the per-lot settlement figures of a payment
// request. It is not stored; only its effects on the lots are.
type SelectedLotInfo struct {
	LotId    int             `json:"lot_id" binding:"required,min=1"`
	Profit   decimal.Decimal `json:"profit"`
	Discount decimal.Decimal `json:"discount"`
}

type NewPayment struct {
	Date              time.Time          `json:"date" binding:"required"`
	SupplierId        int                `json:"supplier_id" binding:"required,min=1"`
	InventoryLotIds   []int              `json:"inventory_lot_ids" binding:"required,min=1"`
	Amount            decimal.Decimal    `json:"amount"`
	TransactionId     string             `json:"transaction_id" binding:"required"`
	PaymentMethod     string             `json:"payment_method"`
	AmountFromBalance decimal.Decimal    `json:"amount_from_balance"`
	NeedToPayDue      decimal.Decimal    `json:"need_to_pay_due"`
	SelectedLotsInfo  []*SelectedLotInfo `json:"selected_lots_info" binding:"required,min=1,dive"`
}

func CreatePayment(tx *gorm.DB, payment *Payment) error {
	return tx.Create(payment).Error
}
