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

type PaymentDetails struct {
	PayableAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"payable_amount"`
	ChangeAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"change_amount"`
	DueAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"due_amount"`
	PaymentType    string          `gorm:"size:50" json:"payment_type"`
	ReceivedAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"received_amount"`
	Vat            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"vat"`
	Note           string          `gorm:"size:255" json:"note"`
}

// Sale is the immutable record of one checkout. Lot consumption, income and
// balance effects happen once at creation time; the row is never updated.
type Sale struct {
	ID         int             `gorm:"primary_key" json:"id"`
	SellDate   time.Time       `gorm:"index;not null" json:"sell_date"`
	CustomerId int             `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer       `json:"customer,omitempty"`
	Items      []*SaleItem     `gorm:"foreignKey:SaleId" json:"items"`
	Profit     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"profit"`
	Payment    PaymentDetails  `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type SaleItem struct {
	ID                       int             `gorm:"primary_key" json:"id"`
	SaleId                   int             `gorm:"index;not null" json:"sale_id"`
	ProductId                int             `gorm:"index;not null" json:"product_id"`
	Product                  *Product        `json:"product,omitempty"`
	CustomerCommissionRate   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"customer_commission_rate"`
	CustomerCommissionAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"customer_commission_amount"`
	Lots                     []*SaleLot      `gorm:"foreignKey:SaleItemId" json:"lots"`
	CreatedAt                time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// SaleLot records how much of one inventory lot this sale consumed and at
// what price. CrateType quantities are the crates handed out with the goods.
type SaleLot struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	SaleItemId          int             `gorm:"index;not null" json:"sale_item_id"`
	LotId               int             `gorm:"index;not null" json:"lot_id"`
	Kg                  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"kg"`
	DiscountKg          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_kg"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	TotalPrice          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	DiscountAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	SellingPrice        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"selling_price"`
	LotCommissionRate   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"lot_commission_rate"`
	LotCommissionAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"lot_commission_amount"`
	BoxQuantity         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"box_quantity"`
	CaratType1          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"carat_type_1"`
	CaratType2          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"carat_type_2"`
	CrateType1          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"crate_type_1"`
	CrateType2          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"crate_type_2"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSaleLot struct {
	LotId               int             `json:"lot_id" binding:"required,min=1"`
	Kg                  decimal.Decimal `json:"kg"`
	DiscountKg          decimal.Decimal `json:"discount_kg"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	SellingPrice        decimal.Decimal `json:"selling_price"`
	LotCommissionRate   decimal.Decimal `json:"lot_commission_rate"`
	LotCommissionAmount decimal.Decimal `json:"lot_commission_amount"`
	BoxQuantity         decimal.Decimal `json:"box_quantity"`
	CaratType1          decimal.Decimal `json:"carat_type_1"`
	CaratType2          decimal.Decimal `json:"carat_type_2"`
	CrateType1          decimal.Decimal `json:"crate_type_1"`
	CrateType2          decimal.Decimal `json:"crate_type_2"`
}

type NewSaleItem struct {
	ProductId                int             `json:"product_id" binding:"required,min=1"`
	CustomerCommissionRate   decimal.Decimal `json:"customer_commission_rate"`
	CustomerCommissionAmount decimal.Decimal `json:"customer_commission_amount"`
	Lots                     []*NewSaleLot   `json:"lots" binding:"required,min=1,dive"`
}

type NewSale struct {
	SellDate   time.Time       `json:"sell_date" binding:"required"`
	CustomerId int             `json:"customer_id" binding:"required,min=1"`
	Items      []*NewSaleItem  `json:"items" binding:"required,min=1,dive"`
	Profit     decimal.Decimal `json:"profit"`
	Payment    PaymentDetails  `json:"payment"`
}

func GetSaleById(ctx context.Context, id int) (*Sale, error) {
	db := config.GetDB()
	var sale Sale
	err := db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Lots").
		First(&sale, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("sale not found")
		}
		return nil, err
	}
	return &sale, nil
}
