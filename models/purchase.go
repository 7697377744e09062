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

// LotExpenses are the per-lot intake costs recorded on the purchase line and
// copied onto the materialized inventory lot.
type LotExpenses struct {
	Labour        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"labour"`
	Transport     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"transport"`
	Toll          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"toll"`
	Other         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"other"`
	TotalExpenses decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_expenses"`
}

type Purchase struct {
	ID            int             `gorm:"primary_key" json:"id"`
	PurchaseDate  time.Time       `gorm:"not null;index" json:"purchase_date"`
	Status        PurchaseStatus  `gorm:"type:enum('on the way','received','canceled');not null;default:'on the way'" json:"status"`
	IsLotsCreated *bool           `gorm:"not null;default:false" json:"is_lots_created"`
	Note          string          `gorm:"type:text" json:"note"`
	Items         []*PurchaseItem `gorm:"foreignKey:PurchaseId" json:"items"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseItem struct {
	ID         int                `gorm:"primary_key" json:"id"`
	PurchaseId int                `gorm:"index;not null" json:"purchase_id"`
	SupplierId int                `gorm:"index;not null" json:"supplier_id"`
	Supplier   *Supplier          `json:"supplier,omitempty"`
	Lots       []*PurchaseLotLine `gorm:"foreignKey:PurchaseItemId" json:"lots"`
}

type PurchaseLotLine struct {
	ID             int             `gorm:"primary_key" json:"id"`
	PurchaseItemId int             `gorm:"index;not null" json:"purchase_item_id"`
	ProductId      int             `gorm:"index;not null" json:"product_id"`
	Product        *Product        `json:"product,omitempty"`
	LotName        string          `gorm:"size:100;not null" json:"lot_name"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"commission_rate"`
	CaratType1     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"carat_type_1"`
	CaratType2     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"carat_type_2"`
	BoxQuantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"box_quantity"`
	Expenses       LotExpenses     `gorm:"embedded;embeddedPrefix:expense_" json:"expenses"`
}

type NewPurchase struct {
	PurchaseDate time.Time          `json:"purchase_date" binding:"required"`
	Status       PurchaseStatus     `json:"status"`
	Note         string             `json:"note"`
	Items        []*NewPurchaseItem `json:"items" binding:"required,min=1,dive"`
}

type NewPurchaseItem struct {
	SupplierId int                   `json:"supplier_id" binding:"required"`
	Lots       []*NewPurchaseLotLine `json:"lots" binding:"required,min=1,dive"`
}

type NewPurchaseLotLine struct {
	ProductId      int             `json:"product_id" binding:"required"`
	LotName        string          `json:"lot_name" binding:"required"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	CaratType1     decimal.Decimal `json:"carat_type_1"`
	CaratType2     decimal.Decimal `json:"carat_type_2"`
	BoxQuantity    decimal.Decimal `json:"box_quantity"`
	Expenses       LotExpenses     `json:"expenses"`
}

func GetPurchaseById(ctx context.Context, id int) (*Purchase, error) {
	db := config.GetDB()
	var purchase Purchase
	err := db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Supplier").
		Preload("Items.Lots").
		Preload("Items.Lots.Product").
		First(&purchase, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("purchase not found")
		}
		return nil, err
	}
	return &purchase, nil
}

func ListPurchases(ctx context.Context, limit, offset int) ([]*Purchase, int64, error) {
	db := config.GetDB()
	var purchases []*Purchase
	var total int64

	if err := db.WithContext(ctx).Model(&Purchase{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = config.SearchLimit
	}
	err := db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Supplier").
		Preload("Items.Lots").
		Preload("Items.Lots.Product").
		Order("purchase_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// GetPurchaseForUpdate loads the full purchase graph with the header row
// locked inside tx; lot materialization flips the one-shot flag under it.
func GetPurchaseForUpdate(tx *gorm.DB, id int) (*Purchase, error) {
	var purchase Purchase
	err := tx.Raw("SELECT * FROM purchases WHERE id = ? FOR UPDATE", id).Scan(&purchase).Error
	if err != nil {
		return nil, err
	}
	if purchase.ID == 0 {
		return nil, utils.NewNotFoundError("purchase not found")
	}
	err = tx.
		Preload("Lots").
		Where("purchase_id = ?", purchase.ID).
		Find(&purchase.Items).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}
