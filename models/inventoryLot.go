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

type LotCarat struct {
	CaratType1          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"carat_type_1"`
	CaratType2          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"carat_type_2"`
	RemainingCaratType1 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"remaining_carat_type_1"`
	RemainingCaratType2 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"remaining_carat_type_2"`
}

type LotCosts struct {
	UnitCost       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"commission_rate"`
}

type LotSales struct {
	TotalKgSold    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_kg_sold"`
	TotalSoldPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_sold_price"`
}

type LotProfits struct {
	LotProfit      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"lot_profit"`
	CustomerProfit decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"customer_profit"`
	TotalProfit    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_profit"`
	LotLoss        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"lot_loss"`
}

type LotExpenseDetails struct {
	Labour        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"labour"`
	Transport     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"transport"`
	Toll          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"toll"`
	Other         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"other"`
	TotalExpenses decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_expenses"`
	ExtraDiscount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"extra_discount"`
}

// InventoryLot is the sellable stock unit: exactly one per purchase lot line,
// created by materialization and never deleted. A lot tracks stock either by
// boxes (BoxQuantity > 0) or by the two carat types, never both.
type InventoryLot struct {
	ID             int               `gorm:"primary_key" json:"id"`
	LotName        string            `gorm:"size:100;not null;uniqueIndex" json:"lot_name"`
	Status         LotStatus         `gorm:"type:enum('in stock','stock out');not null;default:'in stock'" json:"status"`
	PaymentStatus  LotPaymentStatus  `gorm:"type:enum('paid','unpaid');not null;default:'unpaid'" json:"payment_status"`
	ProductId      int               `gorm:"index;not null" json:"product_id"`
	Product        *Product          `json:"product,omitempty"`
	SupplierId     int               `gorm:"index;not null" json:"supplier_id"`
	Supplier       *Supplier         `json:"supplier,omitempty"`
	PurchaseId     int               `gorm:"index;not null" json:"purchase_id"`
	Carat          LotCarat          `gorm:"embedded;embeddedPrefix:carat_" json:"carat"`
	BoxQuantity    decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"box_quantity"`
	RemainingBoxes decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"remaining_boxes"`
	Costs          LotCosts          `gorm:"embedded;embeddedPrefix:cost_" json:"costs"`
	HasCommission  bool              `gorm:"not null;default:false" json:"has_commission"`
	Sales          LotSales          `gorm:"embedded;embeddedPrefix:sale_" json:"sales"`
	Profits        LotProfits        `gorm:"embedded;embeddedPrefix:profit_" json:"profits"`
	Expenses       LotExpenseDetails `gorm:"embedded;embeddedPrefix:expense_" json:"expenses"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TracksBoxes reports whether the lot's stock form is box-counted.
func (l *InventoryLot) TracksBoxes() bool {
	return l.BoxQuantity.GreaterThan(decimal.Zero)
}

func GetInventoryLotById(ctx context.Context, id int) (*InventoryLot, error) {
	db := config.GetDB()
	var lot InventoryLot
	err := db.WithContext(ctx).
		Preload("Product").
		Preload("Supplier").
		First(&lot, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("inventory lot not found")
		}
		return nil, err
	}
	return &lot, nil
}

func ListInventoryLots(ctx context.Context, status LotStatus, limit, offset int) ([]*InventoryLot, int64, error) {
	db := config.GetDB()
	var lots []*InventoryLot
	var total int64

	q := db.WithContext(ctx).Model(&InventoryLot{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = config.SearchLimit
	}
	err := q.
		Preload("Product").
		Preload("Supplier").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&lots).Error
	if err != nil {
		return nil, 0, err
	}
	return lots, total, nil
}

func GetInventoryLotForUpdate(tx *gorm.DB, id int) (*InventoryLot, error) {
	var lot InventoryLot
	err := tx.Raw("SELECT * FROM inventory_lots WHERE id = ? FOR UPDATE", id).Scan(&lot).Error
	if err != nil {
		return nil, err
	}
	if lot.ID == 0 {
		return nil, utils.NewNotFoundError("inventory lot not found")
	}
	return &lot, nil
}

func CountLotsByName(tx *gorm.DB, lotName string) (int64, error) {
	var count int64
	err := tx.Model(&InventoryLot{}).Where("lot_name = ?", lotName).Count(&count).Error
	return count, err
}
