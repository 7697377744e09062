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

type SupplierAccountInfo struct {
	Balance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	Due     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"due"`
	Cost    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost"`
}

// SupplierCrateInfo tracks returnable crates circulating with a supplier.
// RemainingCrate1/2 are the crates the supplier currently holds; the
// NeedToGiveCrate pair is the shortage the supplier owes back and is the only
// crate field allowed to accumulate past the held count.
type SupplierCrateInfo struct {
	Crate1           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"crate1"`
	Crate2           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"crate2"`
	Crate1Price      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"crate1Price"`
	Crate2Price      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"crate2Price"`
	RemainingCrate1  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"remainingCrate1"`
	RemainingCrate2  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"remainingCrate2"`
	NeedToGiveCrate1 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"needToGiveCrate1"`
	NeedToGiveCrate2 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"needToGiveCrate2"`
}

type Supplier struct {
	ID          int                 `gorm:"primary_key" json:"id"`
	Name        string              `gorm:"size:100;not null" json:"name" binding:"required"`
	Email       string              `gorm:"size:100" json:"email"`
	Phone       string              `gorm:"size:20" json:"phone"`
	Address     string              `gorm:"type:text" json:"address"`
	AccountInfo SupplierAccountInfo `gorm:"embedded;embeddedPrefix:account_" json:"account_info"`
	CrateInfo   SupplierCrateInfo   `gorm:"embedded;embeddedPrefix:crate_" json:"crate_info"`
	IsActive    *bool               `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	Crate1Price decimal.Decimal `json:"crate1Price"`
	Crate2Price decimal.Decimal `json:"crate2Price"`
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	db := config.GetDB()

	supplier := Supplier{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		CrateInfo: SupplierCrateInfo{
			Crate1Price: input.Crate1Price,
			Crate2Price: input.Crate2Price,
		},
	}
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func GetSupplierById(ctx context.Context, id int) (*Supplier, error) {
	db := config.GetDB()
	var supplier Supplier
	if err := db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("supplier not found")
		}
		return nil, err
	}
	return &supplier, nil
}

// GetSupplierForUpdate loads a supplier row with a row lock inside tx.
// Settlement workflows mutate supplier balances and crate counts under this lock.
func GetSupplierForUpdate(tx *gorm.DB, id int) (*Supplier, error) {
	var supplier Supplier
	err := tx.Raw("SELECT * FROM suppliers WHERE id = ? FOR UPDATE", id).Scan(&supplier).Error
	if err != nil {
		return nil, err
	}
	if supplier.ID == 0 {
		return nil, utils.NewNotFoundError("supplier not found")
	}
	return &supplier, nil
}
