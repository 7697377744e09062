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

type CustomerAccountInfo struct {
	Balance      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	Due          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"due"`
	ReturnAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"return_amount"`
}

// CustomerCrateInfo is the customer's outstanding crate holdings by type.
// Holdings accumulate on sale settlement and unwind on crate reconciliation,
// floored at zero.
type CustomerCrateInfo struct {
	Type1      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"type_1"`
	Type2      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"type_2"`
	Type1Price decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"type_1_price"`
	Type2Price decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"type_2_price"`
}

type Customer struct {
	ID          int                 `gorm:"primary_key" json:"id"`
	Name        string              `gorm:"size:100;not null" json:"name" binding:"required"`
	Email       string              `gorm:"size:100" json:"email"`
	Phone       string              `gorm:"size:20" json:"phone"`
	Address     string              `gorm:"type:text" json:"address"`
	AccountInfo CustomerAccountInfo `gorm:"embedded;embeddedPrefix:account_" json:"account_info"`
	CrateInfo   CustomerCrateInfo   `gorm:"embedded;embeddedPrefix:crate_" json:"crate_info"`
	IsActive    *bool               `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name       string          `json:"name" binding:"required"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	Type1Price decimal.Decimal `json:"type_1_price"`
	Type2Price decimal.Decimal `json:"type_2_price"`
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	db := config.GetDB()

	customer := Customer{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		CrateInfo: CustomerCrateInfo{
			Type1Price: input.Type1Price,
			Type2Price: input.Type2Price,
		},
	}
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func GetCustomerById(ctx context.Context, id int) (*Customer, error) {
	db := config.GetDB()
	var customer Customer
	if err := db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("customer not found")
		}
		return nil, err
	}
	return &customer, nil
}

func GetCustomerForUpdate(tx *gorm.DB, id int) (*Customer, error) {
	var customer Customer
	err := tx.Raw("SELECT * FROM customers WHERE id = ? FOR UPDATE", id).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, utils.NewNotFoundError("customer not found")
	}
	return &customer, nil
}
