package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CrateTotal is the singleton crate pool. Remaining counts are only ever
// changed through conditional single-statement updates so that
// 0 <= remaining <= total holds under concurrent settlements.
type CrateTotal struct {
	ID             int             `gorm:"primary_key" json:"id"`
	Type1Total     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"type_1_total"`
	RemainingType1 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"remaining_type_1"`
	Type2Total     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"type_2_total"`
	RemainingType2 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"remaining_type_2"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// InventoryCrate is the append-only crate movement log. Status IN means
// crates entered the pool, OUT means they left toward a supplier.
type InventoryCrate struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	Date          time.Time           `gorm:"index;not null" json:"date"`
	Status        CrateMovementStatus `gorm:"type:enum('IN','OUT');not null" json:"status"`
	SupplierId    *int                `gorm:"index" json:"supplier_id"`
	CrateType1Qty decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"crate_type_1_qty"`
	CrateType2Qty decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"crate_type_2_qty"`
	Note          string              `gorm:"size:255" json:"note"`
	IsUpdated     bool                `gorm:"not null;default:false" json:"is_updated"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCrateMovement struct {
	Date          time.Time       `json:"date" binding:"required"`
	CrateType1Qty decimal.Decimal `json:"crate_type_1_qty"`
	CrateType2Qty decimal.Decimal `json:"crate_type_2_qty"`
	Crate1Price   decimal.Decimal `json:"crate_1_price"`
	Crate2Price   decimal.Decimal `json:"crate_2_price"`
	Note          string          `json:"note"`
}

// GetOrCreateCrateTotalForUpdate row-locks the pool singleton, creating it
// lazily on first use. Callers must hold the crate posting lock.
func GetOrCreateCrateTotalForUpdate(tx *gorm.DB) (*CrateTotal, error) {
	var pool CrateTotal
	err := tx.Raw("SELECT * FROM crate_totals ORDER BY id LIMIT 1 FOR UPDATE").Scan(&pool).Error
	if err != nil {
		return nil, err
	}
	if pool.ID == 0 {
		pool = CrateTotal{}
		if err := tx.Create(&pool).Error; err != nil {
			return nil, err
		}
	}
	return &pool, nil
}

func GetCrateTotal(ctx context.Context) (*CrateTotal, error) {
	db := config.GetDB()
	var pool CrateTotal
	err := db.WithContext(ctx).Order("id").First(&pool).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CrateTotal{}, nil
		}
		return nil, err
	}
	return &pool, nil
}

// AddToCratePool increments both totals and remaining by the given deltas.
func AddToCratePool(tx *gorm.DB, poolId int, type1, type2 decimal.Decimal) error {
	return tx.Model(&CrateTotal{}).Where("id = ?", poolId).Updates(map[string]interface{}{
		"type1_total":     gorm.Expr("type1_total + ?", type1),
		"remaining_type1": gorm.Expr("remaining_type1 + ?", type1),
		"type2_total":     gorm.Expr("type2_total + ?", type2),
		"remaining_type2": gorm.Expr("remaining_type2 + ?", type2),
	}).Error
}

// TakeFromCratePool conditionally decrements remaining counts. It reports
// false without modifying anything when the pool cannot cover the request.
func TakeFromCratePool(tx *gorm.DB, poolId int, type1, type2 decimal.Decimal) (bool, error) {
	res := tx.Model(&CrateTotal{}).
		Where("id = ? AND remaining_type1 >= ? AND remaining_type2 >= ?", poolId, type1, type2).
		Updates(map[string]interface{}{
			"remaining_type1": gorm.Expr("remaining_type1 - ?", type1),
			"remaining_type2": gorm.Expr("remaining_type2 - ?", type2),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReturnToCratePool increments remaining counts, capped at the totals.
func ReturnToCratePool(tx *gorm.DB, poolId int, type1, type2 decimal.Decimal) error {
	return tx.Model(&CrateTotal{}).Where("id = ?", poolId).Updates(map[string]interface{}{
		"remaining_type1": gorm.Expr("LEAST(remaining_type1 + ?, type1_total)", type1),
		"remaining_type2": gorm.Expr("LEAST(remaining_type2 + ?, type2_total)", type2),
	}).Error
}

func CreateInventoryCrate(tx *gorm.DB, crate *InventoryCrate) error {
	return tx.Create(crate).Error
}
