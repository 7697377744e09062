package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/mmfreshmart/pos_backend/workflow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Exercises the set-to crate correction path: the requested quantities become
// the supplier's new assigned counts and the difference flows through the
// pool, capped by the pool totals on the way back in.
func TestCrateReconciliationSetToSemantics(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()
	logger := logrus.New()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "freshmart_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()
	db := config.GetDB()

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: "Shan Hills Produce"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}

	// Pool correction without a supplier restocks with the update flag set.
	tx := db.Begin()
	err = workflow.UpdateCrateOrSupplier(tx, logger, nil, &models.NewCrateMovement{
		Date:          time.Now(),
		CrateType1Qty: decimal.NewFromInt(30),
		CrateType2Qty: decimal.NewFromInt(10),
	}, "test-pool-correction")
	if err != nil {
		t.Fatalf("UpdateCrateOrSupplier pool: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("pool correction commit: %v", err)
	}
	var movement models.InventoryCrate
	if err := db.Where("supplier_id IS NULL AND status = ?", models.CrateMovementIn).Order("id DESC").First(&movement).Error; err != nil {
		t.Fatalf("fetch pool movement: %v", err)
	}
	if !movement.IsUpdated {
		t.Fatalf("pool correction movement not flagged as updated")
	}

	// Seed the supplier with 10 + 4 crates.
	tx = db.Begin()
	err = workflow.SendCratesToSupplier(tx, logger, supplier.ID, &models.NewCrateMovement{
		Date:          time.Now(),
		CrateType1Qty: decimal.NewFromInt(10),
		CrateType2Qty: decimal.NewFromInt(4),
	}, "test-seed")
	if err != nil {
		t.Fatalf("SendCratesToSupplier: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("seed commit: %v", err)
	}
	pool, err := models.GetCrateTotal(ctx)
	if err != nil {
		t.Fatalf("GetCrateTotal: %v", err)
	}
	if !pool.RemainingType1.Equal(decimal.NewFromInt(20)) || !pool.RemainingType2.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("pool remaining = %s/%s, want 20/6", pool.RemainingType1, pool.RemainingType2)
	}

	// Set-to 15 + 1: the extra 5 of type 1 leaves the pool, 3 of type 2
	// come back, and the correction is logged as separate OUT and IN rows.
	tx = db.Begin()
	err = workflow.UpdateCrateOrSupplier(tx, logger, &supplier.ID, &models.NewCrateMovement{
		Date:          time.Now(),
		CrateType1Qty: decimal.NewFromInt(15),
		CrateType2Qty: decimal.NewFromInt(1),
	}, "test-set-to")
	if err != nil {
		t.Fatalf("UpdateCrateOrSupplier: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("set-to commit: %v", err)
	}
	supplier, err = models.GetSupplierById(ctx, supplier.ID)
	if err != nil {
		t.Fatalf("GetSupplierById: %v", err)
	}
	if !supplier.CrateInfo.Crate1.Equal(decimal.NewFromInt(15)) || !supplier.CrateInfo.Crate2.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("supplier assigned = %s/%s, want 15/1", supplier.CrateInfo.Crate1, supplier.CrateInfo.Crate2)
	}
	if !supplier.CrateInfo.RemainingCrate1.Equal(decimal.NewFromInt(15)) || !supplier.CrateInfo.RemainingCrate2.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("supplier held = %s/%s, want 15/1", supplier.CrateInfo.RemainingCrate1, supplier.CrateInfo.RemainingCrate2)
	}
	pool, _ = models.GetCrateTotal(ctx)
	if !pool.RemainingType1.Equal(decimal.NewFromInt(15)) || !pool.RemainingType2.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("pool after set-to = %s/%s, want 15/9", pool.RemainingType1, pool.RemainingType2)
	}
	var outRow, inRow models.InventoryCrate
	if err := db.Where("supplier_id = ? AND status = ? AND is_updated = 1", supplier.ID, models.CrateMovementOut).Order("id DESC").First(&outRow).Error; err != nil {
		t.Fatalf("fetch OUT correction row: %v", err)
	}
	if !outRow.CrateType1Qty.Equal(decimal.NewFromInt(5)) || !outRow.CrateType2Qty.IsZero() {
		t.Fatalf("OUT correction = %s/%s, want 5/0", outRow.CrateType1Qty, outRow.CrateType2Qty)
	}
	if err := db.Where("supplier_id = ? AND status = ? AND is_updated = 1", supplier.ID, models.CrateMovementIn).Order("id DESC").First(&inRow).Error; err != nil {
		t.Fatalf("fetch IN correction row: %v", err)
	}
	if !inRow.CrateType1Qty.IsZero() || !inRow.CrateType2Qty.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("IN correction = %s/%s, want 0/3", inRow.CrateType1Qty, inRow.CrateType2Qty)
	}

	// A target the pool cannot fund is refused.
	tx = db.Begin()
	err = workflow.UpdateCrateOrSupplier(tx, logger, &supplier.ID, &models.NewCrateMovement{
		Date:          time.Now(),
		CrateType1Qty: decimal.NewFromInt(100),
		CrateType2Qty: decimal.NewFromInt(1),
	}, "test-set-to-over")
	var insufficient *utils.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("overdraw err = %v, want InsufficientStockError", err)
	}
	tx.Rollback()
	supplier, _ = models.GetSupplierById(ctx, supplier.ID)
	if !supplier.CrateInfo.Crate1.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("supplier assigned after rollback = %s, want 15 untouched", supplier.CrateInfo.Crate1)
	}
}
