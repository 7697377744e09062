package workflow

import (
	"fmt"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RestockCrates adds new crates to the warehouse pool, incrementing total and
// remaining by the same delta, and appends an IN log row with no supplier.
func RestockCrates(tx *gorm.DB, logger *logrus.Logger, input *models.NewCrateMovement, correlationId string) error {
	return restockCrates(tx, logger, input, false, correlationId)
}

func restockCrates(tx *gorm.DB, logger *logrus.Logger, input *models.NewCrateMovement, isUpdated bool, correlationId string) error {
	if err := AcquireCratePostingLock(tx); err != nil {
		config.LogError(logger, "crateWorkflow.go", "RestockCrates", "AcquireCratePostingLock", nil, err)
		return err
	}
	defer ReleaseCratePostingLock(tx)

	pool, err := models.GetOrCreateCrateTotalForUpdate(tx)
	if err != nil {
		config.LogError(logger, "crateWorkflow.go", "RestockCrates", "GetOrCreateCrateTotalForUpdate", nil, err)
		return err
	}
	if err := models.AddToCratePool(tx, pool.ID, input.CrateType1Qty, input.CrateType2Qty); err != nil {
		config.LogError(logger, "crateWorkflow.go", "RestockCrates", "AddToCratePool", input, err)
		return err
	}

	crate := models.InventoryCrate{
		Date:          input.Date,
		Status:        models.CrateMovementIn,
		CrateType1Qty: input.CrateType1Qty,
		CrateType2Qty: input.CrateType2Qty,
		Note:          input.Note,
		IsUpdated:     isUpdated,
	}
	if err := models.CreateInventoryCrate(tx, &crate); err != nil {
		config.LogError(logger, "crateWorkflow.go", "RestockCrates", "CreateInventoryCrate", input, err)
		return err
	}

	AppendActivity(tx, logger, crate.ID, models.ReferenceTypeCrate, models.ActivityActionCreate, "crates restocked", crate, correlationId)
	return nil
}

// SendCratesToSupplier moves crates from the pool out to a supplier. The pool
// must cover the full request; the supplier's assigned and held counts both
// grow by the quantity sent.
func SendCratesToSupplier(tx *gorm.DB, logger *logrus.Logger, supplierId int, input *models.NewCrateMovement, correlationId string) error {
	if err := AcquireCratePostingLock(tx); err != nil {
		config.LogError(logger, "crateWorkflow.go", "SendCratesToSupplier", "AcquireCratePostingLock", supplierId, err)
		return err
	}
	defer ReleaseCratePostingLock(tx)

	supplier, err := models.GetSupplierForUpdate(tx, supplierId)
	if err != nil {
		config.LogError(logger, "crateWorkflow.go", "SendCratesToSupplier", "GetSupplierForUpdate", supplierId, err)
		return err
	}

	pool, err := models.GetOrCreateCrateTotalForUpdate(tx)
	if err != nil {
		config.LogError(logger, "crateWorkflow.go", "SendCratesToSupplier", "GetOrCreateCrateTotalForUpdate", nil, err)
		return err
	}
	ok, err := models.TakeFromCratePool(tx, pool.ID, input.CrateType1Qty, input.CrateType2Qty)
	if err != nil {
		config.LogError(logger, "crateWorkflow.go", "SendCratesToSupplier", "TakeFromCratePool", input, err)
		return err
	}
	if !ok {
		return utils.NewInsufficientStockError("not enough crates in the pool")
	}

	updates := map[string]interface{}{
		"crate_crate1":           supplier.CrateInfo.Crate1.Add(input.CrateType1Qty),
		"crate_crate2":           supplier.CrateInfo.Crate2.Add(input.CrateType2Qty),
		"crate_remaining_crate1": supplier.CrateInfo.RemainingCrate1.Add(input.CrateType1Qty),
		"crate_remaining_crate2": supplier.CrateInfo.RemainingCrate2.Add(input.CrateType2Qty),
	}
	if input.Crate1Price.GreaterThan(decimal.Zero) {
		updates["crate_crate1_price"] = input.Crate1Price
	}
	if input.Crate2Price.GreaterThan(decimal.Zero) {
		updates["crate_crate2_price"] = input.Crate2Price
	}
	if err := tx.Model(&models.Supplier{}).Where("id = ?", supplier.ID).Updates(updates).Error; err != nil {
		config.LogError(logger, "crateWorkflow.go", "SendCratesToSupplier", "Update supplier crates", supplier.ID, err)
		return err
	}

	crate := models.InventoryCrate{
		Date:          input.Date,
		Status:        models.CrateMovementOut,
		SupplierId:    &supplier.ID,
		CrateType1Qty: input.CrateType1Qty,
		CrateType2Qty: input.CrateType2Qty,
		Note:          input.Note,
	}
	if err := models.CreateInventoryCrate(tx, &crate); err != nil {
		config.LogError(logger, "crateWorkflow.go", "SendCratesToSupplier", "CreateInventoryCrate", input, err)
		return err
	}

	AppendActivity(tx, logger, crate.ID, models.ReferenceTypeCrate, models.ActivityActionCreate, fmt.Sprintf("crates sent to supplier %d", supplier.ID), crate, correlationId)
	return nil
}

// UpdateCrateOrSupplier reconciles crate counts to a target figure. Without a
// supplier it restocks the pool. With a supplier the requested quantities are
// the supplier's new assigned counts; the difference against the current
// counts flows to or from the pool, and the movement log records the
// correction with IsUpdated set.
func UpdateCrateOrSupplier(tx *gorm.DB, logger *logrus.Logger, supplierId *int, input *models.NewCrateMovement, correlationId string) error {
	if supplierId == nil {
		return restockCrates(tx, logger, input, true, correlationId)
	}

	if err := AcquireCratePostingLock(tx); err != nil {
		config.LogError(logger, "crateWorkflow.go", "UpdateCrateOrSupplier", "AcquireCratePostingLock", *supplierId, err)
		return err
	}
	defer ReleaseCratePostingLock(tx)

	supplier, err := models.GetSupplierForUpdate(tx, *supplierId)
	if err != nil {
		config.LogError(logger, "crateWorkflow.go", "UpdateCrateOrSupplier", "GetSupplierForUpdate", *supplierId, err)
		return err
	}

	pool, err := models.GetOrCreateCrateTotalForUpdate(tx)
	if err != nil {
		config.LogError(logger, "crateWorkflow.go", "UpdateCrateOrSupplier", "GetOrCreateCrateTotalForUpdate", nil, err)
		return err
	}

	delta1 := input.CrateType1Qty.Sub(supplier.CrateInfo.Crate1)
	delta2 := input.CrateType2Qty.Sub(supplier.CrateInfo.Crate2)

	out1, in1 := splitDelta(delta1)
	out2, in2 := splitDelta(delta2)

	if out1.GreaterThan(decimal.Zero) || out2.GreaterThan(decimal.Zero) {
		ok, err := models.TakeFromCratePool(tx, pool.ID, out1, out2)
		if err != nil {
			config.LogError(logger, "crateWorkflow.go", "UpdateCrateOrSupplier", "TakeFromCratePool", input, err)
			return err
		}
		if !ok {
			return utils.NewInsufficientStockError("not enough crates in the pool")
		}
	}
	if in1.GreaterThan(decimal.Zero) || in2.GreaterThan(decimal.Zero) {
		if err := models.ReturnToCratePool(tx, pool.ID, in1, in2); err != nil {
			config.LogError(logger, "crateWorkflow.go", "UpdateCrateOrSupplier", "ReturnToCratePool", input, err)
			return err
		}
	}

	updates := map[string]interface{}{
		"crate_crate1":           input.CrateType1Qty,
		"crate_crate2":           input.CrateType2Qty,
		"crate_remaining_crate1": utils.FloorZero(supplier.CrateInfo.RemainingCrate1.Add(delta1)),
		"crate_remaining_crate2": utils.FloorZero(supplier.CrateInfo.RemainingCrate2.Add(delta2)),
	}
	if input.Crate1Price.GreaterThan(decimal.Zero) {
		updates["crate_crate1_price"] = input.Crate1Price
	}
	if input.Crate2Price.GreaterThan(decimal.Zero) {
		updates["crate_crate2_price"] = input.Crate2Price
	}
	if err := tx.Model(&models.Supplier{}).Where("id = ?", supplier.ID).Updates(updates).Error; err != nil {
		config.LogError(logger, "crateWorkflow.go", "UpdateCrateOrSupplier", "Update supplier crates", supplier.ID, err)
		return err
	}

	if out1.GreaterThan(decimal.Zero) || out2.GreaterThan(decimal.Zero) {
		crate := models.InventoryCrate{
			Date:          input.Date,
			Status:        models.CrateMovementOut,
			SupplierId:    &supplier.ID,
			CrateType1Qty: out1,
			CrateType2Qty: out2,
			Note:          input.Note,
			IsUpdated:     true,
		}
		if err := models.CreateInventoryCrate(tx, &crate); err != nil {
			config.LogError(logger, "crateWorkflow.go", "UpdateCrateOrSupplier", "CreateInventoryCrate OUT", input, err)
			return err
		}
	}
	if in1.GreaterThan(decimal.Zero) || in2.GreaterThan(decimal.Zero) {
		crate := models.InventoryCrate{
			Date:          input.Date,
			Status:        models.CrateMovementIn,
			SupplierId:    &supplier.ID,
			CrateType1Qty: in1,
			CrateType2Qty: in2,
			Note:          input.Note,
			IsUpdated:     true,
		}
		if err := models.CreateInventoryCrate(tx, &crate); err != nil {
			config.LogError(logger, "crateWorkflow.go", "UpdateCrateOrSupplier", "CreateInventoryCrate IN", input, err)
			return err
		}
	}

	AppendActivity(tx, logger, supplier.ID, models.ReferenceTypeCrate, models.ActivityActionUpdate, fmt.Sprintf("supplier %d crates reconciled", supplier.ID), input, correlationId)
	return nil
}

// splitDelta separates a signed crate delta into the quantity leaving the
// pool (positive side) and the quantity returning to it (negative side).
func splitDelta(delta decimal.Decimal) (out, in decimal.Decimal) {
	if delta.GreaterThan(decimal.Zero) {
		return delta, decimal.Zero
	}
	return decimal.Zero, delta.Neg()
}

// UpdateCrateHistoryStatus moves a customer crate history entry between
// given and returned. Entering returned from a non-returned state releases
// the recorded crates: the customer's holdings drop (floored at zero) and
// the pool's remaining counts grow (capped at the totals). The release
// happens at most once; re-submitting returned is a no-op beyond the write.
func UpdateCrateHistoryStatus(tx *gorm.DB, logger *logrus.Logger, historyId int, status models.CrateHistoryStatus, correlationId string) error {
	if !status.Valid() {
		return utils.NewValidationError(fmt.Sprintf("invalid crate history status %q", status))
	}

	history, err := models.GetCrateHistoryForUpdate(tx, historyId)
	if err != nil {
		config.LogError(logger, "crateWorkflow.go", "UpdateCrateHistoryStatus", "GetCrateHistoryForUpdate", historyId, err)
		return err
	}

	if status == models.CrateHistoryStatusReturned && history.Status != models.CrateHistoryStatusReturned {
		customer, err := models.GetCustomerForUpdate(tx, history.CustomerId)
		if err != nil {
			config.LogError(logger, "crateWorkflow.go", "UpdateCrateHistoryStatus", "GetCustomerForUpdate", history.CustomerId, err)
			return err
		}
		err = tx.Model(&models.Customer{}).Where("id = ?", customer.ID).Updates(map[string]interface{}{
			"crate_type1": utils.FloorZero(customer.CrateInfo.Type1.Sub(history.CrateType1)),
			"crate_type2": utils.FloorZero(customer.CrateInfo.Type2.Sub(history.CrateType2)),
		}).Error
		if err != nil {
			config.LogError(logger, "crateWorkflow.go", "UpdateCrateHistoryStatus", "Update customer crates", customer.ID, err)
			return err
		}

		if err := AcquireCratePostingLock(tx); err != nil {
			config.LogError(logger, "crateWorkflow.go", "UpdateCrateHistoryStatus", "AcquireCratePostingLock", historyId, err)
			return err
		}
		defer ReleaseCratePostingLock(tx)

		pool, err := models.GetOrCreateCrateTotalForUpdate(tx)
		if err != nil {
			config.LogError(logger, "crateWorkflow.go", "UpdateCrateHistoryStatus", "GetOrCreateCrateTotalForUpdate", nil, err)
			return err
		}
		if err := models.ReturnToCratePool(tx, pool.ID, history.CrateType1, history.CrateType2); err != nil {
			config.LogError(logger, "crateWorkflow.go", "UpdateCrateHistoryStatus", "ReturnToCratePool", historyId, err)
			return err
		}
	}

	err = tx.Model(&models.CustomerCrateHistory{}).Where("id = ?", history.ID).Update("status", status).Error
	if err != nil {
		config.LogError(logger, "crateWorkflow.go", "UpdateCrateHistoryStatus", "Update status", history.ID, err)
		return err
	}

	AppendActivity(tx, logger, history.ID, models.ReferenceTypeCrateHistory, models.ActivityActionUpdate, "crate history status set to "+string(status), nil, correlationId)
	return nil
}
