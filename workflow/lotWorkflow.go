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

// MaterializeLots turns every purchase lot line into one sellable inventory
// lot and flips the purchase's one-shot flag, all inside the caller's
// transaction. Returns the number of lots created.
func MaterializeLots(tx *gorm.DB, logger *logrus.Logger, purchaseId int, correlationId string) (int, error) {
	purchase, err := models.GetPurchaseForUpdate(tx, purchaseId)
	if err != nil {
		config.LogError(logger, "lotWorkflow.go", "MaterializeLots", "GetPurchaseForUpdate", purchaseId, err)
		return 0, err
	}
	if purchase.IsLotsCreated != nil && *purchase.IsLotsCreated {
		return 0, utils.NewConflictError(fmt.Sprintf("lots already created for purchase %d", purchaseId))
	}

	var lots []*models.InventoryLot
	for _, item := range purchase.Items {
		for _, line := range item.Lots {
			count, err := models.CountLotsByName(tx, line.LotName)
			if err != nil {
				config.LogError(logger, "lotWorkflow.go", "MaterializeLots", "CountLotsByName", line.LotName, err)
				return 0, err
			}
			if count > 0 {
				return 0, utils.NewConflictError(fmt.Sprintf("lot name %q already exists", line.LotName))
			}
			lots = append(lots, buildInventoryLot(purchase.ID, item.SupplierId, line))
		}
	}
	if len(lots) == 0 {
		return 0, utils.NewValidationError(fmt.Sprintf("purchase %d has no lot lines", purchaseId))
	}

	if err := tx.Create(&lots).Error; err != nil {
		// The unique index on lot_name closes the pre-check race.
		if models.IsDuplicateKeyErr(err) {
			return 0, utils.NewConflictError("lot name already exists")
		}
		config.LogError(logger, "lotWorkflow.go", "MaterializeLots", "Create lots", purchaseId, err)
		return 0, err
	}

	err = tx.Model(&models.Purchase{}).Where("id = ?", purchase.ID).Update("is_lots_created", true).Error
	if err != nil {
		config.LogError(logger, "lotWorkflow.go", "MaterializeLots", "Update is_lots_created", purchase.ID, err)
		return 0, err
	}

	AppendActivity(tx, logger, purchase.ID, models.ReferenceTypeInventoryLot, models.ActivityActionCreate, fmt.Sprintf("%d lots created from purchase", len(lots)), nil, correlationId)
	return len(lots), nil
}

func buildInventoryLot(purchaseId, supplierId int, line *models.PurchaseLotLine) *models.InventoryLot {
	return &models.InventoryLot{
		LotName:       line.LotName,
		Status:        models.LotStatusInStock,
		PaymentStatus: models.LotPaymentStatusUnpaid,
		ProductId:     line.ProductId,
		SupplierId:    supplierId,
		PurchaseId:    purchaseId,
		Carat: models.LotCarat{
			CaratType1:          line.CaratType1,
			CaratType2:          line.CaratType2,
			RemainingCaratType1: line.CaratType1,
			RemainingCaratType2: line.CaratType2,
		},
		BoxQuantity:    line.BoxQuantity,
		RemainingBoxes: line.BoxQuantity,
		Costs: models.LotCosts{
			UnitCost:       line.UnitCost,
			CommissionRate: line.CommissionRate,
		},
		HasCommission: line.CommissionRate.GreaterThan(decimal.Zero),
		Expenses: models.LotExpenseDetails{
			Labour:        line.Expenses.Labour,
			Transport:     line.Expenses.Transport,
			Toll:          line.Expenses.Toll,
			Other:         line.Expenses.Other,
			TotalExpenses: line.Expenses.TotalExpenses,
		},
	}
}

// SetLotStatus overrides a lot's stock status directly, outside of sale
// settlement. Used for manual correction of spoiled or miscounted stock.
func SetLotStatus(tx *gorm.DB, logger *logrus.Logger, lotId int, status models.LotStatus, correlationId string) error {
	if !status.Valid() {
		return utils.NewValidationError(fmt.Sprintf("invalid lot status %q", status))
	}

	res := tx.Model(&models.InventoryLot{}).Where("id = ?", lotId).Update("status", status)
	if res.Error != nil {
		config.LogError(logger, "lotWorkflow.go", "SetLotStatus", "Update status", lotId, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError("inventory lot not found")
	}

	AppendActivity(tx, logger, lotId, models.ReferenceTypeInventoryLot, models.ActivityActionUpdate, "lot status set to "+string(status), nil, correlationId)
	return nil
}
