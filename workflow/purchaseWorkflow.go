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

// ApplyCrateObligation consumes requested crates from a supplier's held count.
// When the request exceeds what the supplier holds, the held count drops to
// zero and the shortfall accrues on the owed side.
func ApplyCrateObligation(remaining, needToGive, requested decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if requested.GreaterThan(remaining) {
		return decimal.Zero, needToGive.Add(requested.Sub(remaining))
	}
	return remaining.Sub(requested), needToGive
}

// CreatePurchase persists the purchase graph and settles each supplier's
// crate obligation from the carats requested across that supplier's lots.
func CreatePurchase(tx *gorm.DB, logger *logrus.Logger, input *models.NewPurchase, correlationId string) (*models.Purchase, error) {
	status := input.Status
	if status == "" {
		status = models.PurchaseStatusOnTheWay
	}
	if !status.Valid() {
		return nil, utils.NewValidationError(fmt.Sprintf("invalid purchase status %q", status))
	}

	purchase := models.Purchase{
		PurchaseDate:  input.PurchaseDate,
		Status:        status,
		IsLotsCreated: utils.NewFalse(),
		Note:          input.Note,
	}
	for _, item := range input.Items {
		purchaseItem := &models.PurchaseItem{SupplierId: item.SupplierId}
		for _, line := range item.Lots {
			purchaseItem.Lots = append(purchaseItem.Lots, &models.PurchaseLotLine{
				ProductId:      line.ProductId,
				LotName:        line.LotName,
				UnitCost:       line.UnitCost,
				CommissionRate: line.CommissionRate,
				CaratType1:     line.CaratType1,
				CaratType2:     line.CaratType2,
				BoxQuantity:    line.BoxQuantity,
				Expenses:       line.Expenses,
			})
		}
		purchase.Items = append(purchase.Items, purchaseItem)
	}

	if err := tx.Create(&purchase).Error; err != nil {
		config.LogError(logger, "purchaseWorkflow.go", "CreatePurchase", "Create purchase", input, err)
		return nil, err
	}

	for _, item := range input.Items {
		requested1 := decimal.Zero
		requested2 := decimal.Zero
		for _, line := range item.Lots {
			requested1 = requested1.Add(line.CaratType1)
			requested2 = requested2.Add(line.CaratType2)
		}

		supplier, err := models.GetSupplierForUpdate(tx, item.SupplierId)
		if err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "CreatePurchase", "GetSupplierForUpdate", item.SupplierId, err)
			return nil, err
		}

		remaining1, need1 := ApplyCrateObligation(supplier.CrateInfo.RemainingCrate1, supplier.CrateInfo.NeedToGiveCrate1, requested1)
		remaining2, need2 := ApplyCrateObligation(supplier.CrateInfo.RemainingCrate2, supplier.CrateInfo.NeedToGiveCrate2, requested2)

		err = tx.Model(&models.Supplier{}).Where("id = ?", supplier.ID).Updates(map[string]interface{}{
			"crate_remaining_crate1":    remaining1,
			"crate_remaining_crate2":    remaining2,
			"crate_need_to_give_crate1": need1,
			"crate_need_to_give_crate2": need2,
		}).Error
		if err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "CreatePurchase", "Update supplier crates", supplier.ID, err)
			return nil, err
		}
	}

	AppendActivity(tx, logger, purchase.ID, models.ReferenceTypePurchase, models.ActivityActionCreate, "purchase created", purchase, correlationId)
	return &purchase, nil
}

// UpdatePurchaseStatus writes the status field only. Canceling a purchase
// does not reverse crate obligations already settled at intake.
func UpdatePurchaseStatus(tx *gorm.DB, logger *logrus.Logger, purchaseId int, status models.PurchaseStatus, correlationId string) error {
	if !status.Valid() {
		return utils.NewValidationError(fmt.Sprintf("invalid purchase status %q", status))
	}

	res := tx.Model(&models.Purchase{}).Where("id = ?", purchaseId).Update("status", status)
	if res.Error != nil {
		config.LogError(logger, "purchaseWorkflow.go", "UpdatePurchaseStatus", "Update status", purchaseId, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError("purchase not found")
	}

	AppendActivity(tx, logger, purchaseId, models.ReferenceTypePurchase, models.ActivityActionUpdate, "purchase status set to "+string(status), nil, correlationId)
	return nil
}
