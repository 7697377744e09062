package workflow

import (
	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateSupplierPayment settles a payout to a supplier: persists the payment,
// marks each selected lot paid with its final profit and discount figures,
// draws the counted-in portion from the supplier balance and accrues the
// remainder on the supplier's due. Atomic within the caller's transaction.
func CreateSupplierPayment(tx *gorm.DB, logger *logrus.Logger, input *models.NewPayment, correlationId string) (*models.Payment, error) {
	payment := models.Payment{
		Date:              input.Date,
		SupplierId:        input.SupplierId,
		InventoryLotIds:   input.InventoryLotIds,
		Amount:            input.Amount,
		TransactionId:     input.TransactionId,
		PaymentMethod:     input.PaymentMethod,
		AmountFromBalance: input.AmountFromBalance,
		NeedToPayDue:      input.NeedToPayDue,
	}
	if err := models.CreatePayment(tx, &payment); err != nil {
		if models.IsDuplicateKeyErr(err) {
			return nil, utils.NewConflictError("duplicate payment transaction id")
		}
		config.LogError(logger, "paymentWorkflow.go", "CreateSupplierPayment", "Create payment", input, err)
		return nil, err
	}

	for _, info := range input.SelectedLotsInfo {
		lot, err := models.GetInventoryLotForUpdate(tx, info.LotId)
		if err != nil {
			config.LogError(logger, "paymentWorkflow.go", "CreateSupplierPayment", "GetInventoryLotForUpdate", info.LotId, err)
			return nil, err
		}
		// The payment carries the lot's final settlement figures; they
		// overwrite whatever sale settlement accumulated.
		err = tx.Model(&models.InventoryLot{}).Where("id = ?", lot.ID).Updates(map[string]interface{}{
			"payment_status":         models.LotPaymentStatusPaid,
			"profit_lot_profit":      info.Profit,
			"expense_extra_discount": info.Discount,
		}).Error
		if err != nil {
			config.LogError(logger, "paymentWorkflow.go", "CreateSupplierPayment", "Update lot", lot.ID, err)
			return nil, err
		}
	}

	supplier, err := models.GetSupplierForUpdate(tx, input.SupplierId)
	if err != nil {
		config.LogError(logger, "paymentWorkflow.go", "CreateSupplierPayment", "GetSupplierForUpdate", input.SupplierId, err)
		return nil, err
	}
	newBalance := utils.FloorZero(supplier.AccountInfo.Balance.Sub(input.AmountFromBalance))
	newDue := supplier.AccountInfo.Due.Add(input.NeedToPayDue)
	err = tx.Model(&models.Supplier{}).Where("id = ?", supplier.ID).Updates(map[string]interface{}{
		"account_balance": newBalance,
		"account_due":     newDue,
	}).Error
	if err != nil {
		config.LogError(logger, "paymentWorkflow.go", "CreateSupplierPayment", "Update supplier account", supplier.ID, err)
		return nil, err
	}

	AppendActivity(tx, logger, payment.ID, models.ReferenceTypePayment, models.ActivityActionCreate, "supplier payment settled", payment, correlationId)
	return &payment, nil
}
