package workflow

import (
	"fmt"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ApplyBalance records a deposit and credits it to the customer's or
// supplier's account balance in a single atomic increment. The unique
// transaction id makes a retried request post exactly once.
func ApplyBalance(tx *gorm.DB, logger *logrus.Logger, input *models.NewBalance, correlationId string) (*models.Balance, error) {
	if !input.Role.Valid() {
		return nil, utils.NewValidationError(fmt.Sprintf("invalid balance role %q", input.Role))
	}

	balance := models.Balance{
		Date:          input.Date,
		Amount:        input.Amount,
		TransactionId: input.TransactionId,
		PaymentMethod: input.PaymentMethod,
		AccountId:     input.AccountId,
		BalanceFor:    input.BalanceFor,
		Role:          input.Role,
	}
	if err := models.CreateBalance(tx, &balance); err != nil {
		if models.IsDuplicateKeyErr(err) {
			return nil, utils.NewConflictError("duplicate balance transaction id")
		}
		config.LogError(logger, "balanceWorkflow.go", "ApplyBalance", "Create balance", input, err)
		return nil, err
	}

	var res *gorm.DB
	switch input.Role {
	case models.BalanceRoleCustomer:
		res = tx.Model(&models.Customer{}).Where("id = ?", input.BalanceFor).
			Update("account_balance", gorm.Expr("account_balance + ?", input.Amount))
	case models.BalanceRoleSupplier:
		res = tx.Model(&models.Supplier{}).Where("id = ?", input.BalanceFor).
			Update("account_balance", gorm.Expr("account_balance + ?", input.Amount))
	}
	if res.Error != nil {
		config.LogError(logger, "balanceWorkflow.go", "ApplyBalance", "Increment balance", input, res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.NewNotFoundError(fmt.Sprintf("%s not found", input.Role))
	}

	// Money accounts mirror the cash movement per payment method.
	if input.AccountId != nil {
		acc := tx.Model(&models.MoneyAccount{}).Where("id = ?", *input.AccountId).
			Update("balance", gorm.Expr("balance + ?", input.Amount))
		if acc.Error != nil {
			config.LogError(logger, "balanceWorkflow.go", "ApplyBalance", "Credit money account", input, acc.Error)
			return nil, acc.Error
		}
		if acc.RowsAffected == 0 {
			return nil, utils.NewNotFoundError("money account not found")
		}
	}

	AppendActivity(tx, logger, balance.ID, models.ReferenceTypeBalance, models.ActivityActionCreate, "balance applied", balance, correlationId)
	return &balance, nil
}
