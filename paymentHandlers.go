package main

import (
	"github.com/gin-gonic/gin"
	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/mmfreshmart/pos_backend/workflow"
	"gorm.io/gorm"
)

func addPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPayment
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, err)
			return
		}

		db := config.GetDB()
		logger := config.GetLogger()
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())

		var payment *models.Payment
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var err error
			payment, err = workflow.CreateSupplierPayment(tx, logger, &input, correlationId)
			return err
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "supplier payment settled", payment)
	}
}

func addBalanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewBalance
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, err)
			return
		}

		db := config.GetDB()
		logger := config.GetLogger()
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())

		var balance *models.Balance
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var err error
			balance, err = workflow.ApplyBalance(tx, logger, &input, correlationId)
			return err
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "balance applied", balance)
	}
}

func addMoneyAccountHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewMoneyAccount
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, err)
			return
		}

		account, err := models.CreateMoneyAccount(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "money account created", account)
	}
}

func listMoneyAccountsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts, err := models.ListMoneyAccounts(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "money accounts", gin.H{"accounts": accounts})
	}
}
