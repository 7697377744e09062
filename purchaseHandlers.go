package main

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/mmfreshmart/pos_backend/workflow"
	"gorm.io/gorm"
)

func addPurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPurchase
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, err)
			return
		}

		db := config.GetDB()
		logger := config.GetLogger()
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())

		var purchase *models.Purchase
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var err error
			purchase, err = workflow.CreatePurchase(tx, logger, &input, correlationId)
			return err
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "purchase created", purchase)
	}
}

func listPurchasesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))

		purchases, total, err := models.ListPurchases(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "purchases", gin.H{"total": total, "purchases": purchases})
	}
}

func getPurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondBadRequest(c, utils.NewValidationError("invalid purchase id"))
			return
		}
		purchase, err := models.GetPurchaseById(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "purchase", purchase)
	}
}

func updatePurchaseStatusHandler() gin.HandlerFunc {
	type statusRequest struct {
		Status models.PurchaseStatus `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondBadRequest(c, utils.NewValidationError("invalid purchase id"))
			return
		}
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}

		db := config.GetDB()
		logger := config.GetLogger()
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())

		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			return workflow.UpdatePurchaseStatus(tx, logger, id, req.Status, correlationId)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "purchase status updated", gin.H{"id": id, "status": req.Status})
	}
}
