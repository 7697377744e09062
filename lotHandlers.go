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

func materializeLotsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		purchaseId, err := strconv.Atoi(c.Query("id"))
		if err != nil || purchaseId <= 0 {
			respondBadRequest(c, utils.NewValidationError("query parameter id must be a purchase id"))
			return
		}

		db := config.GetDB()
		logger := config.GetLogger()
		ctx, span := tracer.Start(c.Request.Context(), "MaterializeLots")
		defer span.End()
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)

		var created int
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			created, err = workflow.MaterializeLots(tx, logger, purchaseId, correlationId)
			return err
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "lots created", gin.H{"purchase_id": purchaseId, "count": created})
	}
}

func listLotsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		status := models.LotStatus(c.Query("status"))
		if status != "" && !status.Valid() {
			respondBadRequest(c, utils.NewValidationError("invalid lot status filter"))
			return
		}

		lots, total, err := models.ListInventoryLots(c.Request.Context(), status, limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "inventory lots", gin.H{"total": total, "lots": lots})
	}
}

func setLotStatusHandler() gin.HandlerFunc {
	type statusRequest struct {
		Status models.LotStatus `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondBadRequest(c, utils.NewValidationError("invalid lot id"))
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
			return workflow.SetLotStatus(tx, logger, id, req.Status, correlationId)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "lot status updated", gin.H{"id": id, "status": req.Status})
	}
}
