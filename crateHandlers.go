package main

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/mmfreshmart/pos_backend/workflow"
	"gorm.io/gorm"
)

const crateTotalCacheKey = "cache:crate-total"

func addCratesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCrateMovement
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, err)
			return
		}

		db := config.GetDB()
		logger := config.GetLogger()
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())

		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			return workflow.RestockCrates(tx, logger, &input, correlationId)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		config.RemoveRedisKey(crateTotalCacheKey)
		respondCreated(c, "crates restocked", input)
	}
}

func sendCratesToSupplierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		supplierId, err := strconv.Atoi(c.Param("supplierId"))
		if err != nil || supplierId <= 0 {
			respondBadRequest(c, utils.NewValidationError("invalid supplier id"))
			return
		}
		var input models.NewCrateMovement
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, err)
			return
		}

		db := config.GetDB()
		logger := config.GetLogger()
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())

		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			return workflow.SendCratesToSupplier(tx, logger, supplierId, &input, correlationId)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		config.RemoveRedisKey(crateTotalCacheKey)
		respondCreated(c, "crates sent to supplier", gin.H{"supplier_id": supplierId})
	}
}

func updateCratesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var supplierId *int
		if raw := c.Query("supplierId"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil || id <= 0 {
				respondBadRequest(c, utils.NewValidationError("invalid supplier id"))
				return
			}
			supplierId = &id
		}
		var input models.NewCrateMovement
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, err)
			return
		}

		db := config.GetDB()
		logger := config.GetLogger()
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())

		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			return workflow.UpdateCrateOrSupplier(tx, logger, supplierId, &input, correlationId)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		config.RemoveRedisKey(crateTotalCacheKey)
		respondOK(c, "crates updated", gin.H{"supplier_id": supplierId})
	}
}

func getCrateTotalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var cached models.CrateTotal
		if ok, err := config.GetRedisObject(crateTotalCacheKey, &cached); err == nil && ok {
			respondOK(c, "crate totals", cached)
			return
		}

		pool, err := models.GetCrateTotal(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		// Cache errors are not worth failing the read over.
		config.SetRedisObject(crateTotalCacheKey, pool, 30*time.Second)
		respondOK(c, "crate totals", pool)
	}
}

func updateCrateHistoryStatusHandler() gin.HandlerFunc {
	type statusRequest struct {
		Status models.CrateHistoryStatus `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondBadRequest(c, utils.NewValidationError("invalid crate history id"))
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
			return workflow.UpdateCrateHistoryStatus(tx, logger, id, req.Status, correlationId)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		config.RemoveRedisKey(crateTotalCacheKey)
		respondOK(c, "crate history status updated", gin.H{"id": id, "status": req.Status})
	}
}
