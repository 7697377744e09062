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

func addSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSale
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, err)
			return
		}

		db := config.GetDB()
		logger := config.GetLogger()
		ctx, span := tracer.Start(c.Request.Context(), "CreateSale")
		defer span.End()
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)

		var sale *models.Sale
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			sale, err = workflow.CreateSale(tx, logger, &input, correlationId)
			return err
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "sale settled", sale)
	}
}

func getSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondBadRequest(c, utils.NewValidationError("invalid sale id"))
			return
		}
		sale, err := models.GetSaleById(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "sale", sale)
	}
}
