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

// StockRequest is the quantity a sale takes from one lot, in the lot's own
// stock form. Box-tracked lots consume Boxes; carat-tracked lots consume the
// two carat types.
type StockRequest struct {
	Boxes  decimal.Decimal
	Carat1 decimal.Decimal
	Carat2 decimal.Decimal
}

// ConsumeLotStock applies a stock request to the lot in memory and derives
// the resulting status. The lot row must be held under a row lock.
func ConsumeLotStock(lot *models.InventoryLot, req StockRequest) error {
	if lot.TracksBoxes() {
		if req.Boxes.GreaterThan(lot.RemainingBoxes) {
			return utils.NewInsufficientStockError(fmt.Sprintf("lot %q has %s boxes remaining, requested %s", lot.LotName, lot.RemainingBoxes, req.Boxes))
		}
		lot.RemainingBoxes = lot.RemainingBoxes.Sub(req.Boxes)
	} else {
		if req.Carat1.GreaterThan(lot.Carat.RemainingCaratType1) {
			return utils.NewInsufficientStockError(fmt.Sprintf("lot %q has %s of carat type 1 remaining, requested %s", lot.LotName, lot.Carat.RemainingCaratType1, req.Carat1))
		}
		if req.Carat2.GreaterThan(lot.Carat.RemainingCaratType2) {
			return utils.NewInsufficientStockError(fmt.Sprintf("lot %q has %s of carat type 2 remaining, requested %s", lot.LotName, lot.Carat.RemainingCaratType2, req.Carat2))
		}
		lot.Carat.RemainingCaratType1 = lot.Carat.RemainingCaratType1.Sub(req.Carat1)
		lot.Carat.RemainingCaratType2 = lot.Carat.RemainingCaratType2.Sub(req.Carat2)
	}
	lot.Status = DeriveLotStatus(lot)
	return nil
}

// DeriveLotStatus reports "stock out" only when the tracked remaining
// quantity reaches exactly zero: boxes for box-tracked lots, BOTH carat
// types for carat-tracked lots.
func DeriveLotStatus(lot *models.InventoryLot) models.LotStatus {
	if lot.TracksBoxes() {
		if lot.RemainingBoxes.IsZero() {
			return models.LotStatusStockOut
		}
		return models.LotStatusInStock
	}
	if lot.Carat.RemainingCaratType1.IsZero() && lot.Carat.RemainingCaratType2.IsZero() {
		return models.LotStatusStockOut
	}
	return models.LotStatusInStock
}

// CreateSale settles one checkout: persists the sale graph, consumes stock
// from every selected lot, accrues commissions on the lots, moves the
// customer's due and crate holdings, writes the income snapshot and opens a
// crate history entry when crates went out with the goods. All or nothing.
func CreateSale(tx *gorm.DB, logger *logrus.Logger, input *models.NewSale, correlationId string) (*models.Sale, error) {
	customer, err := models.GetCustomerForUpdate(tx, input.CustomerId)
	if err != nil {
		config.LogError(logger, "saleWorkflow.go", "CreateSale", "GetCustomerForUpdate", input.CustomerId, err)
		return nil, err
	}

	sale := models.Sale{
		SellDate:   input.SellDate,
		CustomerId: input.CustomerId,
		Profit:     input.Profit,
		Payment:    input.Payment,
	}
	for _, item := range input.Items {
		saleItem := &models.SaleItem{
			ProductId:                item.ProductId,
			CustomerCommissionRate:   item.CustomerCommissionRate,
			CustomerCommissionAmount: item.CustomerCommissionAmount,
		}
		for _, l := range item.Lots {
			saleItem.Lots = append(saleItem.Lots, &models.SaleLot{
				LotId:               l.LotId,
				Kg:                  l.Kg,
				DiscountKg:          l.DiscountKg,
				UnitPrice:           l.UnitPrice,
				TotalPrice:          l.TotalPrice,
				DiscountAmount:      l.DiscountAmount,
				SellingPrice:        l.SellingPrice,
				LotCommissionRate:   l.LotCommissionRate,
				LotCommissionAmount: l.LotCommissionAmount,
				BoxQuantity:         l.BoxQuantity,
				CaratType1:          l.CaratType1,
				CaratType2:          l.CaratType2,
				CrateType1:          l.CrateType1,
				CrateType2:          l.CrateType2,
			})
		}
		sale.Items = append(sale.Items, saleItem)
	}
	if err := tx.Create(&sale).Error; err != nil {
		config.LogError(logger, "saleWorkflow.go", "CreateSale", "Create sale", input, err)
		return nil, err
	}

	totalSell := decimal.Zero
	lotCommission := decimal.Zero
	customerCommission := decimal.Zero
	crate1 := decimal.Zero
	crate2 := decimal.Zero
	var lotIds []int

	for _, item := range input.Items {
		customerCommission = customerCommission.Add(item.CustomerCommissionAmount)
		for _, line := range item.Lots {
			lot, err := models.GetInventoryLotForUpdate(tx, line.LotId)
			if err != nil {
				config.LogError(logger, "saleWorkflow.go", "CreateSale", "GetInventoryLotForUpdate", line.LotId, err)
				return nil, err
			}
			req := StockRequest{Boxes: line.BoxQuantity, Carat1: line.CaratType1, Carat2: line.CaratType2}
			if err := ConsumeLotStock(lot, req); err != nil {
				return nil, err
			}

			lot.Sales.TotalKgSold = lot.Sales.TotalKgSold.Add(line.Kg)
			lot.Sales.TotalSoldPrice = lot.Sales.TotalSoldPrice.Add(line.SellingPrice)
			lot.Profits.LotProfit = lot.Profits.LotProfit.Add(line.LotCommissionAmount)
			lot.Profits.CustomerProfit = lot.Profits.CustomerProfit.Add(item.CustomerCommissionAmount)
			lot.Profits.TotalProfit = lot.Profits.TotalProfit.Add(line.LotCommissionAmount).Add(item.CustomerCommissionAmount)

			err = tx.Model(&models.InventoryLot{}).Where("id = ?", lot.ID).Updates(map[string]interface{}{
				"remaining_boxes":             lot.RemainingBoxes,
				"carat_remaining_carat_type1": lot.Carat.RemainingCaratType1,
				"carat_remaining_carat_type2": lot.Carat.RemainingCaratType2,
				"status":                      lot.Status,
				"sale_total_kg_sold":          lot.Sales.TotalKgSold,
				"sale_total_sold_price":       lot.Sales.TotalSoldPrice,
				"profit_lot_profit":           lot.Profits.LotProfit,
				"profit_customer_profit":      lot.Profits.CustomerProfit,
				"profit_total_profit":         lot.Profits.TotalProfit,
			}).Error
			if err != nil {
				config.LogError(logger, "saleWorkflow.go", "CreateSale", "Update lot", lot.ID, err)
				return nil, err
			}

			totalSell = totalSell.Add(line.SellingPrice)
			lotCommission = lotCommission.Add(line.LotCommissionAmount)
			crate1 = crate1.Add(line.CrateType1)
			crate2 = crate2.Add(line.CrateType2)
			lotIds = append(lotIds, line.LotId)
		}
	}
	lotIds = utils.UniqueSlice(lotIds)

	newDue := customer.AccountInfo.Due.Add(input.Payment.DueAmount)
	newCrate1 := utils.FloorZero(customer.CrateInfo.Type1.Add(crate1))
	newCrate2 := utils.FloorZero(customer.CrateInfo.Type2.Add(crate2))
	err = tx.Model(&models.Customer{}).Where("id = ?", customer.ID).Updates(map[string]interface{}{
		"account_due": newDue,
		"crate_type1": newCrate1,
		"crate_type2": newCrate2,
	}).Error
	if err != nil {
		config.LogError(logger, "saleWorkflow.go", "CreateSale", "Update customer", customer.ID, err)
		return nil, err
	}

	income := models.Income{
		SellDate:           sale.SellDate,
		SaleId:             sale.ID,
		LotIds:             lotIds,
		TotalSell:          totalSell,
		LotCommission:      lotCommission,
		CustomerCommission: customerCommission,
		TotalIncome:        lotCommission.Add(customerCommission),
		Received:           input.Payment.ReceivedAmount,
		Due:                input.Payment.DueAmount,
	}
	if err := tx.Create(&income).Error; err != nil {
		config.LogError(logger, "saleWorkflow.go", "CreateSale", "Create income", sale.ID, err)
		return nil, err
	}

	if crate1.GreaterThan(decimal.Zero) || crate2.GreaterThan(decimal.Zero) {
		history := models.CustomerCrateHistory{
			SaleId:          sale.ID,
			CustomerId:      customer.ID,
			CrateType1:      crate1,
			CrateType2:      crate2,
			CrateType1Price: customer.CrateInfo.Type1Price,
			CrateType2Price: customer.CrateInfo.Type2Price,
			Status:          models.CrateHistoryStatusGiven,
		}
		if err := tx.Create(&history).Error; err != nil {
			config.LogError(logger, "saleWorkflow.go", "CreateSale", "Create crate history", sale.ID, err)
			return nil, err
		}
	}

	AppendActivity(tx, logger, sale.ID, models.ReferenceTypeSale, models.ActivityActionCreate, "sale settled", sale, correlationId)
	return &sale, nil
}
