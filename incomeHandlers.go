package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/xuri/excelize/v2"
)

func parseDateFilter(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, utils.NewValidationError(fmt.Sprintf("%s must be YYYY-MM-DD", key))
	}
	return &t, nil
}

func listIncomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		from, err := parseDateFilter(c, "from")
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		to, err := parseDateFilter(c, "to")
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))

		rows, total, err := models.ListIncome(c.Request.Context(), from, to, limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "income", gin.H{"total": total, "income": rows})
	}
}

func exportIncomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		from, err := parseDateFilter(c, "from")
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		to, err := parseDateFilter(c, "to")
		if err != nil {
			respondBadRequest(c, err)
			return
		}

		// No paging on export; the whole date range goes into the sheet.
		rows, _, err := models.ListIncome(c.Request.Context(), from, to, 100000, 0)
		if err != nil {
			respondError(c, err)
			return
		}

		f := excelize.NewFile()
		sheet := "Sheet1"
		if _, err := f.NewSheet(sheet); err != nil {
			respondError(c, err)
			return
		}

		// Add headers
		f.SetCellValue(sheet, "A1", "SellDate")
		f.SetCellValue(sheet, "B1", "SaleId")
		f.SetCellValue(sheet, "C1", "TotalSell")
		f.SetCellValue(sheet, "D1", "LotCommission")
		f.SetCellValue(sheet, "E1", "CustomerCommission")
		f.SetCellValue(sheet, "F1", "TotalIncome")
		f.SetCellValue(sheet, "G1", "Received")
		f.SetCellValue(sheet, "H1", "Due")

		// Add data
		for i, d := range rows {
			f.SetCellValue(sheet, "A"+fmt.Sprint(i+2), d.SellDate.Format("2006-01-02"))
			f.SetCellValue(sheet, "B"+fmt.Sprint(i+2), d.SaleId)
			f.SetCellValue(sheet, "C"+fmt.Sprint(i+2), d.TotalSell.InexactFloat64())
			f.SetCellValue(sheet, "D"+fmt.Sprint(i+2), d.LotCommission.InexactFloat64())
			f.SetCellValue(sheet, "E"+fmt.Sprint(i+2), d.CustomerCommission.InexactFloat64())
			f.SetCellValue(sheet, "F"+fmt.Sprint(i+2), d.TotalIncome.InexactFloat64())
			f.SetCellValue(sheet, "G"+fmt.Sprint(i+2), d.Received.InexactFloat64())
			f.SetCellValue(sheet, "H"+fmt.Sprint(i+2), d.Due.InexactFloat64())
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=income.xlsx")
		if err := f.Write(c.Writer); err != nil {
			c.Status(http.StatusInternalServerError)
		}
	}
}

func addExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewExpense
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, err)
			return
		}

		expense, err := models.CreateExpense(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "expense recorded", expense)
	}
}
