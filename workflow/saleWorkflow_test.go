package workflow

import (
	"errors"
	"testing"

	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. They validate the stock
// consumption semantics for both lot stock forms and the status derivation
// rule. Full DB integration tests live in the models package.

func boxLot(boxes, remaining int64) *models.InventoryLot {
	return &models.InventoryLot{
		LotName:        "box-lot",
		Status:         models.LotStatusInStock,
		BoxQuantity:    decimal.NewFromInt(boxes),
		RemainingBoxes: decimal.NewFromInt(remaining),
	}
}

func caratLot(rem1, rem2 int64) *models.InventoryLot {
	return &models.InventoryLot{
		LotName: "carat-lot",
		Status:  models.LotStatusInStock,
		Carat: models.LotCarat{
			CaratType1:          decimal.NewFromInt(rem1),
			CaratType2:          decimal.NewFromInt(rem2),
			RemainingCaratType1: decimal.NewFromInt(rem1),
			RemainingCaratType2: decimal.NewFromInt(rem2),
		},
	}
}

func TestConsumeLotStockBoxTracked(t *testing.T) {
	lot := boxLot(10, 10)
	err := ConsumeLotStock(lot, StockRequest{Boxes: decimal.NewFromInt(4)})
	if err != nil {
		t.Fatalf("ConsumeLotStock: %v", err)
	}
	if !lot.RemainingBoxes.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("remaining boxes = %s, want 6", lot.RemainingBoxes)
	}
	if lot.Status != models.LotStatusInStock {
		t.Fatalf("status = %s, want in stock", lot.Status)
	}
}

func TestConsumeLotStockBoxTrackedExhaustion(t *testing.T) {
	lot := boxLot(10, 4)
	err := ConsumeLotStock(lot, StockRequest{Boxes: decimal.NewFromInt(4)})
	if err != nil {
		t.Fatalf("ConsumeLotStock: %v", err)
	}
	if lot.Status != models.LotStatusStockOut {
		t.Fatalf("status = %s, want stock out", lot.Status)
	}
}

func TestConsumeLotStockBoxTrackedInsufficient(t *testing.T) {
	lot := boxLot(10, 3)
	err := ConsumeLotStock(lot, StockRequest{Boxes: decimal.NewFromInt(4)})
	var insufficient *utils.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if !lot.RemainingBoxes.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("remaining boxes changed on failed consume: %s", lot.RemainingBoxes)
	}
}

func TestConsumeLotStockCaratTracked(t *testing.T) {
	lot := caratLot(8, 5)
	err := ConsumeLotStock(lot, StockRequest{Carat1: decimal.NewFromInt(8), Carat2: decimal.NewFromInt(2)})
	if err != nil {
		t.Fatalf("ConsumeLotStock: %v", err)
	}
	// One carat type at zero is not stock out; BOTH must hit zero.
	if lot.Status != models.LotStatusInStock {
		t.Fatalf("status = %s, want in stock while carat type 2 remains", lot.Status)
	}

	err = ConsumeLotStock(lot, StockRequest{Carat2: decimal.NewFromInt(3)})
	if err != nil {
		t.Fatalf("ConsumeLotStock second draw: %v", err)
	}
	if lot.Status != models.LotStatusStockOut {
		t.Fatalf("status = %s, want stock out with both carat types at zero", lot.Status)
	}
}

func TestConsumeLotStockCaratTrackedInsufficient(t *testing.T) {
	lot := caratLot(2, 5)
	err := ConsumeLotStock(lot, StockRequest{Carat1: decimal.NewFromInt(3)})
	var insufficient *utils.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}

	lot = caratLot(5, 2)
	err = ConsumeLotStock(lot, StockRequest{Carat2: decimal.NewFromInt(3)})
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if !lot.Carat.RemainingCaratType1.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("carat type 1 changed on failed consume: %s", lot.Carat.RemainingCaratType1)
	}
}

func TestConsumeLotStockBoxLotIgnoresCarats(t *testing.T) {
	// A box-tracked lot consumes boxes even when the request carries carat
	// figures; the carat side of the request is informational.
	lot := boxLot(10, 10)
	err := ConsumeLotStock(lot, StockRequest{Boxes: decimal.NewFromInt(10), Carat1: decimal.NewFromInt(99)})
	if err != nil {
		t.Fatalf("ConsumeLotStock: %v", err)
	}
	if lot.Status != models.LotStatusStockOut {
		t.Fatalf("status = %s, want stock out", lot.Status)
	}
}

func TestDeriveLotStatusZeroOnlyBoundary(t *testing.T) {
	// Fractional remainders stay in stock; only exactly zero flips the status.
	lot := boxLot(10, 10)
	if err := ConsumeLotStock(lot, StockRequest{Boxes: decimal.RequireFromString("9.5")}); err != nil {
		t.Fatalf("ConsumeLotStock: %v", err)
	}
	if lot.Status != models.LotStatusInStock {
		t.Fatalf("status = %s, want in stock at 0.5 boxes", lot.Status)
	}

	carat := caratLot(1, 0)
	if err := ConsumeLotStock(carat, StockRequest{Carat1: decimal.RequireFromString("0.9999")}); err != nil {
		t.Fatalf("ConsumeLotStock: %v", err)
	}
	if carat.Status != models.LotStatusInStock {
		t.Fatalf("status = %s, want in stock at 0.0001 carat", carat.Status)
	}
}
