package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"github.com/mmfreshmart/pos_backend/workflow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Exercises the whole settlement chain against a real MySQL: crate restock,
// crates out to a supplier, purchase intake with crate obligation, lot
// materialization, sale settlement, crate return and supplier payment.
func TestPurchaseSaleSettlementLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()
	logger := logrus.New()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "freshmart_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()
	db := config.GetDB()

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: "Aung Mango Farm"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{
		Name:       "Downtown Fruit Stand",
		Type1Price: decimal.NewFromInt(1500),
		Type2Price: decimal.NewFromInt(2500),
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	product, err := models.CreateProduct(ctx, &models.NewProduct{Name: "Sein Ta Lone Mango", Unit: "kg"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// Restock the pool: 20 of type 1, 10 of type 2.
	tx := db.Begin()
	err = workflow.RestockCrates(tx, logger, &models.NewCrateMovement{
		Date:          time.Now(),
		CrateType1Qty: decimal.NewFromInt(20),
		CrateType2Qty: decimal.NewFromInt(10),
	}, "test-restock")
	if err != nil {
		t.Fatalf("RestockCrates: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("restock commit: %v", err)
	}
	pool, err := models.GetCrateTotal(ctx)
	if err != nil {
		t.Fatalf("GetCrateTotal: %v", err)
	}
	if !pool.Type1Total.Equal(decimal.NewFromInt(20)) || !pool.RemainingType1.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("pool type 1 = %s/%s, want 20/20", pool.RemainingType1, pool.Type1Total)
	}

	// Send 8 + 4 out to the supplier.
	tx = db.Begin()
	err = workflow.SendCratesToSupplier(tx, logger, supplier.ID, &models.NewCrateMovement{
		Date:          time.Now(),
		CrateType1Qty: decimal.NewFromInt(8),
		CrateType2Qty: decimal.NewFromInt(4),
	}, "test-send")
	if err != nil {
		t.Fatalf("SendCratesToSupplier: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("send commit: %v", err)
	}
	supplier, err = models.GetSupplierById(ctx, supplier.ID)
	if err != nil {
		t.Fatalf("GetSupplierById: %v", err)
	}
	if !supplier.CrateInfo.RemainingCrate1.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("supplier remaining crate1 = %s, want 8", supplier.CrateInfo.RemainingCrate1)
	}
	pool, _ = models.GetCrateTotal(ctx)
	if !pool.RemainingType1.Equal(decimal.NewFromInt(12)) || !pool.RemainingType2.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("pool remaining = %s/%s, want 12/6", pool.RemainingType1, pool.RemainingType2)
	}

	// Pool cannot cover 100: conditional decrement must refuse.
	tx = db.Begin()
	err = workflow.SendCratesToSupplier(tx, logger, supplier.ID, &models.NewCrateMovement{
		Date:          time.Now(),
		CrateType1Qty: decimal.NewFromInt(100),
	}, "test-send-over")
	var insufficient *utils.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("overdraw err = %v, want InsufficientStockError", err)
	}
	tx.Rollback()

	// Purchase intake: 10 + 2 carats requested against 8 + 4 held. The
	// type 1 shortfall of 2 accrues on the owed side.
	tx = db.Begin()
	purchase, err := workflow.CreatePurchase(tx, logger, &models.NewPurchase{
		PurchaseDate: time.Now(),
		Items: []*models.NewPurchaseItem{{
			SupplierId: supplier.ID,
			Lots: []*models.NewPurchaseLotLine{
				{
					ProductId:      product.ID,
					LotName:        "MANGO-A-0828",
					UnitCost:       decimal.NewFromInt(1200),
					CommissionRate: decimal.NewFromInt(7),
					CaratType1:     decimal.NewFromInt(10),
					CaratType2:     decimal.NewFromInt(2),
				},
				{
					ProductId:   product.ID,
					LotName:     "MANGO-B-0828",
					UnitCost:    decimal.NewFromInt(900),
					BoxQuantity: decimal.NewFromInt(10),
				},
			},
		}},
	}, "test-purchase")
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("purchase commit: %v", err)
	}
	if purchase.Status != models.PurchaseStatusOnTheWay {
		t.Fatalf("purchase status = %s, want on the way", purchase.Status)
	}
	supplier, _ = models.GetSupplierById(ctx, supplier.ID)
	if !supplier.CrateInfo.RemainingCrate1.IsZero() || !supplier.CrateInfo.NeedToGiveCrate1.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("supplier crate1 = %s held %s owed, want 0 held 2 owed",
			supplier.CrateInfo.RemainingCrate1, supplier.CrateInfo.NeedToGiveCrate1)
	}
	if !supplier.CrateInfo.RemainingCrate2.Equal(decimal.NewFromInt(2)) || !supplier.CrateInfo.NeedToGiveCrate2.IsZero() {
		t.Fatalf("supplier crate2 = %s held %s owed, want 2 held 0 owed",
			supplier.CrateInfo.RemainingCrate2, supplier.CrateInfo.NeedToGiveCrate2)
	}

	// Materialize both lot lines.
	tx = db.Begin()
	created, err := workflow.MaterializeLots(tx, logger, purchase.ID, "test-materialize")
	if err != nil {
		t.Fatalf("MaterializeLots: %v", err)
	}
	if created != 2 {
		t.Fatalf("created = %d lots, want 2", created)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("materialize commit: %v", err)
	}

	var caratLot, boxLot models.InventoryLot
	if err := db.Where("lot_name = ?", "MANGO-A-0828").First(&caratLot).Error; err != nil {
		t.Fatalf("fetch carat lot: %v", err)
	}
	if err := db.Where("lot_name = ?", "MANGO-B-0828").First(&boxLot).Error; err != nil {
		t.Fatalf("fetch box lot: %v", err)
	}
	if !caratLot.Carat.RemainingCaratType1.Equal(decimal.NewFromInt(10)) || caratLot.Status != models.LotStatusInStock {
		t.Fatalf("carat lot = %s remaining, status %s", caratLot.Carat.RemainingCaratType1, caratLot.Status)
	}
	if !caratLot.HasCommission || caratLot.PaymentStatus != models.LotPaymentStatusUnpaid {
		t.Fatalf("carat lot commission/payment flags wrong: %+v", caratLot)
	}
	if !boxLot.RemainingBoxes.Equal(decimal.NewFromInt(10)) || boxLot.HasCommission {
		t.Fatalf("box lot = %s boxes remaining, commission %v", boxLot.RemainingBoxes, boxLot.HasCommission)
	}

	// Materialization is one-shot.
	tx = db.Begin()
	_, err = workflow.MaterializeLots(tx, logger, purchase.ID, "test-materialize-again")
	var conflict *utils.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("second materialize err = %v, want ConflictError", err)
	}
	tx.Rollback()

	// A second purchase reusing a live lot name must be refused at
	// materialization.
	tx = db.Begin()
	purchase2, err := workflow.CreatePurchase(tx, logger, &models.NewPurchase{
		PurchaseDate: time.Now(),
		Items: []*models.NewPurchaseItem{{
			SupplierId: supplier.ID,
			Lots: []*models.NewPurchaseLotLine{
				{ProductId: product.ID, LotName: "MANGO-A-0828", BoxQuantity: decimal.NewFromInt(5)},
			},
		}},
	}, "test-purchase-dup")
	if err != nil {
		t.Fatalf("CreatePurchase dup: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("purchase dup commit: %v", err)
	}
	tx = db.Begin()
	_, err = workflow.MaterializeLots(tx, logger, purchase2.ID, "test-materialize-dup")
	if !errors.As(err, &conflict) {
		t.Fatalf("dup lot name err = %v, want ConflictError", err)
	}
	tx.Rollback()

	// Sale: 4 carats from the carat lot, all 10 boxes from the box lot,
	// sending 4 type 1 and 1 type 2 crates out with the goods.
	tx = db.Begin()
	sale, err := workflow.CreateSale(tx, logger, &models.NewSale{
		SellDate:   time.Now(),
		CustomerId: customer.ID,
		Items: []*models.NewSaleItem{{
			ProductId:                product.ID,
			CustomerCommissionRate:   decimal.NewFromInt(2),
			CustomerCommissionAmount: decimal.NewFromInt(500),
			Lots: []*models.NewSaleLot{
				{
					LotId:               caratLot.ID,
					Kg:                  decimal.NewFromInt(100),
					SellingPrice:        decimal.NewFromInt(50000),
					LotCommissionRate:   decimal.NewFromInt(7),
					LotCommissionAmount: decimal.NewFromInt(3500),
					CaratType1:          decimal.NewFromInt(4),
					CrateType1:          decimal.NewFromInt(4),
				},
				{
					LotId:        boxLot.ID,
					Kg:           decimal.NewFromInt(80),
					SellingPrice: decimal.NewFromInt(20000),
					BoxQuantity:  decimal.NewFromInt(10),
					CrateType2:   decimal.NewFromInt(1),
				},
			},
		}},
		Payment: models.PaymentDetails{
			PayableAmount:  decimal.NewFromInt(70000),
			ReceivedAmount: decimal.NewFromInt(60000),
			DueAmount:      decimal.NewFromInt(10000),
		},
	}, "test-sale")
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("sale commit: %v", err)
	}

	if err := db.First(&caratLot, caratLot.ID).Error; err != nil {
		t.Fatalf("refetch carat lot: %v", err)
	}
	if err := db.First(&boxLot, boxLot.ID).Error; err != nil {
		t.Fatalf("refetch box lot: %v", err)
	}
	if !caratLot.Carat.RemainingCaratType1.Equal(decimal.NewFromInt(6)) || caratLot.Status != models.LotStatusInStock {
		t.Fatalf("carat lot after sale = %s remaining, status %s", caratLot.Carat.RemainingCaratType1, caratLot.Status)
	}
	if !caratLot.Sales.TotalKgSold.Equal(decimal.NewFromInt(100)) || !caratLot.Sales.TotalSoldPrice.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("carat lot sales = %s kg %s price", caratLot.Sales.TotalKgSold, caratLot.Sales.TotalSoldPrice)
	}
	if !caratLot.Profits.LotProfit.Equal(decimal.NewFromInt(3500)) ||
		!caratLot.Profits.CustomerProfit.Equal(decimal.NewFromInt(500)) ||
		!caratLot.Profits.TotalProfit.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("carat lot profits = %s/%s/%s, want 3500/500/4000",
			caratLot.Profits.LotProfit, caratLot.Profits.CustomerProfit, caratLot.Profits.TotalProfit)
	}
	if !boxLot.RemainingBoxes.IsZero() || boxLot.Status != models.LotStatusStockOut {
		t.Fatalf("box lot after sale = %s boxes, status %s, want 0 / stock out", boxLot.RemainingBoxes, boxLot.Status)
	}

	customer, _ = models.GetCustomerById(ctx, customer.ID)
	if !customer.AccountInfo.Due.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("customer due = %s, want 10000", customer.AccountInfo.Due)
	}
	if !customer.CrateInfo.Type1.Equal(decimal.NewFromInt(4)) || !customer.CrateInfo.Type2.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("customer crates = %s/%s, want 4/1", customer.CrateInfo.Type1, customer.CrateInfo.Type2)
	}

	var income models.Income
	if err := db.Where("sale_id = ?", sale.ID).First(&income).Error; err != nil {
		t.Fatalf("fetch income: %v", err)
	}
	if !income.TotalSell.Equal(decimal.NewFromInt(70000)) ||
		!income.LotCommission.Equal(decimal.NewFromInt(3500)) ||
		!income.CustomerCommission.Equal(decimal.NewFromInt(500)) ||
		!income.TotalIncome.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("income = sell %s lot %s cust %s total %s",
			income.TotalSell, income.LotCommission, income.CustomerCommission, income.TotalIncome)
	}
	if !income.Received.Equal(decimal.NewFromInt(60000)) || !income.Due.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("income received/due = %s/%s, want 60000/10000", income.Received, income.Due)
	}
	if len(income.LotIds) != 2 {
		t.Fatalf("income lot ids = %v, want both lots", income.LotIds)
	}

	var crateHistory models.CustomerCrateHistory
	if err := db.Where("sale_id = ?", sale.ID).First(&crateHistory).Error; err != nil {
		t.Fatalf("fetch crate history: %v", err)
	}
	if crateHistory.Status != models.CrateHistoryStatusGiven || !crateHistory.CrateType1.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("crate history = %s status, %s type 1", crateHistory.Status, crateHistory.CrateType1)
	}
	if !crateHistory.CrateType1Price.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("crate history type 1 price = %s, want customer's 1500", crateHistory.CrateType1Price)
	}

	// Overselling the carat lot rolls the whole sale back.
	tx = db.Begin()
	_, err = workflow.CreateSale(tx, logger, &models.NewSale{
		SellDate:   time.Now(),
		CustomerId: customer.ID,
		Items: []*models.NewSaleItem{{
			ProductId: product.ID,
			Lots: []*models.NewSaleLot{
				{LotId: caratLot.ID, CaratType1: decimal.NewFromInt(7)},
			},
		}},
	}, "test-oversell")
	if !errors.As(err, &insufficient) {
		t.Fatalf("oversell err = %v, want InsufficientStockError", err)
	}
	tx.Rollback()
	var unchanged models.InventoryLot
	if err := db.First(&unchanged, caratLot.ID).Error; err != nil {
		t.Fatalf("refetch after rollback: %v", err)
	}
	if !unchanged.Carat.RemainingCaratType1.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("carat lot after rollback = %s, want 6 untouched", unchanged.Carat.RemainingCaratType1)
	}

	// Returning the crates unwinds the customer holdings and refills the
	// pool. The release fires once; re-submitting returned is a no-op.
	tx = db.Begin()
	err = workflow.UpdateCrateHistoryStatus(tx, logger, crateHistory.ID, models.CrateHistoryStatusReturned, "test-return")
	if err != nil {
		t.Fatalf("UpdateCrateHistoryStatus: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("return commit: %v", err)
	}
	customer, _ = models.GetCustomerById(ctx, customer.ID)
	if !customer.CrateInfo.Type1.IsZero() || !customer.CrateInfo.Type2.IsZero() {
		t.Fatalf("customer crates after return = %s/%s, want 0/0", customer.CrateInfo.Type1, customer.CrateInfo.Type2)
	}
	pool, _ = models.GetCrateTotal(ctx)
	if !pool.RemainingType1.Equal(decimal.NewFromInt(16)) || !pool.RemainingType2.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("pool after return = %s/%s, want 16/7", pool.RemainingType1, pool.RemainingType2)
	}

	tx = db.Begin()
	err = workflow.UpdateCrateHistoryStatus(tx, logger, crateHistory.ID, models.CrateHistoryStatusReturned, "test-return-again")
	if err != nil {
		t.Fatalf("UpdateCrateHistoryStatus repeat: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("repeat return commit: %v", err)
	}
	pool, _ = models.GetCrateTotal(ctx)
	if !pool.RemainingType1.Equal(decimal.NewFromInt(16)) {
		t.Fatalf("pool after repeated return = %s, release fired twice", pool.RemainingType1)
	}

	// Deposit 5000 on the supplier, idempotent on transaction id. The
	// money account mirrors the cash movement.
	account, err := models.CreateMoneyAccount(ctx, &models.NewMoneyAccount{Name: "KBZ Current", AccountNumber: "001-234"})
	if err != nil {
		t.Fatalf("CreateMoneyAccount: %v", err)
	}
	tx = db.Begin()
	_, err = workflow.ApplyBalance(tx, logger, &models.NewBalance{
		Date:          time.Now(),
		Amount:        decimal.NewFromInt(5000),
		TransactionId: "BAL-001",
		AccountId:     &account.ID,
		BalanceFor:    supplier.ID,
		Role:          models.BalanceRoleSupplier,
	}, "test-balance")
	if err != nil {
		t.Fatalf("ApplyBalance: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("balance commit: %v", err)
	}
	tx = db.Begin()
	_, err = workflow.ApplyBalance(tx, logger, &models.NewBalance{
		Date:          time.Now(),
		Amount:        decimal.NewFromInt(5000),
		TransactionId: "BAL-001",
		BalanceFor:    supplier.ID,
		Role:          models.BalanceRoleSupplier,
	}, "test-balance-dup")
	if !errors.As(err, &conflict) {
		t.Fatalf("duplicate balance err = %v, want ConflictError", err)
	}
	tx.Rollback()
	supplier, _ = models.GetSupplierById(ctx, supplier.ID)
	if !supplier.AccountInfo.Balance.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("supplier balance = %s, want 5000 after one deposit", supplier.AccountInfo.Balance)
	}
	var acc models.MoneyAccount
	if err := db.First(&acc, account.ID).Error; err != nil {
		t.Fatalf("reload money account: %v", err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("money account balance = %s, want 5000 after one deposit", acc.Balance)
	}

	// Supplier payment: payment figures overwrite the sale accumulation on
	// the lots, the balance draw floors at zero, the remainder goes to due.
	tx = db.Begin()
	_, err = workflow.CreateSupplierPayment(tx, logger, &models.NewPayment{
		Date:              time.Now(),
		SupplierId:        supplier.ID,
		InventoryLotIds:   []int{caratLot.ID, boxLot.ID},
		Amount:            decimal.NewFromInt(30000),
		TransactionId:     "PAY-001",
		AmountFromBalance: decimal.NewFromInt(8000),
		NeedToPayDue:      decimal.NewFromInt(2000),
		SelectedLotsInfo: []*models.SelectedLotInfo{
			{LotId: caratLot.ID, Profit: decimal.NewFromInt(3000), Discount: decimal.NewFromInt(100)},
			{LotId: boxLot.ID},
		},
	}, "test-payment")
	if err != nil {
		t.Fatalf("CreateSupplierPayment: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("payment commit: %v", err)
	}
	if err := db.First(&caratLot, caratLot.ID).Error; err != nil {
		t.Fatalf("refetch carat lot after payment: %v", err)
	}
	if caratLot.PaymentStatus != models.LotPaymentStatusPaid {
		t.Fatalf("carat lot payment status = %s, want paid", caratLot.PaymentStatus)
	}
	if !caratLot.Profits.LotProfit.Equal(decimal.NewFromInt(3000)) || !caratLot.Expenses.ExtraDiscount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("carat lot settlement figures = %s profit %s discount, want 3000/100",
			caratLot.Profits.LotProfit, caratLot.Expenses.ExtraDiscount)
	}
	supplier, _ = models.GetSupplierById(ctx, supplier.ID)
	if !supplier.AccountInfo.Balance.IsZero() || !supplier.AccountInfo.Due.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("supplier account = %s balance %s due, want 0/2000",
			supplier.AccountInfo.Balance, supplier.AccountInfo.Due)
	}

	tx = db.Begin()
	_, err = workflow.CreateSupplierPayment(tx, logger, &models.NewPayment{
		Date:             time.Now(),
		SupplierId:       supplier.ID,
		InventoryLotIds:  []int{caratLot.ID},
		TransactionId:    "PAY-001",
		SelectedLotsInfo: []*models.SelectedLotInfo{{LotId: caratLot.ID}},
	}, "test-payment-dup")
	if !errors.As(err, &conflict) {
		t.Fatalf("duplicate payment err = %v, want ConflictError", err)
	}
	tx.Rollback()

	// Every settlement appended an audit row and an outbox entry.
	var outboxCount int64
	if err := db.Model(&models.ActivityOutbox{}).Where("publish_status = ?", models.OutboxPublishStatusPending).Count(&outboxCount).Error; err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	if outboxCount == 0 {
		t.Fatalf("expected pending outbox entries from the settlements")
	}
	var historyCount int64
	if err := db.Model(&models.History{}).Count(&historyCount).Error; err != nil {
		t.Fatalf("count history: %v", err)
	}
	if historyCount == 0 {
		t.Fatalf("expected audit history rows from the settlements")
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("freshmart-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("freshmart-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=freshmart_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
