package models

type PurchaseStatus string

const (
	PurchaseStatusOnTheWay PurchaseStatus = "on the way"
	PurchaseStatusReceived PurchaseStatus = "received"
	PurchaseStatusCanceled PurchaseStatus = "canceled"
)

func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseStatusOnTheWay, PurchaseStatusReceived, PurchaseStatusCanceled:
		return true
	}
	return false
}

type LotStatus string

const (
	LotStatusInStock  LotStatus = "in stock"
	LotStatusStockOut LotStatus = "stock out"
)

func (s LotStatus) Valid() bool {
	return s == LotStatusInStock || s == LotStatusStockOut
}

type LotPaymentStatus string

const (
	LotPaymentStatusPaid   LotPaymentStatus = "paid"
	LotPaymentStatusUnpaid LotPaymentStatus = "unpaid"
)

type CrateHistoryStatus string

const (
	CrateHistoryStatusGiven    CrateHistoryStatus = "given"
	CrateHistoryStatusReturned CrateHistoryStatus = "returned"
)

func (s CrateHistoryStatus) Valid() bool {
	return s == CrateHistoryStatusGiven || s == CrateHistoryStatusReturned
}

// CrateMovementStatus is the direction of a crate transition log row:
// IN = crates entering the warehouse pool, OUT = crates leaving it.
type CrateMovementStatus string

const (
	CrateMovementIn  CrateMovementStatus = "IN"
	CrateMovementOut CrateMovementStatus = "OUT"
)

type BalanceRole string

const (
	BalanceRoleCustomer BalanceRole = "customer"
	BalanceRoleSupplier BalanceRole = "supplier"
)

func (r BalanceRole) Valid() bool {
	return r == BalanceRoleCustomer || r == BalanceRoleSupplier
}

type ActivityAction string

const (
	ActivityActionCreate ActivityAction = "C"
	ActivityActionUpdate ActivityAction = "U"
	ActivityActionDelete ActivityAction = "D"
)

const (
	ReferenceTypePurchase     = "PURCHASE"
	ReferenceTypeInventoryLot = "LOT"
	ReferenceTypeSale         = "SALE"
	ReferenceTypePayment      = "PAYMENT"
	ReferenceTypeCrate        = "CRATE"
	ReferenceTypeCrateHistory = "CRATE_HISTORY"
	ReferenceTypeBalance      = "BALANCE"
	ReferenceTypeExpense      = "EXPENSE"
)
