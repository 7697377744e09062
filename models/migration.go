package models

import (
	"log"

	"github.com/mmfreshmart/pos_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Supplier{}, &Customer{}, &Product{}, &MoneyAccount{},
		&Purchase{}, &PurchaseItem{}, &PurchaseLotLine{},
		&InventoryLot{},
		&Sale{}, &SaleItem{}, &SaleLot{}, &Income{},
		&CustomerCrateHistory{}, &CrateTotal{}, &InventoryCrate{},
		&Payment{}, &Balance{}, &Expense{},
		&History{}, &ActivityOutbox{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
