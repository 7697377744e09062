// migrate runs schema migrations as a standalone job. The API server skips
// AutoMigrate when SKIP_MIGRATIONS=true; run this off-hours instead so DDL
// never blocks live traffic.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/migrate
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
)

func main() {
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	models.MigrateTable()
	log.Println("migrations applied")
}
