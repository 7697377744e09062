// seed-admin creates or updates the backoffice admin user.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	ADMIN_EMAIL=admin@freshmart.local ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_EMAIL and ADMIN_PASSWORD are required")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	existing, err := models.GetUserByEmail(ctx, email)
	if err != nil && !utils.IsNotFoundError(err) {
		fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
		os.Exit(1)
	}

	if existing != nil {
		hashed, err := utils.HashPassword(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
			os.Exit(1)
		}
		err = db.WithContext(ctx).Model(&models.User{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"password":  hashed,
			"role":      "admin",
			"is_active": true,
		}).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("admin user %s updated (id=%d)\n", email, existing.ID)
		return
	}

	user, err := models.CreateUser(ctx, "Admin", email, password, "admin")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("admin user %s created (id=%d)\n", email, user.ID)
}
