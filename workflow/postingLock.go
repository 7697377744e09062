package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

const cratePoolLockName = "posting:crate-pool"

// AcquireCratePostingLock serializes crate-pool posting across instances using
// MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that will do the posting transaction.
func AcquireCratePostingLock(tx *gorm.DB) error {
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", cratePoolLockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire crate posting lock")
	}
	return nil
}

func ReleaseCratePostingLock(tx *gorm.DB) {
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", cratePoolLockName).Scan(&_ok).Error
}
