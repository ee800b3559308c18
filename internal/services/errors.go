package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Error taxonomy shared by every service. Controllers map these onto HTTP statuses.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrTransactionAborted = errors.New("transaction aborted")
	ErrStoreUnavailable   = errors.New("store unavailable")

	ErrEmailInUse          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
	ErrInvalidSessionToken = errors.New("invalid session token")
	ErrSessionExpired      = errors.New("session expired")
)

var classified = []error{
	ErrValidation, ErrNotFound, ErrConflict, ErrTransactionAborted, ErrStoreUnavailable,
	ErrEmailInUse, ErrInvalidCredentials, ErrInvalidResetToken, ErrInvalidSessionToken, ErrSessionExpired,
}

// Serialization failure and deadlock, both safe to retry
var retryableSQLStates = map[string]bool{
	"40001": true,
	"40P01": true,
}

// classifyStoreError maps gorm and driver errors onto the taxonomy.
// Errors that already carry a taxonomy sentinel pass through untouched.
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range classified {
		if errors.Is(err, target) {
			return err
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// a referenced row vanished between the ownership check and the write
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrTransactionAborted, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && retryableSQLStates[pgErr.Code] {
		return fmt.Errorf("%w: %v", ErrTransactionAborted, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %v", ErrTransactionAborted, err)
	}

	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
