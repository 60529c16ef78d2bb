package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	maxTxAttempts  = 3
	initialBackoff = 50 * time.Millisecond
)

// isTransientErr reports whether a store error is worth retrying: Postgres
// serialization failures, deadlocks, and connection-class errors. Business
// rule failures are deterministic and must surface immediately.
func isTransientErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return true
		}
		return strings.HasPrefix(pgErr.Code, "08") // connection exceptions
	}
	return false
}

// runAtomic executes fn as a single database transaction, retrying transient
// failures a bounded number of times with exponential backoff. On rollback
// nothing written inside fn is observable.
func runAtomic(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !isTransientErr(err) {
			return err
		}
		if attempt < maxTxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return fmt.Errorf("%w: %v", ErrConflict, err)
}
