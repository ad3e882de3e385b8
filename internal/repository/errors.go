package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hackdesk/helpdesk-service/internal/domain"
)

// storeErr wraps driver failures so callers can distinguish infrastructure
// trouble from business results without depending on pgx.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}

// translateGet maps row absence to the domain not-found signal.
func translateGet(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return storeErr(op, err)
}
