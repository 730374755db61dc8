package dbx

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/filecove/filecove/internal/common"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. Repositories use it to translate duplicate emails, sibling
// folder names and share-token collisions into domain errors.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// WrapUpstream marks a raw database error as a transient metadata-store
// failure (common.ErrUpstream). Repositories translate the semantic cases
// (no rows, unique violations) first; whatever remains is retryable from the
// caller's point of view.
func WrapUpstream(err error) error {
	return fmt.Errorf("%w: db error: %v", common.ErrUpstream, err)
}
