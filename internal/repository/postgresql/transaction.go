package postgresql

import (
	"context"

	"github.com/presensia/attendance-backend-go/internal/pkg/database"
)

// GetQuerier returns either the transaction carried by the context or the
// pool. Used in repositories so the same method works inside and outside
// a unit of work.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}
