// Package memory provides mutex-guarded in-memory repository
// implementations. They back the service tests; the PostgreSQL package is
// the production counterpart.
package memory

import "context"

// TxManager satisfies database.TxManager without a database. The stores
// are individually synchronized, so fn runs directly.
type TxManager struct{}

func (TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
