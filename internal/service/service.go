// Package service contains the business logic for the site backend.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"

	"github.com/struchkova/konakovo-backend/internal/repo"
)

// TxRunner runs fn with repositories bound to one database transaction.
// *repo.Store satisfies it.
type TxRunner interface {
	InTx(ctx context.Context, fn func(repo.Repos) error) error
}

var _ TxRunner = (*repo.Store)(nil)
