package service

import "context"

// TxManager runs fn as one unit of work; storages pick the transaction up from ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTxManager is used by storages that keep their own consistency.
type NopTxManager struct{}

func (NopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
