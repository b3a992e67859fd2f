package db

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Handle owns the process-wide connection pool. The pool is created on the first
// Pool call and shared by every caller after that; a failed first creation is
// remembered and returned to all later callers.
type Handle struct {
	params NewDBPoolParams

	once sync.Once
	pool *pgxpool.Pool
	err  error
}

func NewHandle(params NewDBPoolParams) *Handle {
	return &Handle{
		params: params,
	}
}

func (h *Handle) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	h.once.Do(func() {
		log.Debugf("creating db pool for [%s:%s/%s]", h.params.DBHost, h.params.DBPort, h.params.DBName)
		h.pool, h.err = NewDBPool(ctx, h.params)
	})
	return h.pool, h.err
}

// Close closes the pool if it was ever created. Blocks until all acquired
// connections are released.
func (h *Handle) Close() {
	h.once.Do(func() {
		// never opened, nothing to close, and no later Pool call may open it
		h.err = ErrHandleClosed
	})
	if h.pool != nil {
		h.pool.Close()
	}
}
