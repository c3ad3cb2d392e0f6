package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/buildlore/heritage-backend/internal/middleware"
)

// observeDBPool publishes connection pool stats every 15s until ctx is done
func observeDBPool(ctx context.Context, dbFn func() (*sql.DB, error)) {
	sqlDB, err := dbFn()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		middleware.ObserveDBPool(sqlDB.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
