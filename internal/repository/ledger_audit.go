package repository

import (
	"context"
	"fmt"

	"github.com/buildlore/heritage-backend/internal/domain"
	"gorm.io/gorm"
)

// LedgerAuditor compares denormalized like counters with the ledger rows behind them
type LedgerAuditor struct {
	db *gorm.DB
}

// NewLedgerAuditor creates a new LedgerAuditor
func NewLedgerAuditor(db *gorm.DB) *LedgerAuditor {
	return &LedgerAuditor{db: db}
}

// FindDrift lists subjects whose like_count differs from their ledger row count
func (a *LedgerAuditor) FindDrift(ctx context.Context, target domain.LikeTarget) ([]domain.CounterDrift, error) {
	t, err := tableFor(target)
	if err != nil {
		return nil, err
	}
	var drift []domain.CounterDrift
	err = a.db.WithContext(ctx).
		Table(t.subjectTable+" AS s").
		Select("s.id AS subject_id, s.like_count AS stored, COUNT(l.id) AS actual").
		Joins(fmt.Sprintf("LEFT JOIN %s AS l ON l.%s = s.id", t.likeTable, t.subjectColumn)).
		Group("s.id, s.like_count").
		Having("s.like_count <> COUNT(l.id)").
		Order("s.id").
		Scan(&drift).Error
	return drift, err
}

// Repair recomputes like_count from the ledger for every drifted subject.
// Returns the number of subjects fixed.
func (a *LedgerAuditor) Repair(ctx context.Context, target domain.LikeTarget) (int64, error) {
	drift, err := a.FindDrift(ctx, target)
	if err != nil || len(drift) == 0 {
		return 0, err
	}
	t, _ := tableFor(target)

	ids := make([]uint64, 0, len(drift))
	for _, d := range drift {
		ids = append(ids, d.SubjectID)
	}

	var fixed int64
	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recount := fmt.Sprintf("(SELECT COUNT(*) FROM %s WHERE %s.%s = %s.id)",
			t.likeTable, t.likeTable, t.subjectColumn, t.subjectTable)
		result := tx.Table(t.subjectTable).Where("id IN ?", ids).
			UpdateColumn("like_count", gorm.Expr(recount))
		fixed = result.RowsAffected
		return result.Error
	})
	return fixed, err
}
