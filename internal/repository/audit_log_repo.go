package repository

import (
	"context"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/model"

	"gorm.io/gorm"
)

// AuditLogRepository is append-only: there is no update or delete.
type AuditLogRepository interface {
	Create(ctx context.Context, a *model.AuditLog) error
	ListRecientes(ctx context.Context, limit int) ([]model.AuditLog, error)
	ListByAccionEntre(ctx context.Context, accion model.AccionAuditoria, desde, hasta time.Time) ([]model.AuditLog, error)
}

type auditLogRepo struct{ db *gorm.DB }

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository { return &auditLogRepo{db: db} }

func (r *auditLogRepo) Create(ctx context.Context, a *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *auditLogRepo) ListRecientes(ctx context.Context, limit int) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// ListByAccionEntre returns entries of one action type in [desde, hasta), oldest first.
func (r *auditLogRepo) ListByAccionEntre(ctx context.Context, accion model.AccionAuditoria, desde, hasta time.Time) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("action_type = ? AND created_at >= ? AND created_at < ?", accion, desde, hasta).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
