package postgres

import (
	"context"

	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"gorm.io/gorm"
)

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) repositories.TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
