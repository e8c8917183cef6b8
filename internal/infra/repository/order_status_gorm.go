package repository

import (
	"context"

	"projectbazaar/internal/domain/model"

	"gorm.io/gorm"
)

type OrderStatusGormRepository struct {
	db *gorm.DB
}

func NewOrderStatusGormRepository(db *gorm.DB) *OrderStatusGormRepository {
	return &OrderStatusGormRepository{db: db}
}

// Append は履歴を1行追記する。更新・削除のAPIは作らない（追記専用）。
func (r *OrderStatusGormRepository) Append(ctx context.Context, entry model.OrderStatusEntry) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *OrderStatusGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusEntry, error) {
	var entries []model.OrderStatusEntry
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return []model.OrderStatusEntry{}, err
	}
	return entries, nil
}
