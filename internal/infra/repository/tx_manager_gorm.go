package repository

import (
	"context"

	repo "projectbazaar/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders        repo.OrderRepository
	orderStatuses repo.OrderStatusRepository
	projects      repo.ProjectRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository              { return r.orders }
func (r *txReposGorm) OrderStatuses() repo.OrderStatusRepository { return r.orderStatuses }
func (r *txReposGorm) Projects() repo.ProjectRepository          { return r.projects }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:        NewOrderGormRepository(tx),
			orderStatuses: NewOrderStatusGormRepository(tx),
			projects:      NewProjectGormRepository(tx),
		}
		return fn(r)
	})
}
