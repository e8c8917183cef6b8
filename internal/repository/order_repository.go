package repository

import (
	"context"
	"errors"

	"projectbazaar/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// ユニーク制約違反（同時に同じ買い手×プロジェクトが来た等）
var ErrConflict = errors.New("conflict")

type AdminOrderListFilter struct {
	Page    int
	Limit   int
	Status  string
	BuyerID *int64
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByBuyerID(ctx context.Context, buyerID int64, page int, limit int) ([]model.Order, int64, error)

	//(BuyerID, ProjectID)のユニーク違反はErrConflictで返す
	Create(ctx context.Context, order model.Order) (int64, error)

	ExistsByBuyerAndProject(ctx context.Context, buyerID int64, projectID int64) (bool, error)

	//fromVersionが一致した行だけ更新する（楽観ロック）。
	//一致しなければErrConflict、行が無ければErrNotFound。
	UpdateStatusVersioned(ctx context.Context, orderID int64, status model.OrderStatus, fromVersion int64) error

	//メモだけの上書き。ステータスと履歴には触らない。
	UpdateAdminNotes(ctx context.Context, orderID int64, notes string) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}

// 追記専用のステータス履歴
type OrderStatusRepository interface {
	Append(ctx context.Context, entry model.OrderStatusEntry) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusEntry, error)
}
