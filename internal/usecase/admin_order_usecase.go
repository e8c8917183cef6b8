package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"projectbazaar/internal/domain/model"
	repo "projectbazaar/internal/repository"
)

// 管理者メモの上限
const maxAdminNotesLen = 5000

type AdminOrderUsecase struct {
	tx       repo.TransactionManager
	notifier OrderNotifier
}

func NewAdminOrderUsecase(tx repo.TransactionManager, notifier OrderNotifier) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, notifier: notifier}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

type AdminSetNotesInput struct {
	Text string
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o, nil))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// GetDetail は管理者用の注文詳細（履歴付き、所有者制限なし）。
func (u *AdminOrderUsecase) GetDetail(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		history, err := r.OrderStatuses().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, history)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// UpdateStatus はステータス遷移。遷移表に無い組み合わせは拒否し、
// 同じステータスへの再要求はno-op成功（リトライ耐性）。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actorAdminID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	target, ok := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	if !ok {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderOutput
	var updated model.Order
	var previous model.OrderStatus
	var changed bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == target {
			out = toOrderOutput(o, nil)
			return nil
		}

		//遷移表で判定（現在値と要求値の両方を返す）。不正な遷移先は入力エラー扱い。
		if !o.Status.CanTransitionTo(target) {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("illegal transition from %s to %s", o.Status, target))
		}

		//楽観ロック。負けた側は再読込してリトライしてもらう。
		err = r.Orders().UpdateStatusVersioned(ctx, orderID, target, o.Version)
		if err == repo.ErrConflict {
			return NewHTTPError(http.StatusConflict, "order was modified, retry")
		}
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := time.Now()
		if err := r.OrderStatuses().Append(ctx, model.OrderStatusEntry{
			OrderID:     orderID,
			Status:      target,
			ActorUserID: actorAdminID,
			ActorRole:   "ADMIN",
			CreatedAt:   now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		previous = o.Status
		o.Status = target
		o.Version++
		o.UpdatedAt = now
		updated = o
		changed = true
		out = toOrderOutput(o, nil)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	if changed {
		u.notifier.OrderStatusChanged(updated, previous)
	}
	return out, nil
}

// SetNotes は管理者メモの全文上書き。ステータスと履歴には触らない。
func (u *AdminOrderUsecase) SetNotes(ctx context.Context, actorAdminID int64, orderID int64, in AdminSetNotesInput) error {
	if actorAdminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if len(in.Text) > maxAdminNotesLen {
		return NewHTTPError(http.StatusBadRequest, "notes too long")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Orders().UpdateAdminNotes(ctx, orderID, in.Text)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
