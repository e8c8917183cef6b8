package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"projectbazaar/internal/cart"
	"projectbazaar/internal/domain/model"
	repo "projectbazaar/internal/repository"
	"projectbazaar/internal/validator"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 注文の作成と遷移が終わった後に非同期で呼ばれる。
// 実装（notification.Dispatcher）の失敗は呼び出し側に返ってこない。
type OrderNotifier interface {
	OrderCreated(o model.Order)
	OrderStatusChanged(o model.Order, previous model.OrderStatus)
}

// 注文作成全体（カタログ参照＋書き込み）の上限
const checkoutTimeout = 15 * time.Second

type OrderUsecase struct {
	tx       repo.TransactionManager
	notifier OrderNotifier
}

func NewOrderUsecase(tx repo.TransactionManager, notifier OrderNotifier) *OrderUsecase {
	return &OrderUsecase{tx: tx, notifier: notifier}
}

type PlaceOrderInput struct {
	ProjectID int64
	Address   model.DeliveryAddress
	Receipt   model.ReceiptReference
}

type StatusEntryOutput struct {
	Status    string    `json:"status"`
	ActorRole string    `json:"actor_role"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderOutput struct {
	ID            int64                  `json:"id"`
	BuyerID       int64                  `json:"buyer_id"`
	ProjectID     int64                  `json:"project_id"`
	ProjectTitle  string                 `json:"project_title"`
	Amount        string                 `json:"amount"`
	PaymentMethod string                 `json:"payment_method"`
	Status        string                 `json:"status"`
	Address       model.DeliveryAddress  `json:"delivery_address"`
	Receipt       model.ReceiptReference `json:"receipt"`
	AdminNotes    string                 `json:"admin_notes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	History       []StatusEntryOutput    `json:"status_history,omitempty"`
}

// PlaceOrder はカート1行ぶんの注文を作る（チェックアウトは行ごとにこれを呼ぶ）。
// 検証は fail-fast：カタログ→二重購入→住所→レシートの順で、最初に落ちた理由を返す。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, buyerID int64, in PlaceOrderInput) (OrderOutput, error) {
	if buyerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProjectID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid project_id")
	}

	ctx, cancel := context.WithTimeout(ctx, checkoutTimeout)
	defer cancel()

	var out OrderOutput
	var created model.Order

	//注文はトランザクションで丸ごと1回だけ書く（半端な状態を残さない）
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カタログ確認（非公開・存在しない物は買えない）
		p, err := r.Projects().FindByID(ctx, in.ProjectID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "project not available")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsPublished {
			return NewHTTPError(http.StatusBadRequest, "project not available")
		}

		//同じ買い手×プロジェクトの二重購入は拒否（マージしない）
		exists, err := r.Orders().ExistsByBuyerAndProject(ctx, buyerID, in.ProjectID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if exists {
			return NewHTTPError(http.StatusConflict, "you already own this project")
		}

		//住所の構造チェック
		if err := validator.ValidateDeliveryAddress(in.Address); err != nil {
			return NewHTTPError(http.StatusBadRequest, err.Error())
		}

		//レシート必須（アップロード済みの参照が無ければ作らない）
		if in.Receipt.IsEmpty() {
			return NewHTTPError(http.StatusBadRequest, "missing receipt")
		}

		//価格はこの時点のカタログからスナップショット（割引込み）
		now := time.Now()
		order := model.Order{
			BuyerID:       buyerID,
			ProjectID:     in.ProjectID,
			Amount:        cart.DiscountedUnitPrice(p.Price, p.DiscountPercent),
			ProjectTitle:  p.Title,
			PaymentMethod: model.PaymentMethodManualReceipt,
			Status:        model.OrderStatusPending,
			Address:       in.Address,
			Receipt:       in.Receipt,
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err == repo.ErrConflict {
			//同時に同じ組み合わせが来たレース。ユニーク制約が締める。
			return NewHTTPError(http.StatusConflict, "you already own this project")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//最初の履歴（pending / 買い手）
		first := model.OrderStatusEntry{
			OrderID:     orderID,
			Status:      model.OrderStatusPending,
			ActorUserID: buyerID,
			ActorRole:   "USER",
			CreatedAt:   now,
		}
		if err := r.OrderStatuses().Append(ctx, first); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		created = order
		out = toOrderOutput(order, []model.OrderStatusEntry{first})
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//作成メールはfire-and-forget（失敗しても注文は有効のまま）
	u.notifier.OrderCreated(created)

	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, buyerID int64, page int, limit int) ([]OrderOutput, error) {
	if buyerID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByBuyerID(ctx, buyerID, page, limit)
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

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, buyerID int64, orderID int64) (OrderOutput, error) {
	if buyerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
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
		if o.BuyerID != buyerID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
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

// GetOrderForInvoice は請求書レンダリング用に注文スナップショットを返す。
// 所有者本人だけが取れる。
func (u *OrderUsecase) GetOrderForInvoice(ctx context.Context, buyerID int64, orderID int64) (model.Order, error) {
	if buyerID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var order model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.BuyerID != buyerID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		order = o
		return nil
	})

	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// CancelMyOrder は買い手自身による取り消し。pendingからだけ許す。
func (u *OrderUsecase) CancelMyOrder(ctx context.Context, buyerID int64, orderID int64) (OrderOutput, error) {
	if buyerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
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
		if o.BuyerID != buyerID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		//すでに取り消し済みならno-op成功（リトライ耐性）
		if o.Status == model.OrderStatusCancelled {
			out = toOrderOutput(o, nil)
			return nil
		}
		if o.Status != model.OrderStatusPending {
			return NewHTTPError(http.StatusConflict,
				fmt.Sprintf("cannot cancel order in status %s", o.Status))
		}

		err = r.Orders().UpdateStatusVersioned(ctx, orderID, model.OrderStatusCancelled, o.Version)
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
			Status:      model.OrderStatusCancelled,
			ActorUserID: buyerID,
			ActorRole:   "USER",
			CreatedAt:   now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		previous = o.Status
		o.Status = model.OrderStatusCancelled
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

func toOrderOutput(o model.Order, history []model.OrderStatusEntry) OrderOutput {
	var entries []StatusEntryOutput
	for _, e := range history {
		entries = append(entries, StatusEntryOutput{
			Status:    string(e.Status),
			ActorRole: e.ActorRole,
			Timestamp: e.CreatedAt,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		BuyerID:       o.BuyerID,
		ProjectID:     o.ProjectID,
		ProjectTitle:  o.ProjectTitle,
		Amount:        o.Amount.StringFixed(2),
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		Address:       o.Address,
		Receipt:       o.Receipt,
		AdminNotes:    o.AdminNotes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		History:       entries,
	}
}
