// Package notification は注文イベントのメール通知です。
// すべてfire-and-forgetで、送信失敗が注文処理に波及することは無い。
package notification

import (
	"context"
	"fmt"
	"time"

	"projectbazaar/internal/domain/model"

	"github.com/sirupsen/logrus"
)

// メール送信の約束。実装はinfra/mail。
type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

type Dispatcher struct {
	mailer     Mailer
	adminEmail string
	log        *logrus.Logger

	//1通あたりの送信タイムアウト
	sendTimeout time.Duration
}

func NewDispatcher(mailer Mailer, adminEmail string, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:      mailer,
		adminEmail:  adminEmail,
		log:         log,
		sendTimeout: 10 * time.Second,
	}
}

// OrderCreated は注文作成メールを買い手と管理者へ非同期で送る。
func (d *Dispatcher) OrderCreated(o model.Order) {
	go d.dispatch("order_created", o, func(ctx context.Context) {
		subject := fmt.Sprintf("Order #%d received", o.ID)
		body := fmt.Sprintf(
			"Your order for %q has been received.\nAmount: %s\nStatus: %s\n\nWe will verify your payment receipt shortly.",
			o.ProjectTitle, o.Amount.StringFixed(2), o.Status,
		)
		d.send(ctx, "order_created", o.ID, o.Address.Email, subject, body)

		adminSubject := fmt.Sprintf("New order #%d", o.ID)
		adminBody := fmt.Sprintf(
			"Order #%d created by buyer %d for %q (%s). Receipt: %s",
			o.ID, o.BuyerID, o.ProjectTitle, o.Amount.StringFixed(2), o.Receipt.StorageURL,
		)
		d.send(ctx, "order_created", o.ID, d.adminEmail, adminSubject, adminBody)
	})
}

// OrderStatusChanged はステータス遷移メールを買い手と管理者へ非同期で送る。
func (d *Dispatcher) OrderStatusChanged(o model.Order, previous model.OrderStatus) {
	go d.dispatch("order_status_changed", o, func(ctx context.Context) {
		subject := fmt.Sprintf("Order #%d is now %s", o.ID, o.Status)
		body := fmt.Sprintf(
			"Your order for %q moved from %s to %s.",
			o.ProjectTitle, previous, o.Status,
		)
		d.send(ctx, "order_status_changed", o.ID, o.Address.Email, subject, body)

		adminSubject := fmt.Sprintf("Order #%d: %s -> %s", o.ID, previous, o.Status)
		adminBody := fmt.Sprintf(
			"Order #%d (buyer %d, %q) moved from %s to %s.",
			o.ID, o.BuyerID, o.ProjectTitle, previous, o.Status,
		)
		d.send(ctx, "order_status_changed", o.ID, d.adminEmail, adminSubject, adminBody)
	})
}

// dispatch は通知1件分のgoroutine本体。panicも含めて必ず握りつぶす。
func (d *Dispatcher) dispatch(event string, o model.Order, fn func(ctx context.Context)) {
	defer func() {
		if rec := recover(); rec != nil {
			d.log.WithFields(logrus.Fields{
				"event":    event,
				"order_id": o.ID,
				"panic":    rec,
			}).Error("notification dispatch panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	fn(ctx)
}

// send は1通送って、失敗したらログに残すだけ。
func (d *Dispatcher) send(ctx context.Context, event string, orderID int64, to string, subject string, body string) {
	if to == "" {
		return
	}
	if err := d.mailer.Send(ctx, to, subject, body); err != nil {
		d.log.WithFields(logrus.Fields{
			"event":    event,
			"order_id": orderID,
			"to":       to,
		}).WithError(err).Warn("notification mail failed")
		return
	}
	d.log.WithFields(logrus.Fields{
		"event":    event,
		"order_id": orderID,
		"to":       to,
	}).Info("notification mail sent")
}
