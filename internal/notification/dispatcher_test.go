package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"projectbazaar/internal/domain/model"
	"projectbazaar/internal/notification"

	"github.com/shopspring/decimal"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

// 送信結果をチャネルに流すだけの偽Mailer（非同期処理の同期点）
type chanMailer struct {
	sent chan sentMail
	err  error
}

func (m *chanMailer) Send(ctx context.Context, to string, subject string, body string) error {
	m.sent <- sentMail{to: to, subject: subject, body: body}
	return m.err
}

func waitMail(t *testing.T, ch chan sentMail) sentMail {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no mail dispatched")
		return sentMail{}
	}
}

func sampleOrder() model.Order {
	amount, _ := decimal.NewFromString("900.00")
	return model.Order{
		ID:           42,
		BuyerID:      1,
		ProjectID:    5,
		Amount:       amount,
		ProjectTitle: "Compiler Design Project",
		Status:       model.OrderStatusPending,
		Address:      model.DeliveryAddress{Name: "Asha Rao", Email: "asha@example.com"},
		Receipt:      model.ReceiptReference{StorageURL: "http://localhost:8080/receipts/abc.png"},
	}
}

func TestDispatcher_OrderCreated_MailsBuyerAndAdmin(t *testing.T) {
	mailer := &chanMailer{sent: make(chan sentMail, 2)}
	log, _ := logrustest.NewNullLogger()

	d := notification.NewDispatcher(mailer, "admin@projectbazaar.test", log)
	d.OrderCreated(sampleOrder())

	first := waitMail(t, mailer.sent)
	second := waitMail(t, mailer.sent)

	//買い手→管理者の順で2通
	assert.Equal(t, "asha@example.com", first.to)
	assert.Contains(t, first.subject, "Order #42")
	assert.Contains(t, first.body, "Compiler Design Project")
	assert.Contains(t, first.body, "900.00")

	assert.Equal(t, "admin@projectbazaar.test", second.to)
	assert.Contains(t, second.body, "http://localhost:8080/receipts/abc.png")
}

func TestDispatcher_OrderStatusChanged_MailsBuyerAndAdmin(t *testing.T) {
	mailer := &chanMailer{sent: make(chan sentMail, 2)}
	log, _ := logrustest.NewNullLogger()

	o := sampleOrder()
	o.Status = model.OrderStatusPaid

	d := notification.NewDispatcher(mailer, "admin@projectbazaar.test", log)
	d.OrderStatusChanged(o, model.OrderStatusPending)

	first := waitMail(t, mailer.sent)
	second := waitMail(t, mailer.sent)

	assert.Equal(t, "asha@example.com", first.to)
	assert.Contains(t, first.subject, "paid")
	assert.Contains(t, first.body, "from pending to paid")

	assert.Equal(t, "admin@projectbazaar.test", second.to)
	assert.Contains(t, second.body, "from pending to paid")
}

// 送信失敗は警告ログに残るだけで、呼び出し側には何も起きない
func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	mailer := &chanMailer{sent: make(chan sentMail, 2), err: errors.New("smtp refused")}
	log, hook := logrustest.NewNullLogger()

	d := notification.NewDispatcher(mailer, "admin@projectbazaar.test", log)

	assert.NotPanics(t, func() {
		d.OrderCreated(sampleOrder())
	})

	waitMail(t, mailer.sent)
	waitMail(t, mailer.sent)

	//ログが非同期に書かれるのを少し待つ
	var warned bool
	for i := 0; i < 20 && !warned; i++ {
		time.Sleep(50 * time.Millisecond)
		for _, e := range hook.AllEntries() {
			if e.Message == "notification mail failed" {
				warned = true
				assert.Equal(t, int64(42), e.Data["order_id"])
			}
		}
	}
	require.True(t, warned, "expected a warn entry for the failed mail")
}

// Mailerがpanicしてもdispatcherは落とさない
func TestDispatcher_PanicIsRecovered(t *testing.T) {
	log, hook := logrustest.NewNullLogger()

	d := notification.NewDispatcher(panicMailer{}, "admin@projectbazaar.test", log)

	assert.NotPanics(t, func() {
		d.OrderCreated(sampleOrder())
	})

	var recovered bool
	for i := 0; i < 20 && !recovered; i++ {
		time.Sleep(50 * time.Millisecond)
		for _, e := range hook.AllEntries() {
			if e.Message == "notification dispatch panicked" {
				recovered = true
			}
		}
	}
	require.True(t, recovered, "expected a recovered-panic entry")
}

type panicMailer struct{}

func (panicMailer) Send(ctx context.Context, to string, subject string, body string) error {
	panic("mailer exploded")
}
