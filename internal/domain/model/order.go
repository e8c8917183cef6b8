package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 支払いは手動（UPI振込→レシート画像アップロード）のみ。
const PaymentMethodManualReceipt = "manual-receipt"

// 注文。(BuyerID, ProjectID) の複合ユニークで同一プロジェクトの二重購入を防ぐ。
// AmountとProjectTitleは作成時点のカタログのスナップショット。
type Order struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID int64 `gorm:"not null;index;uniqueIndex:idx_orders_buyer_project" json:"buyer_id"`

	//カタログ（projects）のID
	ProjectID int64 `gorm:"not null;uniqueIndex:idx_orders_buyer_project" json:"project_id"`

	//作成時点の価格スナップショット（以後カタログ価格が変わっても再計算しない）
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	//作成時点のタイトルスナップショット
	ProjectTitle string `gorm:"type:varchar(255);not null" json:"project_title"`

	PaymentMethod string      `gorm:"type:varchar(30);not null" json:"payment_method"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//配送先（スナップショット）
	Address DeliveryAddress `gorm:"embedded;embeddedPrefix:addr_" json:"delivery_address"`

	//支払い証明。注文と1:1で、他の注文と共有しない。
	Receipt ReceiptReference `gorm:"embedded;embeddedPrefix:receipt_" json:"receipt"`

	//管理者メモ（ステータスとは独立に上書き更新される）
	AdminNotes string `gorm:"type:text" json:"admin_notes"`

	//楽観ロック用。ステータス遷移のたびに+1。
	Version int64 `gorm:"not null;default:1" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ステータス履歴（追記専用）。現在のStatusは常に最後の行と一致する。
type OrderStatusEntry struct {
	ID      int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64       `gorm:"not null;index" json:"order_id"`
	Status  OrderStatus `gorm:"type:varchar(20);not null" json:"status"`

	//操作したユーザーのID
	ActorUserID int64 `gorm:"not null" json:"actor_user_id"`

	//USER / ADMIN
	ActorRole string `gorm:"type:varchar(10);not null" json:"actor_role"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
