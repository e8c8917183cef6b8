package model

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"

	//旧データ用の終端。新規の遷移先にはならない。
	OrderStatusCompleted OrderStatus = "completed"
)

// サーバー側で強制する遷移表。ここに無い組み合わせは全部拒否。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
	OrderStatusCompleted:  {},
}

// ParseOrderStatus は入力文字列を既知のステータスに変換する。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	if _, ok := orderTransitions[st]; !ok {
		return "", false
	}
	return st, true
}

// CanTransitionTo は from→to が遷移表にあるかを返す。
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal はこれ以上遷移できないステータスかを返す。
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}
