package repository

import (
	"context"

	"projectbazaar/internal/cart"
)

// カートの永続化。スコープ（"u:<id>" / "guest:<token>"）ごとに
// 明細コレクション全体をJSONで保存する。
// Loadは壊れたデータを読んでもエラーにせず空カートを返す実装であること。
type CartStore interface {
	Load(ctx context.Context, scope string) (cart.Cart, error)
	Save(ctx context.Context, scope string, c cart.Cart) error
	Delete(ctx context.Context, scope string) error
}
