package usecase

import (
	"context"
	"net/http"
	"time"

	"projectbazaar/internal/cart"
	repo "projectbazaar/internal/repository"
)

// カタログ参照の上限
const catalogLookupTimeout = 5 * time.Second

// CartUsecase は /cart の業務ロジックです。
// 集計そのものは internal/cart のreducerが行い、ここは
// スコープ単位のload→reduce→saveと、カタログ照会だけを受け持つ。
type CartUsecase struct {
	store    repo.CartStore
	projects repo.ProjectRepository
}

func NewCartUsecase(store repo.CartStore, projects repo.ProjectRepository) *CartUsecase {
	return &CartUsecase{store: store, projects: projects}
}

type CartLineResponse struct {
	ItemID          int64  `json:"item_id"`
	Title           string `json:"title"`
	UnitPrice       string `json:"unit_price"`
	OriginalPrice   string `json:"original_price"`
	DiscountPercent int64  `json:"discount_percent"`
	Quantity        int64  `json:"quantity"`
	LineTotal       string `json:"line_total"`
}

type CartResponse struct {
	Lines     []CartLineResponse `json:"lines"`
	CartTotal string             `json:"cart_total"`
	ItemCount int64              `json:"item_count"`
}

type AddCartInput struct {
	ProjectID int64
}

type SetQuantityInput struct {
	Quantity int64
}

// Get はスコープのカートを読む。読めない・壊れている場合は空カート扱い。
func (u *CartUsecase) Get(ctx context.Context, scope string) (CartResponse, error) {
	if scope == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c := u.loadOrEmpty(ctx, scope)
	return toCartResponse(c), nil
}

// Add はカタログを確認してから追加（同一商品は数量+1）。
// 単価はこの時点の価格と割引率から確定し、以後は再計算しない。
func (u *CartUsecase) Add(ctx context.Context, scope string, in AddCartInput) (CartResponse, error) {
	if scope == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProjectID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid project_id")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, catalogLookupTimeout)
	defer cancel()

	p, err := u.projects.FindByID(lookupCtx, in.ProjectID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "project not available")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsPublished {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "project not available")
	}

	c := u.loadOrEmpty(ctx, scope)
	c = c.Add(p.ID, p.Title, p.Price, p.DiscountPercent)

	if err := u.store.Save(ctx, scope, c); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart storage error")
	}
	return toCartResponse(c), nil
}

// SetQuantity は数量変更。0以下なら行削除（エラーではない）。
func (u *CartUsecase) SetQuantity(ctx context.Context, scope string, itemID int64, in SetQuantityInput) (CartResponse, error) {
	if scope == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item_id")
	}

	c := u.loadOrEmpty(ctx, scope)

	if in.Quantity > 0 && !c.Contains(itemID) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	c = c.SetQuantity(itemID, in.Quantity)

	if err := u.store.Save(ctx, scope, c); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart storage error")
	}
	return toCartResponse(c), nil
}

// Remove は行削除。無い行の削除もno-op成功。
func (u *CartUsecase) Remove(ctx context.Context, scope string, itemID int64) (CartResponse, error) {
	if scope == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item_id")
	}

	c := u.loadOrEmpty(ctx, scope)
	c = c.Remove(itemID)

	if err := u.store.Save(ctx, scope, c); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart storage error")
	}
	return toCartResponse(c), nil
}

// Clear は全破棄（ログアウト・明示クリア・全行注文化のとき）。
func (u *CartUsecase) Clear(ctx context.Context, scope string) (CartResponse, error) {
	if scope == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.store.Delete(ctx, scope); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart storage error")
	}
	return toCartResponse(cart.Cart{}), nil
}

// 読み込み失敗は「空カート」扱いにする（チェックアウトを止めない）。
func (u *CartUsecase) loadOrEmpty(ctx context.Context, scope string) cart.Cart {
	c, err := u.store.Load(ctx, scope)
	if err != nil {
		return cart.Cart{}
	}
	return c
}

func toCartResponse(c cart.Cart) CartResponse {
	lines := make([]CartLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, CartLineResponse{
			ItemID:          l.ItemID,
			Title:           l.Title,
			UnitPrice:       l.UnitPrice.StringFixed(2),
			OriginalPrice:   l.OriginalPrice.StringFixed(2),
			DiscountPercent: l.DiscountPercent,
			Quantity:        l.Quantity,
			LineTotal:       l.LineTotal().StringFixed(2),
		})
	}

	return CartResponse{
		Lines:     lines,
		CartTotal: c.Total().StringFixed(2),
		ItemCount: c.ItemCount(),
	}
}
