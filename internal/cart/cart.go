// Package cart はカートの集計ロジック（純粋なreducer）です。
// 永続化はrepository.CartStoreに任せ、ここでは計算だけを行います。
package cart

import (
	"github.com/shopspring/decimal"
)

// カートの明細1行。UnitPriceは追加時点で割引を焼き込んだ単価で、
// 以後カタログ価格が変わっても再計算しない。
type Line struct {
	ItemID int64  `json:"item_id"`
	Title  string `json:"title"`

	//割引適用後の単価（追加時点で確定）
	UnitPrice decimal.Decimal `json:"unit_price"`

	//割引前の定価
	OriginalPrice decimal.Decimal `json:"original_price"`

	//適用した割引率（0〜100）
	DiscountPercent int64 `json:"discount_percent"`

	//常に1以上。0以下になる変更は行ごと削除する。
	Quantity int64 `json:"quantity"`
}

// LineTotal は UnitPrice × Quantity（導出値。保存しない）。
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Cart は明細の順序付きコレクション。値として扱い、各操作は新しいCartを返す。
type Cart struct {
	Lines []Line `json:"lines"`
}

var hundred = decimal.NewFromInt(100)

// DiscountedUnitPrice は定価と割引率から単価を計算する（2桁丸め）。
func DiscountedUnitPrice(price decimal.Decimal, discountPercent int64) decimal.Decimal {
	if discountPercent <= 0 {
		return price.Round(2)
	}
	rate := hundred.Sub(decimal.NewFromInt(discountPercent)).Div(hundred)
	return price.Mul(rate).Round(2)
}

// Add は明細を追加する。既にある商品なら数量+1（「もう1つ買う」扱い）。
// 新規なら数量1で、割引を焼き込んだ単価を確定して挿入する。
func (c Cart) Add(itemID int64, title string, price decimal.Decimal, discountPercent int64) Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)

	for i := range lines {
		if lines[i].ItemID == itemID {
			lines[i].Quantity++
			return Cart{Lines: lines}
		}
	}

	lines = append(lines, Line{
		ItemID:          itemID,
		Title:           title,
		UnitPrice:       DiscountedUnitPrice(price, discountPercent),
		OriginalPrice:   price,
		DiscountPercent: discountPercent,
		Quantity:        1,
	})
	return Cart{Lines: lines}
}

// Remove は該当商品の行を取り除く。無ければそのまま。
func (c Cart) Remove(itemID int64) Cart {
	lines := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.ItemID == itemID {
			continue
		}
		lines = append(lines, l)
	}
	return Cart{Lines: lines}
}

// SetQuantity は数量を置き換える。n<=0 は行削除（エラーではない）。
func (c Cart) SetQuantity(itemID int64, n int64) Cart {
	if n <= 0 {
		return c.Remove(itemID)
	}

	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	for i := range lines {
		if lines[i].ItemID == itemID {
			lines[i].Quantity = n
			break
		}
	}
	return Cart{Lines: lines}
}

// Clear は全行を破棄する。
func (c Cart) Clear() Cart {
	return Cart{}
}

// Contains は商品がカートに入っているかを返す。
func (c Cart) Contains(itemID int64) bool {
	for _, l := range c.Lines {
		if l.ItemID == itemID {
			return true
		}
	}
	return false
}

// Total は Σ(単価×数量) を2桁丸めで返す。
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total.Round(2)
}

// ItemCount は Σ数量。
func (c Cart) ItemCount() int64 {
	var n int64
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
