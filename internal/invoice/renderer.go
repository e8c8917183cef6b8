// Package invoice は注文スナップショットから請求書HTMLを組み立てます。
// 状態を持たず、同じ注文からは何度呼んでも同じ文書ができる。
package invoice

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"projectbazaar/internal/domain/model"
)

//go:embed invoice.html.tmpl
var invoiceTmpl string

type Renderer struct {
	tmpl *template.Template

	//請求書フッターに出す支払い先UPI ID
	upiID string
}

func NewRenderer(upiID string) (*Renderer, error) {
	t, err := template.New("invoice").Parse(invoiceTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}
	return &Renderer{tmpl: t, upiID: upiID}, nil
}

type invoiceData struct {
	OrderID       int64
	ProjectTitle  string
	Amount        string
	PaymentMethod string
	Status        string
	BuyerName     string
	BuyerEmail    string
	BuyerPhone    string
	Street        string
	City          string
	District      string
	State         string
	PostalCode    string
	CreatedAt     string
	UpdatedAt     string
	UpiID         string
}

// Render は呼び出し時点の注文スナップショットだけから文書を作る。
// 並行に呼んでも安全（テンプレートは読み取り専用）。
func (r *Renderer) Render(o model.Order) ([]byte, error) {
	data := invoiceData{
		OrderID:       o.ID,
		ProjectTitle:  o.ProjectTitle,
		Amount:        o.Amount.StringFixed(2),
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		BuyerName:     o.Address.Name,
		BuyerEmail:    o.Address.Email,
		BuyerPhone:    o.Address.Phone,
		Street:        o.Address.Street,
		City:          o.Address.City,
		District:      o.Address.District,
		State:         o.Address.State,
		PostalCode:    o.Address.PostalCode,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     o.UpdatedAt.Format(time.RFC3339),
		UpiID:         r.upiID,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
