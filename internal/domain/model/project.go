package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カタログの商品（学術プロジェクト）。コアからは読み取り専用。
type Project struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	//定価
	Price decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	//割引率（0〜100）。カート追加時点で単価に焼き込む。
	DiscountPercent int64 `gorm:"not null;default:0" json:"discount_percent"`

	//公開中のものだけ購入できる
	IsPublished bool `gorm:"not null;default:false" json:"is_published"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
