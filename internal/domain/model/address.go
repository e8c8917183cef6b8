package model

// 配送先住所。注文に埋め込みで保存するスナップショット。
// 必須項目は注文作成時にvalidatorで全部チェック済みであること。
type DeliveryAddress struct {
	//宛名
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	//連絡先メール（通知の送り先にもなる）
	Email string `gorm:"type:varchar(255);not null" json:"email"`

	//電話番号（10桁）
	Phone string `gorm:"type:varchar(30);not null" json:"phone"`

	//番地など
	Street string `gorm:"type:varchar(255);not null" json:"street"`

	//市区町村
	City string `gorm:"type:varchar(255);not null" json:"city"`

	District string `gorm:"type:varchar(255);not null" json:"district"`
	State    string `gorm:"type:varchar(255);not null" json:"state"`

	//郵便番号（6桁）
	PostalCode string `gorm:"type:varchar(20);not null" json:"postal_code"`
}
