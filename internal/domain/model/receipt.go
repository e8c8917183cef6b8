package model

// 支払い証明への参照。作成後は不変で、チェックアウト1回につき1つ。
// 再チェックアウト時は必ず新しいアップロードを要求する（使い回し不可）。
type ReceiptReference struct {
	//ストレージ上の取得可能URL
	StorageURL string `gorm:"type:text;not null" json:"storage_url"`

	//アップロード時の元ファイル名
	OriginalFilename string `gorm:"type:varchar(255);not null" json:"original_filename"`

	SizeBytes int64  `gorm:"not null" json:"size_bytes"`
	MimeType  string `gorm:"type:varchar(100);not null" json:"mime_type"`
}

// IsEmpty は参照が未設定かどうか。
func (r ReceiptReference) IsEmpty() bool {
	return r.StorageURL == ""
}
