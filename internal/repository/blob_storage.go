package repository

import (
	"context"
	"io"
)

// レシート画像の置き場。成功したら取得可能なURLを返す。
// アップロード失敗はチェックアウト全体を止める（レシート無しで注文は作らない）。
type BlobStorage interface {
	Upload(ctx context.Context, name string, contentType string, r io.Reader) (string, error)
}
