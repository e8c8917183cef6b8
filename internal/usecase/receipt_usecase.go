package usecase

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"projectbazaar/internal/domain/model"
	repo "projectbazaar/internal/repository"

	"github.com/google/uuid"
)

// レシートの上限サイズ（10MB）
const maxReceiptSizeBytes = 10 << 20

// アップロード待ちの上限
const receiptUploadTimeout = 30 * time.Second

// 受け付けるファイル種別（画像＋PDF）
var allowedReceiptMimeTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

type ReceiptUsecase struct {
	storage repo.BlobStorage
}

func NewReceiptUsecase(storage repo.BlobStorage) *ReceiptUsecase {
	return &ReceiptUsecase{storage: storage}
}

// StoreReceipt は支払い証明ファイルを検証して保存し、参照を返す。
// 検証に落ちたらストレージには一切書かない。
// チェックアウト1回につき1ファイルで、参照の使い回しはできない。
func (u *ReceiptUsecase) StoreReceipt(ctx context.Context, filename string, sizeBytes int64, mimeType string, r io.Reader) (model.ReceiptReference, error) {
	if sizeBytes <= 0 {
		return model.ReceiptReference{}, NewHTTPError(http.StatusBadRequest, "empty receipt file")
	}
	if sizeBytes > maxReceiptSizeBytes {
		return model.ReceiptReference{}, NewHTTPError(http.StatusBadRequest, "receipt file too large (max 10MB)")
	}

	mime := strings.ToLower(strings.TrimSpace(mimeType))
	ext, ok := allowedReceiptMimeTypes[mime]
	if !ok {
		return model.ReceiptReference{}, NewHTTPError(http.StatusBadRequest, "unsupported receipt file type")
	}

	ctx, cancel := context.WithTimeout(ctx, receiptUploadTimeout)
	defer cancel()

	//保存名は毎回新しく振る（同じ買い手の再チェックアウトでも別ファイル）
	name := uuid.NewString() + ext

	url, err := u.storage.Upload(ctx, name, mime, io.LimitReader(r, maxReceiptSizeBytes))
	if err != nil {
		//ここで失敗したらチェックアウトは先へ進めない
		return model.ReceiptReference{}, NewHTTPError(http.StatusBadGateway, "receipt upload failed")
	}

	return model.ReceiptReference{
		StorageURL:       url,
		OriginalFilename: filepath.Base(filename),
		SizeBytes:        sizeBytes,
		MimeType:         mime,
	}, nil
}
