package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"projectbazaar/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type BlobStorageMock struct{ mock.Mock }

func (m *BlobStorageMock) Upload(ctx context.Context, name string, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, name, contentType, r)
	return args.String(0), args.Error(1)
}

func TestReceiptUsecase_StoreReceipt_EmptyFile(t *testing.T) {
	storage := new(BlobStorageMock)
	uc := usecase.NewReceiptUsecase(storage)

	_, err := uc.StoreReceipt(context.Background(), "upi.png", 0, "image/png", strings.NewReader(""))
	assertErrContains(t, err, "empty receipt file")
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiptUsecase_StoreReceipt_TooLarge(t *testing.T) {
	storage := new(BlobStorageMock)
	uc := usecase.NewReceiptUsecase(storage)

	//10MBちょうどは通り、1バイト超えたら拒否
	_, err := uc.StoreReceipt(context.Background(), "upi.png", 10<<20+1, "image/png", strings.NewReader("x"))
	assertErrContains(t, err, "too large")
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiptUsecase_StoreReceipt_UnsupportedType(t *testing.T) {
	storage := new(BlobStorageMock)
	uc := usecase.NewReceiptUsecase(storage)

	for _, mt := range []string{"image/gif", "text/html", "application/zip", ""} {
		_, err := uc.StoreReceipt(context.Background(), "receipt.bin", 100, mt, strings.NewReader("x"))
		assertErrContains(t, err, "unsupported receipt file type")
	}
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ストレージ障害はチェックアウトを止める（502）
func TestReceiptUsecase_StoreReceipt_UploadFailure(t *testing.T) {
	storage := new(BlobStorageMock)
	storage.On("Upload", mock.Anything, mock.Anything, "application/pdf", mock.Anything).
		Return("", errors.New("disk full"))

	uc := usecase.NewReceiptUsecase(storage)

	_, err := uc.StoreReceipt(context.Background(), "receipt.pdf", 100, "application/pdf", strings.NewReader("x"))
	assertErrContains(t, err, "receipt upload failed")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 502, he.Status)
}

func TestReceiptUsecase_StoreReceipt_Success(t *testing.T) {
	storage := new(BlobStorageMock)
	//保存名は毎回新しいUUID＋mimeに応じた拡張子
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(name string) bool {
		return strings.HasSuffix(name, ".png") && len(name) > len(".png")
	}), "image/png", mock.Anything).
		Return("http://localhost:8080/receipts/abc.png", nil)

	uc := usecase.NewReceiptUsecase(storage)

	ref, err := uc.StoreReceipt(context.Background(), "dir/upi-screenshot.PNG", 2048, "Image/PNG", strings.NewReader("pngdata"))
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/receipts/abc.png", ref.StorageURL)
	//元のファイル名はパスを落として保持
	assert.Equal(t, "upi-screenshot.PNG", ref.OriginalFilename)
	assert.Equal(t, int64(2048), ref.SizeBytes)
	assert.Equal(t, "image/png", ref.MimeType)
	assert.False(t, ref.IsEmpty())

	storage.AssertExpectations(t)
}
