package usecase_test

import (
	"context"
	"errors"
	"testing"

	"projectbazaar/internal/cart"
	"projectbazaar/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type CartStoreMock struct{ mock.Mock }

func (m *CartStoreMock) Load(ctx context.Context, scope string) (cart.Cart, error) {
	args := m.Called(ctx, scope)
	c, _ := args.Get(0).(cart.Cart)
	return c, args.Error(1)
}

func (m *CartStoreMock) Save(ctx context.Context, scope string, c cart.Cart) error {
	args := m.Called(ctx, scope, c)
	return args.Error(0)
}

func (m *CartStoreMock) Delete(ctx context.Context, scope string) error {
	args := m.Called(ctx, scope)
	return args.Error(0)
}

const scope = "u:1"

// 読み込み失敗は空カート扱い（チェックアウト導線を止めない）
func TestCartUsecase_Get_StoreErrorYieldsEmptyCart(t *testing.T) {
	store := new(CartStoreMock)
	projects := new(ProjectRepoMock)

	store.On("Load", mock.Anything, scope).Return(cart.Cart{}, errors.New("redis down"))

	uc := usecase.NewCartUsecase(store, projects)

	res, err := uc.Get(context.Background(), scope)
	assert.NoError(t, err)
	assert.Len(t, res.Lines, 0)
	assert.Equal(t, "0.00", res.CartTotal)
	assert.Equal(t, int64(0), res.ItemCount)
}

func TestCartUsecase_Add_PersistsDiscountedLine(t *testing.T) {
	store := new(CartStoreMock)
	projects := new(ProjectRepoMock)

	projects.On("FindByID", mock.Anything, int64(5)).Return(publishedProject(), nil)
	store.On("Load", mock.Anything, scope).Return(cart.Cart{}, nil)
	store.On("Save", mock.Anything, scope, mock.MatchedBy(func(c cart.Cart) bool {
		return len(c.Lines) == 1 &&
			c.Lines[0].ItemID == 5 &&
			c.Lines[0].UnitPrice.Equal(dec("900")) &&
			c.Lines[0].Quantity == 1
	})).Return(nil)

	uc := usecase.NewCartUsecase(store, projects)

	res, err := uc.Add(context.Background(), scope, usecase.AddCartInput{ProjectID: 5})
	assert.NoError(t, err)
	assert.Equal(t, "900.00", res.Lines[0].UnitPrice)
	assert.Equal(t, "1000.00", res.Lines[0].OriginalPrice)
	assert.Equal(t, "900.00", res.CartTotal)

	store.AssertExpectations(t)
}

func TestCartUsecase_Add_UnpublishedProjectRejected(t *testing.T) {
	store := new(CartStoreMock)
	projects := new(ProjectRepoMock)

	p := publishedProject()
	p.IsPublished = false
	projects.On("FindByID", mock.Anything, int64(5)).Return(p, nil)

	uc := usecase.NewCartUsecase(store, projects)

	_, err := uc.Add(context.Background(), scope, usecase.AddCartInput{ProjectID: 5})
	assertErrContains(t, err, "project not available")
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_SetQuantity_MissingItemIsNotFound(t *testing.T) {
	store := new(CartStoreMock)
	projects := new(ProjectRepoMock)

	store.On("Load", mock.Anything, scope).Return(cart.Cart{}, nil)

	uc := usecase.NewCartUsecase(store, projects)

	_, err := uc.SetQuantity(context.Background(), scope, 99, usecase.SetQuantityInput{Quantity: 2})
	assertErrContains(t, err, "not found")
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

// 0以下は行削除でエラーにしない（無い行でも成功する）
func TestCartUsecase_SetQuantity_ZeroRemovesSilently(t *testing.T) {
	store := new(CartStoreMock)
	projects := new(ProjectRepoMock)

	p := publishedProject()
	loaded := cart.Cart{}.Add(p.ID, p.Title, p.Price, p.DiscountPercent)

	store.On("Load", mock.Anything, scope).Return(loaded, nil)
	store.On("Save", mock.Anything, scope, mock.MatchedBy(func(c cart.Cart) bool {
		return len(c.Lines) == 0
	})).Return(nil)

	uc := usecase.NewCartUsecase(store, projects)

	res, err := uc.SetQuantity(context.Background(), scope, 5, usecase.SetQuantityInput{Quantity: 0})
	assert.NoError(t, err)
	assert.Len(t, res.Lines, 0)
	store.AssertExpectations(t)
}

func TestCartUsecase_Clear(t *testing.T) {
	store := new(CartStoreMock)
	projects := new(ProjectRepoMock)

	store.On("Delete", mock.Anything, scope).Return(nil)

	uc := usecase.NewCartUsecase(store, projects)

	res, err := uc.Clear(context.Background(), scope)
	assert.NoError(t, err)
	assert.Equal(t, "0.00", res.CartTotal)
	store.AssertExpectations(t)
}
