package detail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	"github.com/calvoclucas/app-mdw-2025/internal/repository/catalog"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

type mockDetailStore struct {
	mock.Mock
}

func (m *mockDetailStore) InsertBatch(ctx context.Context, details []entity.OrderDetail) error {
	args := m.Called(ctx, details)
	return args.Error(0)
}

func (m *mockDetailStore) ListByOrder(ctx context.Context, orderID int64) ([]entity.OrderDetail, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.OrderDetail), args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func newTestService(store *mockDetailStore, cat *mockCatalog) *Service {
	return &Service{store: store, catalog: cat, logger: zap.NewNop()}
}

func TestCreateRequiresItems(t *testing.T) {
	store := new(mockDetailStore)
	svc := newTestService(store, new(mockCatalog))

	_, _, err := svc.Create(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	store.AssertNotCalled(t, "InsertBatch")
}

func TestCreateValidatesEachItem(t *testing.T) {
	tests := []struct {
		name string
		item Item
	}{
		{"missing order id", Item{ProductID: 1, Quantity: 1, UnitPrice: 10}},
		{"missing product id", Item{OrderID: 1, Quantity: 1, UnitPrice: 10}},
		{"zero quantity", Item{OrderID: 1, ProductID: 1, Quantity: 0, UnitPrice: 10}},
		{"negative price", Item{OrderID: 1, ProductID: 1, Quantity: 1, UnitPrice: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockDetailStore)
			svc := newTestService(store, new(mockCatalog))

			good := Item{OrderID: 1, ProductID: 2, Quantity: 3, UnitPrice: 850}
			_, _, err := svc.Create(context.Background(), []Item{good, tt.item})

			require.Error(t, err)
			assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
			store.AssertNotCalled(t, "InsertBatch")
		})
	}
}

func TestCreateInsertsWholeBatchOnce(t *testing.T) {
	store := new(mockDetailStore)
	cat := new(mockCatalog)
	svc := newTestService(store, cat)

	items := []Item{
		{OrderID: 1, ProductID: 1, Quantity: 2, UnitPrice: 850},
		{OrderID: 1, ProductID: 3, Quantity: 1, UnitPrice: 1500},
	}

	store.On("InsertBatch", mock.Anything, mock.MatchedBy(func(details []entity.OrderDetail) bool {
		return len(details) == 2 && details[0].ProductID == 1 && details[1].ProductID == 3
	})).Return(nil)
	cat.On("DecrementStock", mock.Anything, int64(1), 2).Return(nil)
	cat.On("DecrementStock", mock.Anything, int64(3), 1).Return(nil)

	details, warnings, err := svc.Create(context.Background(), items)

	require.NoError(t, err)
	assert.Len(t, details, 2)
	assert.Empty(t, warnings)
	store.AssertNumberOfCalls(t, "InsertBatch", 1)
	cat.AssertExpectations(t)
}

func TestCreateCollectsStockWarnings(t *testing.T) {
	store := new(mockDetailStore)
	cat := new(mockCatalog)
	svc := newTestService(store, cat)

	items := []Item{
		{OrderID: 1, ProductID: 1, Quantity: 2, UnitPrice: 850},
		{OrderID: 1, ProductID: 2, Quantity: 99, UnitPrice: 950},
	}

	store.On("InsertBatch", mock.Anything, mock.Anything).Return(nil)
	cat.On("DecrementStock", mock.Anything, int64(1), 2).Return(nil)
	cat.On("DecrementStock", mock.Anything, int64(2), 99).Return(catalog.ErrInsufficientStock)

	details, warnings, err := svc.Create(context.Background(), items)

	require.NoError(t, err)
	assert.Len(t, details, 2)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "product 2")
}

func TestCreateInsertFailure(t *testing.T) {
	store := new(mockDetailStore)
	cat := new(mockCatalog)
	svc := newTestService(store, cat)

	store.On("InsertBatch", mock.Anything, mock.Anything).Return(errors.New("boom"))

	_, _, err := svc.Create(context.Background(), []Item{{OrderID: 1, ProductID: 1, Quantity: 1, UnitPrice: 10}})

	require.Error(t, err)
	assert.Equal(t, errorbank.KindInternal, errorbank.From(err).Kind())
	cat.AssertNotCalled(t, "DecrementStock")
}

func TestListByOrderEmptyIsNotAnError(t *testing.T) {
	store := new(mockDetailStore)
	svc := newTestService(store, new(mockCatalog))

	store.On("ListByOrder", mock.Anything, int64(7)).Return([]entity.OrderDetail{}, nil)

	details, err := svc.ListByOrder(context.Background(), 7)

	require.NoError(t, err)
	assert.Empty(t, details)
}
