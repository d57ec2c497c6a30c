package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	repo "github.com/calvoclucas/app-mdw-2025/internal/repository/order"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, order *entity.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockStore) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *mockStore) ListByCustomer(ctx context.Context, customerID int64) ([]entity.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *mockStore) ListByCompany(ctx context.Context, companyID int64) ([]entity.Order, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *mockStore) UpdateStatus(ctx context.Context, id int64, from, to entity.Status, at time.Time) error {
	args := m.Called(ctx, id, from, to, at)
	return args.Error(0)
}

func (m *mockStore) UpdateFields(ctx context.Context, id int64, total *float64, estimatedMinutes *int, at time.Time) (*entity.Order, error) {
	args := m.Called(ctx, id, total, estimatedMinutes, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) Upsert(ctx context.Context, orderID int64, status entity.Status, at time.Time) error {
	args := m.Called(ctx, orderID, status, at)
	return args.Error(0)
}

func newTestService(store *mockStore, history *mockHistory) *Service {
	return &Service{
		store:   store,
		history: history,
		logger:  zap.NewNop(),
	}
}

func validInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerID:       1,
		CompanyID:        2,
		PaymentMethodID:  1,
		AddressID:        1,
		Total:            1800,
		EstimatedMinutes: 30,
	}
}

func TestCreateStartsPendingAndRecordsHistory(t *testing.T) {
	store := new(mockStore)
	history := new(mockHistory)
	svc := newTestService(store, history)

	store.On("Create", mock.Anything, mock.MatchedBy(func(o *entity.Order) bool {
		return o.Status == entity.StatusPending && o.CustomerID == 1 && o.CompanyID == 2
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Order).ID = 42
	}).Return(nil)
	history.On("Upsert", mock.Anything, int64(42), entity.StatusPending, mock.Anything).Return(nil)

	order, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, entity.StatusPending, order.Status)
	store.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"missing customer", func(in *CreateOrderInput) { in.CustomerID = 0 }},
		{"missing company", func(in *CreateOrderInput) { in.CompanyID = 0 }},
		{"missing payment method", func(in *CreateOrderInput) { in.PaymentMethodID = 0 }},
		{"missing address", func(in *CreateOrderInput) { in.AddressID = 0 }},
		{"negative total", func(in *CreateOrderInput) { in.Total = -1 }},
		{"negative estimate", func(in *CreateOrderInput) { in.EstimatedMinutes = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			svc := newTestService(store, new(mockHistory))

			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)

			require.Error(t, err)
			assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
			store.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateHistoryFailureDoesNotFailOrder(t *testing.T) {
	store := new(mockStore)
	history := new(mockHistory)
	svc := newTestService(store, history)

	store.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Order).ID = 7
	}).Return(nil)
	history.On("Upsert", mock.Anything, int64(7), entity.StatusPending, mock.Anything).
		Return(errors.New("history table is unwell"))

	order, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(7), order.ID)
	history.AssertExpectations(t)
}

func TestCreateRepositoryError(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store, new(mockHistory))

	store.On("Create", mock.Anything, mock.Anything).Return(errors.New("boom"))

	_, err := svc.Create(context.Background(), validInput())

	require.Error(t, err)
	assert.Equal(t, errorbank.KindInternal, errorbank.From(err).Kind())
}

func TestTransitionHappyPath(t *testing.T) {
	store := new(mockStore)
	history := new(mockHistory)
	svc := newTestService(store, history)

	store.On("GetByID", mock.Anything, int64(9)).
		Return(&entity.Order{ID: 9, Status: entity.StatusPending}, nil)
	store.On("UpdateStatus", mock.Anything, int64(9), entity.StatusPending, entity.StatusInProgress, mock.Anything).
		Return(nil)
	history.On("Upsert", mock.Anything, int64(9), entity.StatusInProgress, mock.Anything).Return(nil)

	order, err := svc.Transition(context.Background(), 9, entity.StatusInProgress, entity.RoleCompany)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, order.Status)
	store.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestTransitionRejectsInvalidEdges(t *testing.T) {
	tests := []struct {
		name    string
		current entity.Status
		next    entity.Status
		role    entity.Role
	}{
		{"pending straight to delivered", entity.StatusPending, entity.StatusDelivered, entity.RoleCompany},
		{"customer accepting", entity.StatusPending, entity.StatusInProgress, entity.RoleCustomer},
		{"company cancelling", entity.StatusPending, entity.StatusCancelled, entity.RoleCompany},
		{"delivered is terminal", entity.StatusDelivered, entity.StatusCancelled, entity.RoleCustomer},
		{"cancelled is terminal", entity.StatusCancelled, entity.StatusInProgress, entity.RoleCompany},
		{"same status", entity.StatusPending, entity.StatusPending, entity.RoleCompany},
		{"backwards", entity.StatusInProgress, entity.StatusPending, entity.RoleCompany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			history := new(mockHistory)
			svc := newTestService(store, history)

			store.On("GetByID", mock.Anything, int64(3)).
				Return(&entity.Order{ID: 3, Status: tt.current}, nil)

			_, err := svc.Transition(context.Background(), 3, tt.next, tt.role)

			require.Error(t, err)
			appErr := errorbank.From(err)
			assert.Equal(t, errorbank.KindConflict, appErr.Kind())
			assert.Equal(t, string(tt.current), appErr.Details()["from"])
			assert.Equal(t, string(tt.next), appErr.Details()["to"])
			store.AssertNotCalled(t, "UpdateStatus")
			history.AssertNotCalled(t, "Upsert")
		})
	}
}

func TestTransitionOrderNotFound(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store, new(mockHistory))

	store.On("GetByID", mock.Anything, int64(404)).Return(nil, repo.ErrNotFound)

	_, err := svc.Transition(context.Background(), 404, entity.StatusInProgress, entity.RoleCompany)

	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestTransitionConcurrentWriterLoses(t *testing.T) {
	store := new(mockStore)
	history := new(mockHistory)
	svc := newTestService(store, history)

	store.On("GetByID", mock.Anything, int64(5)).
		Return(&entity.Order{ID: 5, Status: entity.StatusPending}, nil)
	store.On("UpdateStatus", mock.Anything, int64(5), entity.StatusPending, entity.StatusInProgress, mock.Anything).
		Return(repo.ErrStatusConflict)

	_, err := svc.Transition(context.Background(), 5, entity.StatusInProgress, entity.RoleCompany)

	require.Error(t, err)
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())
	history.AssertNotCalled(t, "Upsert")
}

func TestTransitionRecordsHistoryWithNewStatus(t *testing.T) {
	store := new(mockStore)
	history := new(mockHistory)
	svc := newTestService(store, history)

	store.On("GetByID", mock.Anything, int64(11)).
		Return(&entity.Order{ID: 11, Status: entity.StatusInProgress}, nil)
	store.On("UpdateStatus", mock.Anything, int64(11), entity.StatusInProgress, entity.StatusDelivered, mock.Anything).
		Return(nil)
	history.On("Upsert", mock.Anything, int64(11), entity.StatusDelivered, mock.Anything).Return(nil)

	order, err := svc.Transition(context.Background(), 11, entity.StatusDelivered, entity.RoleCompany)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, order.Status)
	history.AssertExpectations(t)
}

func TestUpdateRequiresAtLeastOneField(t *testing.T) {
	svc := newTestService(new(mockStore), new(mockHistory))

	_, err := svc.Update(context.Background(), 1, nil, nil)

	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestUpdateRejectsNegativeValues(t *testing.T) {
	svc := newTestService(new(mockStore), new(mockHistory))

	total := -10.0
	_, err := svc.Update(context.Background(), 1, &total, nil)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())

	minutes := -1
	_, err = svc.Update(context.Background(), 1, nil, &minutes)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestUpdateFields(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store, new(mockHistory))

	total := 2500.0
	updated := &entity.Order{ID: 1, Status: entity.StatusPending, Total: 2500}
	store.On("UpdateFields", mock.Anything, int64(1), &total, (*int)(nil), mock.Anything).
		Return(updated, nil)

	order, err := svc.Update(context.Background(), 1, &total, nil)

	require.NoError(t, err)
	assert.Equal(t, 2500.0, order.Total)
}

func TestGetNotFound(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store, new(mockHistory))

	store.On("GetByID", mock.Anything, int64(99)).Return(nil, repo.ErrNotFound)

	_, err := svc.Get(context.Background(), 99)

	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestDeleteNotFound(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store, new(mockHistory))

	store.On("Delete", mock.Anything, int64(99)).Return(repo.ErrNotFound)

	err := svc.Delete(context.Background(), 99)

	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestListByCustomer(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store, new(mockHistory))

	store.On("ListByCustomer", mock.Anything, int64(1)).
		Return([]entity.Order{{ID: 2}, {ID: 1}}, nil)

	orders, err := svc.ListByCustomer(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
