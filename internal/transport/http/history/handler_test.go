package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/calvoclucas/app-mdw-2025/internal/auth"
	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context) ([]entity.HistoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.HistoryEntry), args.Error(1)
}

func (m *mockService) ListByOrder(ctx context.Context, orderID int64) ([]entity.HistoryEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.HistoryEntry), args.Error(1)
}

func (m *mockService) ListByCustomer(ctx context.Context, customerID int64) ([]entity.HistoryEntry, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.HistoryEntry), args.Error(1)
}

func (m *mockService) ListByCompany(ctx context.Context, companyID int64) ([]entity.HistoryEntry, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.HistoryEntry), args.Error(1)
}

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (auth.Identity, error) {
	switch token {
	case "cliente":
		return auth.Identity{SubjectID: 1, Role: entity.RoleCustomer}, nil
	case "empresa":
		return auth.Identity{SubjectID: 2, Role: entity.RoleCompany}, nil
	default:
		return auth.Identity{}, errorbank.Unauthorized("invalid credential")
	}
}

type envelope struct {
	Success bool             `json:"success"`
	Data    []map[string]any `json:"data"`
	Error   struct {
		Kind string `json:"kind"`
	} `json:"error"`
}

func setup(t *testing.T) (*echo.Echo, *mockService) {
	t.Helper()
	e := echo.New()
	svc := new(mockService)
	Register(e, NewHandler(svc), auth.NewGuard(stubVerifier{}))
	return e, svc
}

func do(e *echo.Echo, target, token string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestListIsPublic(t *testing.T) {
	e, svc := setup(t)

	svc.On("List", mock.Anything).Return([]entity.HistoryEntry{
		{ID: 1, OrderID: 10, Status: entity.StatusDelivered},
		{ID: 2, OrderID: 11, Status: entity.StatusPending},
	}, nil)

	rec, env := do(e, "/history", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Data, 2)
	assert.Equal(t, "entregado", env.Data[0]["status"])
}

func TestListByOrderIsPublic(t *testing.T) {
	e, svc := setup(t)

	svc.On("ListByOrder", mock.Anything, int64(10)).
		Return([]entity.HistoryEntry{{ID: 1, OrderID: 10, Status: entity.StatusInProgress}}, nil)

	rec, env := do(e, "/history/by-order/10", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Data, 1)
	assert.EqualValues(t, 10, env.Data[0]["order_id"])
}

func TestListByCustomerNeedsCustomerRole(t *testing.T) {
	e, svc := setup(t)

	rec, _ := do(e, "/history/by-customer/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(e, "/history/by-customer/1", "empresa")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	svc.On("ListByCustomer", mock.Anything, int64(1)).Return([]entity.HistoryEntry{}, nil)
	rec, env := do(e, "/history/by-customer/1", "cliente")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestListByCompanyNeedsCompanyRole(t *testing.T) {
	e, svc := setup(t)

	rec, _ := do(e, "/history/by-company/2", "cliente")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	svc.On("ListByCompany", mock.Anything, int64(2)).Return([]entity.HistoryEntry{}, nil)
	rec, env := do(e, "/history/by-company/2", "empresa")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestListByOrderInvalidID(t *testing.T) {
	e, _ := setup(t)

	rec, env := do(e, "/history/by-order/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", env.Error.Kind)
}
