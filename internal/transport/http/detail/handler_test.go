package detail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/calvoclucas/app-mdw-2025/internal/auth"
	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	service "github.com/calvoclucas/app-mdw-2025/internal/service/detail"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, items []service.Item) ([]entity.OrderDetail, []string, error) {
	args := m.Called(ctx, items)
	var details []entity.OrderDetail
	if args.Get(0) != nil {
		details = args.Get(0).([]entity.OrderDetail)
	}
	var warnings []string
	if args.Get(1) != nil {
		warnings = args.Get(1).([]string)
	}
	return details, warnings, args.Error(2)
}

func (m *mockService) ListByOrder(ctx context.Context, orderID int64) ([]entity.OrderDetail, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.OrderDetail), args.Error(1)
}

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (auth.Identity, error) {
	if token == "cliente" {
		return auth.Identity{SubjectID: 1, Role: entity.RoleCustomer}, nil
	}
	return auth.Identity{}, errorbank.Unauthorized("invalid credential")
}

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Error   struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]any `json:"meta"`
}

func setup(t *testing.T) (*echo.Echo, *mockService) {
	t.Helper()
	e := echo.New()
	svc := new(mockService)
	Register(e, NewHandler(svc), auth.NewGuard(stubVerifier{}))
	return e, svc
}

func do(e *echo.Echo, method, target, token, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestCreateRejectsNonArrayDetalles(t *testing.T) {
	e, svc := setup(t)

	rec, env := do(e, http.MethodPost, "/order-details", "cliente", `{"detalles":"not an array"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", env.Error.Kind)
	assert.Contains(t, env.Error.Message, "detalles")
	svc.AssertNotCalled(t, "Create")
}

func TestCreatePersistsBatch(t *testing.T) {
	e, svc := setup(t)

	items := []service.Item{
		{OrderID: 1, ProductID: 1, Quantity: 2, UnitPrice: 850},
		{OrderID: 1, ProductID: 3, Quantity: 1, UnitPrice: 1500},
	}
	details := []entity.OrderDetail{
		{ID: 10, OrderID: 1, ProductID: 1, Quantity: 2, UnitPrice: 850},
		{ID: 11, OrderID: 1, ProductID: 3, Quantity: 1, UnitPrice: 1500},
	}
	svc.On("Create", mock.Anything, items).Return(details, nil, nil)

	body := `{"detalles":[
		{"order_id":1,"product_id":1,"quantity":2,"unit_price":850},
		{"order_id":1,"product_id":3,"quantity":1,"unit_price":1500}
	]}`
	rec, env := do(e, http.MethodPost, "/order-details", "cliente", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Nil(t, env.Meta)
	svc.AssertExpectations(t)
}

func TestCreateSurfacesStockWarnings(t *testing.T) {
	e, svc := setup(t)

	details := []entity.OrderDetail{{ID: 10, OrderID: 1, ProductID: 2, Quantity: 99, UnitPrice: 950}}
	warnings := []string{"stock decrement failed for product 2: insufficient stock"}
	svc.On("Create", mock.Anything, mock.Anything).Return(details, warnings, nil)

	body := `{"detalles":[{"order_id":1,"product_id":2,"quantity":99,"unit_price":950}]}`
	rec, env := do(e, http.MethodPost, "/order-details", "cliente", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Meta)
	assert.Len(t, env.Meta["warnings"], 1)
}

func TestCreateEmptyBatch(t *testing.T) {
	e, svc := setup(t)

	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, nil, errorbank.BadRequest("at least one detail is required"))

	rec, env := do(e, http.MethodPost, "/order-details", "cliente", `{"detalles":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", env.Error.Kind)
}

func TestCreateRequiresAuthentication(t *testing.T) {
	e, svc := setup(t)

	rec, env := do(e, http.MethodPost, "/order-details", "", `{"detalles":[]}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", env.Error.Kind)
	svc.AssertNotCalled(t, "Create")
}

func TestListByOrderReturnsDetails(t *testing.T) {
	e, svc := setup(t)

	svc.On("ListByOrder", mock.Anything, int64(1)).
		Return([]entity.OrderDetail{{ID: 10, OrderID: 1, ProductID: 1, Quantity: 2, UnitPrice: 850}}, nil)

	rec, env := do(e, http.MethodGet, "/order-details/by-order/1", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestListByOrderEmptyIsNotFound(t *testing.T) {
	e, svc := setup(t)

	svc.On("ListByOrder", mock.Anything, int64(9)).Return([]entity.OrderDetail{}, nil)

	rec, env := do(e, http.MethodGet, "/order-details/by-order/9", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Kind)
}
