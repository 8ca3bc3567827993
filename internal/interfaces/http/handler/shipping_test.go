package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appshipping "github.com/shipsync/backend/internal/application/shipping"
	"github.com/shipsync/backend/internal/domain/shipping"
	"github.com/shipsync/backend/internal/interfaces/http/dto"
)

type stubOrderRepo struct {
	list       func(filter shipping.OrderFilter, opts shipping.ListOptions) ([]shipping.Order, error)
	byShipID   func(id int64) (*shipping.Order, error)
	byNumber   func(number string) (*shipping.Order, error)
	byEntry    func(id int64) (*shipping.Order, error)
	lastFilter shipping.OrderFilter
	lastOpts   shipping.ListOptions
}

func (s *stubOrderRepo) List(_ context.Context, filter shipping.OrderFilter, opts shipping.ListOptions) ([]shipping.Order, error) {
	s.lastFilter = filter
	s.lastOpts = opts
	if s.list != nil {
		return s.list(filter, opts)
	}
	return nil, nil
}

func (s *stubOrderRepo) GetByShipOrderID(_ context.Context, id int64) (*shipping.Order, error) {
	if s.byShipID != nil {
		return s.byShipID(id)
	}
	return nil, shipping.ErrOrderNotFound
}

func (s *stubOrderRepo) GetByOrderNumber(_ context.Context, number string) (*shipping.Order, error) {
	if s.byNumber != nil {
		return s.byNumber(number)
	}
	return nil, shipping.ErrOrderNotFound
}

func (s *stubOrderRepo) GetByEntryID(_ context.Context, id int64) (*shipping.Order, error) {
	if s.byEntry != nil {
		return s.byEntry(id)
	}
	return nil, shipping.ErrOrderNotFound
}

func (s *stubOrderRepo) BulkUpsert(_ context.Context, _ []shipping.Row) shipping.UpsertResult {
	return shipping.UpsertResult{}
}

type stubShipmentRepo struct {
	list       func(filter shipping.ShipmentFilter, opts shipping.ListOptions) ([]shipping.Shipment, error)
	byShipID   func(id int64) ([]shipping.Shipment, error)
	byNumber   func(number string) ([]shipping.Shipment, error)
	byTracking func(tracking string) (*shipping.Shipment, error)
}

func (s *stubShipmentRepo) List(_ context.Context, filter shipping.ShipmentFilter, opts shipping.ListOptions) ([]shipping.Shipment, error) {
	if s.list != nil {
		return s.list(filter, opts)
	}
	return nil, nil
}

func (s *stubShipmentRepo) AllByShipOrderID(_ context.Context, id int64) ([]shipping.Shipment, error) {
	if s.byShipID != nil {
		return s.byShipID(id)
	}
	return nil, nil
}

func (s *stubShipmentRepo) AllByOrderNumber(_ context.Context, number string) ([]shipping.Shipment, error) {
	if s.byNumber != nil {
		return s.byNumber(number)
	}
	return nil, nil
}

func (s *stubShipmentRepo) GetByTrackingNumber(_ context.Context, tracking string) (*shipping.Shipment, error) {
	if s.byTracking != nil {
		return s.byTracking(tracking)
	}
	return nil, shipping.ErrShipmentNotFound
}

func (s *stubShipmentRepo) BulkUpsert(_ context.Context, _ []shipping.Row) shipping.UpsertResult {
	return shipping.UpsertResult{}
}

type stubCarrierRepo struct {
	list   func(filter shipping.CarrierFilter, opts shipping.ListOptions) ([]shipping.Carrier, error)
	byCode func(code string) (*shipping.Carrier, error)
}

func (s *stubCarrierRepo) List(_ context.Context, filter shipping.CarrierFilter, opts shipping.ListOptions) ([]shipping.Carrier, error) {
	if s.list != nil {
		return s.list(filter, opts)
	}
	return nil, nil
}

func (s *stubCarrierRepo) GetByCode(_ context.Context, code string) (*shipping.Carrier, error) {
	if s.byCode != nil {
		return s.byCode(code)
	}
	return nil, shipping.ErrCarrierNotFound
}

func (s *stubCarrierRepo) BulkUpsert(_ context.Context, _ []shipping.Row) shipping.UpsertResult {
	return shipping.UpsertResult{}
}

type stubCarrierServiceRepo struct {
	services []shipping.CarrierService
}

func (s *stubCarrierServiceRepo) ListByCarrier(_ context.Context, _ string) ([]shipping.CarrierService, error) {
	return s.services, nil
}

func (s *stubCarrierServiceRepo) BulkUpsert(_ context.Context, _ []shipping.Row) shipping.UpsertResult {
	return shipping.UpsertResult{}
}

type stubCarrierPackageRepo struct {
	packages []shipping.CarrierPackage
}

func (s *stubCarrierPackageRepo) ListByCarrier(_ context.Context, _ string) ([]shipping.CarrierPackage, error) {
	return s.packages, nil
}

func (s *stubCarrierPackageRepo) BulkUpsert(_ context.Context, _ []shipping.Row) shipping.UpsertResult {
	return shipping.UpsertResult{}
}

type shippingTestEnv struct {
	engine    *gin.Engine
	orders    *stubOrderRepo
	shipments *stubShipmentRepo
	carriers  *stubCarrierRepo
	services  *stubCarrierServiceRepo
	packages  *stubCarrierPackageRepo
}

func newShippingTestEnv() *shippingTestEnv {
	env := &shippingTestEnv{
		orders:    &stubOrderRepo{},
		shipments: &stubShipmentRepo{},
		carriers:  &stubCarrierRepo{},
		services:  &stubCarrierServiceRepo{},
		packages:  &stubCarrierPackageRepo{},
	}
	queries := appshipping.NewQueryService(env.orders, env.shipments, env.carriers, env.services, env.packages)

	env.engine = gin.New()
	api := env.engine.Group("/api/v1")
	NewShippingHandler(queries).RegisterRoutes(api)
	return env
}

func (env *shippingTestEnv) do(t *testing.T, method, path string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	env.engine.ServeHTTP(w, req)

	var res dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return w, res
}

func TestShippingHandlerListOrders(t *testing.T) {
	env := newShippingTestEnv()
	env.orders.list = func(_ shipping.OrderFilter, _ shipping.ListOptions) ([]shipping.Order, error) {
		return []shipping.Order{
			{ID: 1, ShipOrderID: 99001, OrderNumber: "1001", Status: "shipped", Total: decimal.NewFromFloat(41.25)},
		}, nil
	}

	w, res := env.do(t, http.MethodGet, "/api/v1/shipping/orders?status=shipped&order_number=1001&created_from=2026-01-01T00:00:00Z")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.Success)
	require.NotNil(t, res.Meta)
	assert.Equal(t, int64(1), res.Meta.Total)

	assert.Equal(t, []string{"shipped"}, env.orders.lastFilter.Statuses)
	assert.Equal(t, "1001", env.orders.lastFilter.OrderNumber)
	require.NotNil(t, env.orders.lastFilter.CreatedFrom)
	assert.Equal(t, 2026, env.orders.lastFilter.CreatedFrom.Year())
}

func TestShippingHandlerListOrdersDefaults(t *testing.T) {
	env := newShippingTestEnv()

	w, _ := env.do(t, http.MethodGet, "/api/v1/shipping/orders")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.orders.lastOpts.Page)
	assert.Equal(t, 20, env.orders.lastOpts.PerPage)
	assert.Equal(t, "created_at", env.orders.lastOpts.OrderBy)
	assert.Equal(t, "desc", env.orders.lastOpts.Order)
}

func TestShippingHandlerListOrdersBadTime(t *testing.T) {
	env := newShippingTestEnv()

	w, res := env.do(t, http.MethodGet, "/api/v1/shipping/orders?created_from=yesterday")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, res.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, res.Error.Code)
}

func TestShippingHandlerGetOrder(t *testing.T) {
	env := newShippingTestEnv()
	env.orders.byShipID = func(id int64) (*shipping.Order, error) {
		assert.Equal(t, int64(99001), id)
		return &shipping.Order{ID: 1, ShipOrderID: 99001, OrderNumber: "1001"}, nil
	}
	env.orders.byNumber = func(number string) (*shipping.Order, error) {
		assert.Equal(t, "SO-1001", number)
		return &shipping.Order{ID: 2, OrderNumber: "SO-1001"}, nil
	}
	env.orders.byEntry = func(id int64) (*shipping.Order, error) {
		assert.Equal(t, int64(555), id)
		return &shipping.Order{ID: 3, EntryID: 555}, nil
	}

	t.Run("numeric ref resolves by remote id", func(t *testing.T) {
		w, res := env.do(t, http.MethodGet, "/api/v1/shipping/orders/99001")
		assert.Equal(t, http.StatusOK, w.Code)
		data := res.Data.(map[string]any)
		assert.Equal(t, float64(99001), data["ship_order_id"])
	})

	t.Run("non-numeric ref resolves by order number", func(t *testing.T) {
		w, res := env.do(t, http.MethodGet, "/api/v1/shipping/orders/SO-1001")
		assert.Equal(t, http.StatusOK, w.Code)
		data := res.Data.(map[string]any)
		assert.Equal(t, "SO-1001", data["order_number"])
	})

	t.Run("by=entry_id resolves by entry id", func(t *testing.T) {
		w, res := env.do(t, http.MethodGet, "/api/v1/shipping/orders/555?by=entry_id")
		assert.Equal(t, http.StatusOK, w.Code)
		data := res.Data.(map[string]any)
		assert.Equal(t, float64(555), data["entry_id"])
	})
}

func TestShippingHandlerGetOrderNotFound(t *testing.T) {
	env := newShippingTestEnv()

	w, res := env.do(t, http.MethodGet, "/api/v1/shipping/orders/12345")

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, res.Error)
	assert.Equal(t, dto.ErrCodeNotFound, res.Error.Code)
}

func TestShippingHandlerGetOrderShipments(t *testing.T) {
	env := newShippingTestEnv()
	env.shipments.byShipID = func(id int64) ([]shipping.Shipment, error) {
		assert.Equal(t, int64(99001), id)
		return []shipping.Shipment{
			{ID: 1, ShipmentID: 7001, ShipOrderID: 99001, TrackingNumber: "1Z999"},
		}, nil
	}

	w, res := env.do(t, http.MethodGet, "/api/v1/shipping/orders/99001/shipments")

	assert.Equal(t, http.StatusOK, w.Code)
	data := res.Data.([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "1Z999", data[0].(map[string]any)["tracking_number"])
}

func TestShippingHandlerListShipmentsVoidedFilter(t *testing.T) {
	env := newShippingTestEnv()
	var captured shipping.ShipmentFilter
	env.shipments.list = func(filter shipping.ShipmentFilter, _ shipping.ListOptions) ([]shipping.Shipment, error) {
		captured = filter
		return nil, nil
	}

	w, _ := env.do(t, http.MethodGet, "/api/v1/shipping/shipments?is_voided=false&carrier_code=stamps_com")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured.IsVoided)
	assert.False(t, *captured.IsVoided)
	assert.Equal(t, "stamps_com", captured.CarrierCode)
}

func TestShippingHandlerGetShipmentByTracking(t *testing.T) {
	env := newShippingTestEnv()
	env.shipments.byTracking = func(tracking string) (*shipping.Shipment, error) {
		assert.Equal(t, "1Z999AA10123456784", tracking)
		return &shipping.Shipment{ID: 1, ShipmentID: 7001, TrackingNumber: tracking}, nil
	}

	w, res := env.do(t, http.MethodGet, "/api/v1/shipping/shipments/tracking/1Z999AA10123456784")

	assert.Equal(t, http.StatusOK, w.Code)
	data := res.Data.(map[string]any)
	assert.Equal(t, "1Z999AA10123456784", data["tracking_number"])
}

func TestShippingHandlerGetShipmentByTrackingNotFound(t *testing.T) {
	env := newShippingTestEnv()

	w, res := env.do(t, http.MethodGet, "/api/v1/shipping/shipments/tracking/unknown")

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, res.Error)
}

func TestShippingHandlerListCarriers(t *testing.T) {
	env := newShippingTestEnv()
	var captured shipping.CarrierFilter
	env.carriers.list = func(filter shipping.CarrierFilter, _ shipping.ListOptions) ([]shipping.Carrier, error) {
		captured = filter
		return []shipping.Carrier{
			{ID: 1, Code: "stamps_com", Name: "Stamps.com", Balance: decimal.NewFromFloat(25.10), IsPrimary: true},
		}, nil
	}

	w, res := env.do(t, http.MethodGet, "/api/v1/shipping/carriers?is_primary=true&min_balance=10")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured.IsPrimary)
	assert.True(t, *captured.IsPrimary)
	require.NotNil(t, captured.MinBalance)
	assert.Equal(t, 10.0, *captured.MinBalance)

	data := res.Data.([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "stamps_com", data[0].(map[string]any)["code"])
}

func TestShippingHandlerGetCarrier(t *testing.T) {
	env := newShippingTestEnv()
	env.carriers.byCode = func(code string) (*shipping.Carrier, error) {
		assert.Equal(t, "fedex", code)
		return &shipping.Carrier{ID: 1, Code: "fedex", Name: "FedEx"}, nil
	}
	env.services.services = []shipping.CarrierService{
		{Code: "fedex_ground", CarrierCode: "fedex", Name: "FedEx Ground", IsDomestic: true},
	}
	env.packages.packages = []shipping.CarrierPackage{
		{Code: "package", CarrierCode: "fedex", Name: "Package"},
	}

	w, res := env.do(t, http.MethodGet, "/api/v1/shipping/carriers/fedex")

	assert.Equal(t, http.StatusOK, w.Code)
	data := res.Data.(map[string]any)
	carrier := data["carrier"].(map[string]any)
	assert.Equal(t, "fedex", carrier["code"])
	assert.Len(t, data["services"].([]any), 1)
	assert.Len(t, data["packages"].([]any), 1)
}

func TestShippingHandlerGetCarrierNotFound(t *testing.T) {
	env := newShippingTestEnv()

	w, res := env.do(t, http.MethodGet, "/api/v1/shipping/carriers/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, res.Error)
	assert.Equal(t, dto.ErrCodeNotFound, res.Error.Code)
}
