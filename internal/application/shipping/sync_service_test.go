package shipping

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipsync/backend/internal/domain/shipping"
	"github.com/shipsync/backend/internal/infrastructure/shipstation"
)

// fakeRemoteAPI is a canned-response RemoteAPI implementation.
type fakeRemoteAPI struct {
	orders     []shipstation.Order
	shipments  []shipstation.Shipment
	carriers   []shipstation.Carrier
	services   map[string][]shipstation.CarrierService
	packages   map[string][]shipstation.CarrierPackage
	listErr    error
	gotParams  map[string]string
	serviceErr map[string]error
}

func (f *fakeRemoteAPI) ListOrders(_ context.Context, params map[string]string) (*shipstation.OrderList, error) {
	f.gotParams = params
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &shipstation.OrderList{Orders: f.orders, Total: len(f.orders)}, nil
}

func (f *fakeRemoteAPI) ListShipments(_ context.Context, params map[string]string) (*shipstation.ShipmentList, error) {
	f.gotParams = params
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &shipstation.ShipmentList{Shipments: f.shipments, Total: len(f.shipments)}, nil
}

func (f *fakeRemoteAPI) ListCarriers(_ context.Context) ([]shipstation.Carrier, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.carriers, nil
}

func (f *fakeRemoteAPI) CarrierServices(_ context.Context, code string) ([]shipstation.CarrierService, error) {
	if err := f.serviceErr[code]; err != nil {
		return nil, err
	}
	return f.services[code], nil
}

func (f *fakeRemoteAPI) CarrierPackages(_ context.Context, code string) ([]shipstation.CarrierPackage, error) {
	return f.packages[code], nil
}

// fakeRowStore records upserted rows behind each repository interface.
type fakeRowStore struct {
	rows []shipping.Row
}

func (f *fakeRowStore) BulkUpsert(_ context.Context, rows []shipping.Row) shipping.UpsertResult {
	f.rows = append(f.rows, rows...)
	return shipping.UpsertResult{Processed: len(rows), Chunks: 1, RowsAffected: int64(len(rows))}
}

type fakeOrderRepo struct{ fakeRowStore }

func (f *fakeOrderRepo) List(context.Context, shipping.OrderFilter, shipping.ListOptions) ([]shipping.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) GetByShipOrderID(context.Context, int64) (*shipping.Order, error) {
	return nil, shipping.ErrOrderNotFound
}
func (f *fakeOrderRepo) GetByOrderNumber(context.Context, string) (*shipping.Order, error) {
	return nil, shipping.ErrOrderNotFound
}
func (f *fakeOrderRepo) GetByEntryID(context.Context, int64) (*shipping.Order, error) {
	return nil, shipping.ErrOrderNotFound
}

type fakeShipmentRepo struct {
	fakeRowStore
	local []shipping.Shipment
}

func (f *fakeShipmentRepo) List(context.Context, shipping.ShipmentFilter, shipping.ListOptions) ([]shipping.Shipment, error) {
	return f.local, nil
}
func (f *fakeShipmentRepo) AllByShipOrderID(context.Context, int64) ([]shipping.Shipment, error) {
	return f.local, nil
}
func (f *fakeShipmentRepo) AllByOrderNumber(context.Context, string) ([]shipping.Shipment, error) {
	return f.local, nil
}
func (f *fakeShipmentRepo) GetByTrackingNumber(context.Context, string) (*shipping.Shipment, error) {
	return nil, shipping.ErrShipmentNotFound
}

type fakeCarrierRepo struct{ fakeRowStore }

func (f *fakeCarrierRepo) List(context.Context, shipping.CarrierFilter, shipping.ListOptions) ([]shipping.Carrier, error) {
	return nil, nil
}
func (f *fakeCarrierRepo) GetByCode(context.Context, string) (*shipping.Carrier, error) {
	return nil, shipping.ErrCarrierNotFound
}

type fakeServiceRepo struct{ fakeRowStore }

func (f *fakeServiceRepo) ListByCarrier(context.Context, string) ([]shipping.CarrierService, error) {
	return nil, nil
}

type fakePackageRepo struct{ fakeRowStore }

func (f *fakePackageRepo) ListByCarrier(context.Context, string) ([]shipping.CarrierPackage, error) {
	return nil, nil
}

type staticLinker map[string]int64

func (l staticLinker) EntryIDForOrder(_ context.Context, orderNumber string) int64 {
	return l[orderNumber]
}

func newSyncFixture(api *fakeRemoteAPI) (*SyncService, *fakeOrderRepo, *fakeShipmentRepo, *fakeCarrierRepo, *fakeServiceRepo, *fakePackageRepo) {
	orders := &fakeOrderRepo{}
	shipments := &fakeShipmentRepo{}
	carriers := &fakeCarrierRepo{}
	services := &fakeServiceRepo{}
	packages := &fakePackageRepo{}
	svc := NewSyncService(api, orders, shipments, carriers, services, packages,
		staticLinker{"A-42": 7}, nil)
	return svc, orders, shipments, carriers, services, packages
}

func TestSyncOrdersAppliesDefaultsAndLinksEntries(t *testing.T) {
	api := &fakeRemoteAPI{orders: []shipstation.Order{
		{OrderID: 42, OrderNumber: "A-42", OrderStatus: "shipped"},
		{OrderID: 43, OrderNumber: "B-43", OrderStatus: "awaiting_shipment"},
	}}
	svc, orders, _, _, _, _ := newSyncFixture(api)

	result, err := svc.SyncOrders(context.Background(), map[string]string{"orderStatus": "shipped"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)

	assert.Equal(t, "500", api.gotParams["pageSize"])
	assert.Equal(t, "OrderDate", api.gotParams["sortBy"])
	assert.Equal(t, "DESC", api.gotParams["sortDir"])
	assert.Equal(t, "shipped", api.gotParams["orderStatus"])

	require.Len(t, orders.rows, 2)
	assert.Equal(t, int64(7), orders.rows[0]["entry_id"])
	assert.Equal(t, int64(0), orders.rows[1]["entry_id"])
}

func TestSyncOrdersPropagatesFetchError(t *testing.T) {
	api := &fakeRemoteAPI{listErr: errors.New("boom")}
	svc, orders, _, _, _, _ := newSyncFixture(api)

	_, err := svc.SyncOrders(context.Background(), nil)
	assert.Error(t, err)
	assert.Empty(t, orders.rows)
}

func TestSyncShipments(t *testing.T) {
	api := &fakeRemoteAPI{shipments: []shipstation.Shipment{
		{ShipmentID: 9, OrderID: 42, OrderNumber: "A-42", TrackingNumber: "1Z"},
	}}
	svc, _, shipments, _, _, _ := newSyncFixture(api)

	result, err := svc.SyncShipments(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	require.Len(t, shipments.rows, 1)
	assert.Equal(t, int64(9), shipments.rows[0]["shipment_id"])
	assert.Equal(t, int64(7), shipments.rows[0]["entry_id"])
}

func TestSyncCarriersFlattensServicesAndPackages(t *testing.T) {
	api := &fakeRemoteAPI{
		carriers: []shipstation.Carrier{
			{Code: "ups", Name: "UPS"},
			{Code: "fedex", Name: "FedEx"},
		},
		services: map[string][]shipstation.CarrierService{
			"ups":   {{Code: "ups_ground"}, {Code: "ups_2day"}},
			"fedex": {{Code: "fedex_ground"}},
		},
		packages: map[string][]shipstation.CarrierPackage{
			"ups": {{Code: "package"}},
		},
	}
	svc, _, _, carriers, services, packages := newSyncFixture(api)

	result, err := svc.SyncCarriers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Carriers.Processed)
	assert.Equal(t, 3, result.Services.Processed)
	assert.Equal(t, 1, result.Packages.Processed)

	require.Len(t, carriers.rows, 2)
	require.Len(t, services.rows, 3)
	assert.Equal(t, "ups", services.rows[0]["carrier_code"])
	require.Len(t, packages.rows, 1)
}

func TestSyncCarriersSurvivesAuxFetchFailure(t *testing.T) {
	api := &fakeRemoteAPI{
		carriers:   []shipstation.Carrier{{Code: "ups"}, {Code: "fedex"}},
		serviceErr: map[string]error{"ups": errors.New("rate limited")},
		services: map[string][]shipstation.CarrierService{
			"fedex": {{Code: "fedex_ground"}},
		},
	}
	svc, _, _, carriers, services, _ := newSyncFixture(api)

	result, err := svc.SyncCarriers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Carriers.Processed)
	assert.Equal(t, 1, result.Services.Processed)
	require.Len(t, carriers.rows, 2)
	require.Len(t, services.rows, 1)
}
