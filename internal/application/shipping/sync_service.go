package shipping

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/domain/shipping"
	"github.com/shipsync/backend/internal/infrastructure/shipstation"
)

// syncPageSize is the page size used for sync pulls. Larger than the API
// client's listing default to cut round trips on full syncs.
const syncPageSize = 500

// RemoteAPI is the slice of the ShipStation client the sync pipeline needs.
type RemoteAPI interface {
	ListOrders(ctx context.Context, params map[string]string) (*shipstation.OrderList, error)
	ListShipments(ctx context.Context, params map[string]string) (*shipstation.ShipmentList, error)
	ListCarriers(ctx context.Context) ([]shipstation.Carrier, error)
	CarrierServices(ctx context.Context, carrierCode string) ([]shipstation.CarrierService, error)
	CarrierPackages(ctx context.Context, carrierCode string) ([]shipstation.CarrierPackage, error)
}

// EntryLinker resolves the local entry a remote order belongs to. The zero
// return means unlinked; sync never fails on linkage.
type EntryLinker interface {
	EntryIDForOrder(ctx context.Context, orderNumber string) int64
}

// CarrierSyncResult breaks a carrier sync down by record kind.
type CarrierSyncResult struct {
	Carriers shipping.UpsertResult `json:"carriers"`
	Services shipping.UpsertResult `json:"services"`
	Packages shipping.UpsertResult `json:"packages"`
}

// SyncService pulls remote records and mirrors them into the local store.
type SyncService struct {
	api       RemoteAPI
	orders    shipping.OrderRepository
	shipments shipping.ShipmentRepository
	carriers  shipping.CarrierRepository
	services  shipping.CarrierServiceRepository
	packages  shipping.CarrierPackageRepository
	linker    EntryLinker
	logger    *zap.Logger
}

// NewSyncService creates a SyncService. linker and logger may be nil.
func NewSyncService(
	api RemoteAPI,
	orders shipping.OrderRepository,
	shipments shipping.ShipmentRepository,
	carriers shipping.CarrierRepository,
	services shipping.CarrierServiceRepository,
	packages shipping.CarrierPackageRepository,
	linker EntryLinker,
	logger *zap.Logger,
) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		api:       api,
		orders:    orders,
		shipments: shipments,
		carriers:  carriers,
		services:  services,
		packages:  packages,
		linker:    linker,
		logger:    logger,
	}
}

// SyncOrders pulls all orders matching params and upserts them locally.
// Extra params narrow the pull (e.g. modifyDateStart for incremental runs).
func (s *SyncService) SyncOrders(ctx context.Context, params map[string]string) (shipping.UpsertResult, error) {
	list, err := s.api.ListOrders(ctx, s.syncParams(params))
	if err != nil {
		return shipping.UpsertResult{}, fmt.Errorf("sync orders: %w", err)
	}

	rows := make([]shipping.Row, 0, len(list.Orders))
	for _, o := range list.Orders {
		rows = append(rows, OrderRow(o, s.entryID(ctx, o.OrderNumber)))
	}

	result := s.orders.BulkUpsert(ctx, rows)
	s.logger.Info("order sync finished",
		zap.Int("fetched", len(list.Orders)),
		zap.Int("processed", result.Processed),
		zap.Int64("rows_affected", result.RowsAffected),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// SyncShipments pulls all shipments matching params and upserts them locally.
func (s *SyncService) SyncShipments(ctx context.Context, params map[string]string) (shipping.UpsertResult, error) {
	list, err := s.api.ListShipments(ctx, s.syncParams(params))
	if err != nil {
		return shipping.UpsertResult{}, fmt.Errorf("sync shipments: %w", err)
	}

	rows := make([]shipping.Row, 0, len(list.Shipments))
	for _, sh := range list.Shipments {
		rows = append(rows, ShipmentRow(sh, s.entryID(ctx, sh.OrderNumber)))
	}

	result := s.shipments.BulkUpsert(ctx, rows)
	s.logger.Info("shipment sync finished",
		zap.Int("fetched", len(list.Shipments)),
		zap.Int("processed", result.Processed),
		zap.Int64("rows_affected", result.RowsAffected),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// SyncCarriers pulls carriers plus each carrier's services and package types,
// flattening them into three upsert passes. A failing per-carrier auxiliary
// fetch is logged and skipped so one broken carrier cannot sink the run.
func (s *SyncService) SyncCarriers(ctx context.Context) (CarrierSyncResult, error) {
	carriers, err := s.api.ListCarriers(ctx)
	if err != nil {
		return CarrierSyncResult{}, fmt.Errorf("sync carriers: %w", err)
	}

	carrierRows := make([]shipping.Row, 0, len(carriers))
	var serviceRows, packageRows []shipping.Row
	for _, carrier := range carriers {
		carrierRows = append(carrierRows, CarrierRow(carrier))
		if carrier.Code == "" {
			continue
		}

		services, err := s.api.CarrierServices(ctx, carrier.Code)
		if err != nil {
			s.logger.Warn("carrier services fetch failed",
				zap.String("carrier", carrier.Code), zap.Error(err))
		}
		for _, svc := range services {
			serviceRows = append(serviceRows, ServiceRow(svc, carrier.Code))
		}

		packages, err := s.api.CarrierPackages(ctx, carrier.Code)
		if err != nil {
			s.logger.Warn("carrier packages fetch failed",
				zap.String("carrier", carrier.Code), zap.Error(err))
		}
		for _, pkg := range packages {
			packageRows = append(packageRows, PackageRow(pkg, carrier.Code))
		}
	}

	result := CarrierSyncResult{
		Carriers: s.carriers.BulkUpsert(ctx, carrierRows),
		Services: s.services.BulkUpsert(ctx, serviceRows),
		Packages: s.packages.BulkUpsert(ctx, packageRows),
	}
	s.logger.Info("carrier sync finished",
		zap.Int("carriers", result.Carriers.Processed),
		zap.Int("services", result.Services.Processed),
		zap.Int("packages", result.Packages.Processed),
	)
	return result, nil
}

// syncParams merges caller params over the sync defaults.
func (s *SyncService) syncParams(params map[string]string) map[string]string {
	merged := map[string]string{
		"pageSize": strconv.Itoa(syncPageSize),
		"sortBy":   "OrderDate",
		"sortDir":  "DESC",
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

func (s *SyncService) entryID(ctx context.Context, orderNumber string) int64 {
	if s.linker == nil || orderNumber == "" {
		return 0
	}
	return s.linker.EntryIDForOrder(ctx, orderNumber)
}
