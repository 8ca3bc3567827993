package shipping

import (
	"context"

	"github.com/shipsync/backend/internal/domain/shipping"
)

// QueryService serves read-only lookups against the local mirror. It never
// touches the remote API.
type QueryService struct {
	orders    shipping.OrderRepository
	shipments shipping.ShipmentRepository
	carriers  shipping.CarrierRepository
	services  shipping.CarrierServiceRepository
	packages  shipping.CarrierPackageRepository
}

// NewQueryService creates a QueryService.
func NewQueryService(
	orders shipping.OrderRepository,
	shipments shipping.ShipmentRepository,
	carriers shipping.CarrierRepository,
	services shipping.CarrierServiceRepository,
	packages shipping.CarrierPackageRepository,
) *QueryService {
	return &QueryService{
		orders:    orders,
		shipments: shipments,
		carriers:  carriers,
		services:  services,
		packages:  packages,
	}
}

// ListOrders returns locally mirrored orders with their shipments attached.
func (s *QueryService) ListOrders(ctx context.Context, filter shipping.OrderFilter, opts shipping.ListOptions) ([]shipping.Order, error) {
	return s.orders.List(ctx, filter, opts)
}

// GetOrder resolves one order by remote id, order number or entry id, in
// that precedence.
func (s *QueryService) GetOrder(ctx context.Context, shipOrderID, entryID int64, orderNumber string) (*shipping.Order, error) {
	switch {
	case shipOrderID != 0:
		return s.orders.GetByShipOrderID(ctx, shipOrderID)
	case orderNumber != "":
		return s.orders.GetByOrderNumber(ctx, orderNumber)
	case entryID != 0:
		return s.orders.GetByEntryID(ctx, entryID)
	default:
		return nil, shipping.ErrOrderRefRequired
	}
}

// ListShipments returns locally mirrored shipments.
func (s *QueryService) ListShipments(ctx context.Context, filter shipping.ShipmentFilter, opts shipping.ListOptions) ([]shipping.Shipment, error) {
	return s.shipments.List(ctx, filter, opts)
}

// ShipmentsForOrder returns the mirrored shipments of one order.
func (s *QueryService) ShipmentsForOrder(ctx context.Context, shipOrderID int64, orderNumber string) ([]shipping.Shipment, error) {
	switch {
	case shipOrderID != 0:
		return s.shipments.AllByShipOrderID(ctx, shipOrderID)
	case orderNumber != "":
		return s.shipments.AllByOrderNumber(ctx, orderNumber)
	default:
		return nil, shipping.ErrOrderRefRequired
	}
}

// GetShipmentByTracking returns the shipment carrying a tracking number.
func (s *QueryService) GetShipmentByTracking(ctx context.Context, trackingNumber string) (*shipping.Shipment, error) {
	return s.shipments.GetByTrackingNumber(ctx, trackingNumber)
}

// ListCarriers returns locally mirrored carriers.
func (s *QueryService) ListCarriers(ctx context.Context, filter shipping.CarrierFilter, opts shipping.ListOptions) ([]shipping.Carrier, error) {
	return s.carriers.List(ctx, filter, opts)
}

// GetCarrier returns one carrier with its services and package types.
func (s *QueryService) GetCarrier(ctx context.Context, code string) (*shipping.Carrier, []shipping.CarrierService, []shipping.CarrierPackage, error) {
	carrier, err := s.carriers.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, nil, err
	}
	services, err := s.services.ListByCarrier(ctx, code)
	if err != nil {
		return nil, nil, nil, err
	}
	packages, err := s.packages.ListByCarrier(ctx, code)
	if err != nil {
		return nil, nil, nil, err
	}
	return carrier, services, packages, nil
}
