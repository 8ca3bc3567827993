package shipping

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/domain/shipping"
	"github.com/shipsync/backend/internal/infrastructure/shipstation"
)

// LabelAPI is the slice of the ShipStation client the label workflow needs.
type LabelAPI interface {
	CreateLabelForOrder(ctx context.Context, req shipstation.LabelRequest) (map[string]any, error)
	VoidLabel(ctx context.Context, shipmentID int64) (map[string]any, error)
	LabelsByOrder(ctx context.Context, ref shipstation.OrderRef, includeData bool) ([]shipstation.Label, error)
	ShipmentsByOrder(ctx context.Context, ref shipstation.OrderRef) ([]shipstation.Shipment, error)
}

// LabelService buys and voids labels remotely and keeps the local shipment
// mirror in step after each mutation.
type LabelService struct {
	api       LabelAPI
	shipments shipping.ShipmentRepository
	linker    EntryLinker
	logger    *zap.Logger
}

// NewLabelService creates a LabelService. linker and logger may be nil.
func NewLabelService(api LabelAPI, shipments shipping.ShipmentRepository, linker EntryLinker, logger *zap.Logger) *LabelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LabelService{api: api, shipments: shipments, linker: linker, logger: logger}
}

// CreateLabel buys a label for an order and refreshes the order's local
// shipments. The remote response is returned verbatim so callers can reach
// the label PDF data.
func (s *LabelService) CreateLabel(ctx context.Context, req shipstation.LabelRequest) (map[string]any, error) {
	res, err := s.api.CreateLabelForOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("label created",
		zap.Int64("order_id", req.Order.ID),
		zap.String("order_number", req.Order.Number),
	)
	if err := s.refreshShipments(ctx, req.Order); err != nil {
		// The label exists remotely; the mirror catches up on the next sync.
		s.logger.Warn("shipment refresh after label create failed", zap.Error(err))
	}
	return res, nil
}

// VoidLabel voids a shipment's label and refreshes the order's local
// shipments when the shipment is known locally.
func (s *LabelService) VoidLabel(ctx context.Context, shipmentID int64) (map[string]any, error) {
	if shipmentID == 0 {
		return nil, shipping.ErrShipmentIDRequired
	}

	res, err := s.api.VoidLabel(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("label voided", zap.Int64("shipment_id", shipmentID))

	local, err := s.shipments.List(ctx, shipping.ShipmentFilter{ID: shipmentID}, shipping.ListOptions{Limit: 1})
	if err == nil && len(local) == 1 && local[0].ShipOrderID != 0 {
		ref := shipstation.OrderRef{ID: local[0].ShipOrderID}
		if err := s.refreshShipments(ctx, ref); err != nil {
			s.logger.Warn("shipment refresh after void failed", zap.Error(err))
		}
	}
	return res, nil
}

// ListLabels returns the label summaries for one order's shipments.
func (s *LabelService) ListLabels(ctx context.Context, ref shipstation.OrderRef, includeData bool) ([]shipstation.Label, error) {
	return s.api.LabelsByOrder(ctx, ref, includeData)
}

// refreshShipments re-pulls one order's shipments and upserts them locally.
func (s *LabelService) refreshShipments(ctx context.Context, ref shipstation.OrderRef) error {
	remote, err := s.api.ShipmentsByOrder(ctx, ref)
	if err != nil {
		return err
	}
	rows := make([]shipping.Row, 0, len(remote))
	for _, sh := range remote {
		var entryID int64
		if s.linker != nil && sh.OrderNumber != "" {
			entryID = s.linker.EntryIDForOrder(ctx, sh.OrderNumber)
		}
		rows = append(rows, ShipmentRow(sh, entryID))
	}

	result := s.shipments.BulkUpsert(ctx, rows)
	if len(result.Errors) > 0 {
		return fmt.Errorf("shipment refresh: %d row errors", len(result.Errors))
	}
	return nil
}
