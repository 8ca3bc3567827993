package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shipsync/backend/internal/domain/shipping"
	"github.com/shipsync/backend/internal/infrastructure/persistence/models"
)

// ShipmentSortFields contains allowed sort fields for synced shipments
var ShipmentSortFields = map[string]bool{
	"id":              true,
	"shipment_id":     true,
	"ship_order_id":   true,
	"order_number":    true,
	"entry_id":        true,
	"shipment_cost":   true,
	"insurance_cost":  true,
	"tracking_number": true,
	"carrier_code":    true,
	"service_code":    true,
	"is_voided":       true,
	"created_at":      true,
	"updated_at":      true,
	"shipped_at":      true,
	"voided_at":       true,
}

// shipmentUpsertSpec declares the shipment table's bulk upsert shape.
var shipmentUpsertSpec = UpsertSpec{
	Table:      "shipstation_shipments",
	KeyColumns: []string{"shipment_id"},
	Columns: map[string]shipping.ColumnFormat{
		"shipment_id":     shipping.FormatInt,
		"ship_order_id":   shipping.FormatInt,
		"order_number":    shipping.FormatText,
		"entry_id":        shipping.FormatInt,
		"shipment_cost":   shipping.FormatFloat,
		"insurance_cost":  shipping.FormatFloat,
		"tracking_number": shipping.FormatText,
		"carrier_code":    shipping.FormatText,
		"service_code":    shipping.FormatText,
		"package_code":    shipping.FormatText,
		"is_voided":       shipping.FormatInt,
		"voided_at":       shipping.FormatText,
		"ship_to":         shipping.FormatText,
		"weight":          shipping.FormatText,
		"dimensions":      shipping.FormatText,
		"created_at":      shipping.FormatText,
		"updated_at":      shipping.FormatText,
		"shipped_at":      shipping.FormatText,
	},
}

// GormShipmentRepository implements shipping.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db       *gorm.DB
	upserter *BulkUpserter
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB, upserter *BulkUpserter) *GormShipmentRepository {
	return &GormShipmentRepository{db: db, upserter: upserter}
}

// List returns the shipments matching the filter.
func (r *GormShipmentRepository) List(ctx context.Context, filter shipping.ShipmentFilter, opts shipping.ListOptions) ([]shipping.Shipment, error) {
	var rows []models.ShipstationShipmentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ShipstationShipmentModel{}), filter)
	query = applyListOptions(query, opts, ShipmentSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainShipments(rows), nil
}

// AllByShipOrderID returns every shipment belonging to one remote order.
func (r *GormShipmentRepository) AllByShipOrderID(ctx context.Context, shipOrderID int64) ([]shipping.Shipment, error) {
	return r.allWhere(ctx, "ship_order_id = ?", shipOrderID)
}

// AllByOrderNumber returns every shipment carrying the given order number.
func (r *GormShipmentRepository) AllByOrderNumber(ctx context.Context, orderNumber string) ([]shipping.Shipment, error) {
	return r.allWhere(ctx, "order_number = ?", orderNumber)
}

// GetByTrackingNumber returns the shipment carrying the tracking number.
func (r *GormShipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*shipping.Shipment, error) {
	var model models.ShipstationShipmentModel
	if err := r.db.WithContext(ctx).
		Where("tracking_number = ?", trackingNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shipping.ErrShipmentNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// BulkUpsert writes normalized shipment rows keyed by the remote shipment id.
func (r *GormShipmentRepository) BulkUpsert(ctx context.Context, rows []shipping.Row) shipping.UpsertResult {
	return r.upserter.Upsert(ctx, shipmentUpsertSpec, rows)
}

func (r *GormShipmentRepository) allWhere(ctx context.Context, cond string, arg any) ([]shipping.Shipment, error) {
	var rows []models.ShipstationShipmentModel
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainShipments(rows), nil
}

func (r *GormShipmentRepository) applyFilter(query *gorm.DB, filter shipping.ShipmentFilter) *gorm.DB {
	if filter.ID != 0 {
		query = query.Where("shipment_id = ?", filter.ID)
	}
	if filter.ShipOrderID != 0 {
		query = query.Where("ship_order_id = ?", filter.ShipOrderID)
	}
	if filter.OrderNumber != "" {
		query = query.Where("order_number = ?", filter.OrderNumber)
	}
	if filter.EntryID != 0 {
		query = query.Where("entry_id = ?", filter.EntryID)
	}
	if filter.TrackingNumber != "" {
		query = query.Where("tracking_number = ?", filter.TrackingNumber)
	}
	if filter.IsVoided != nil {
		query = query.Where("is_voided = ?", boolToFlag(*filter.IsVoided))
	}
	if filter.CarrierCode != "" {
		query = query.Where("carrier_code = ?", filter.CarrierCode)
	}
	if filter.ServiceCode != "" {
		query = query.Where("service_code = ?", filter.ServiceCode)
	}
	if filter.PackageCode != "" {
		query = query.Where("package_code = ?", filter.PackageCode)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}
	if filter.ShippedFrom != nil {
		query = query.Where("shipped_at >= ?", filter.ShippedFrom)
	}
	if filter.ShippedTo != nil {
		query = query.Where("shipped_at <= ?", filter.ShippedTo)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("order_number LIKE ? OR tracking_number LIKE ?", search, search)
	}
	return query
}

func toDomainShipments(rows []models.ShipstationShipmentModel) []shipping.Shipment {
	shipments := make([]shipping.Shipment, 0, len(rows))
	for i := range rows {
		shipments = append(shipments, *rows[i].ToDomain())
	}
	return shipments
}

// boolToFlag converts a boolean filter into its smallint storage value.
func boolToFlag(b bool) int16 {
	if b {
		return 1
	}
	return 0
}
