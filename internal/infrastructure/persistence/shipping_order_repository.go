package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shipsync/backend/internal/domain/shipping"
	"github.com/shipsync/backend/internal/infrastructure/persistence/models"
)

// OrderSortFields contains allowed sort fields for synced orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"ship_order_id":  true,
	"order_number":   true,
	"entry_id":       true,
	"status":         true,
	"total":          true,
	"shipping_total": true,
	"carrier_code":   true,
	"service_code":   true,
	"created_at":     true,
	"updated_at":     true,
	"paid_at":        true,
	"ship_date":      true,
}

// orderUpsertSpec declares the order table's bulk upsert shape.
var orderUpsertSpec = UpsertSpec{
	Table:      "shipstation_orders",
	KeyColumns: []string{"ship_order_id"},
	Columns: map[string]shipping.ColumnFormat{
		"ship_order_id":  shipping.FormatInt,
		"order_number":   shipping.FormatText,
		"entry_id":       shipping.FormatInt,
		"status":         shipping.FormatText,
		"total":          shipping.FormatFloat,
		"shipping_total": shipping.FormatFloat,
		"carrier_code":   shipping.FormatText,
		"service_code":   shipping.FormatText,
		"package_code":   shipping.FormatText,
		"created_at":     shipping.FormatText,
		"updated_at":     shipping.FormatText,
		"paid_at":        shipping.FormatText,
		"ship_date":      shipping.FormatText,
	},
}

// GormOrderRepository implements shipping.OrderRepository using GORM
type GormOrderRepository struct {
	db       *gorm.DB
	upserter *BulkUpserter
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB, upserter *BulkUpserter) *GormOrderRepository {
	return &GormOrderRepository{db: db, upserter: upserter}
}

// List returns the orders matching the filter, each with its shipments attached.
func (r *GormOrderRepository) List(ctx context.Context, filter shipping.OrderFilter, opts shipping.ListOptions) ([]shipping.Order, error) {
	var rows []models.ShipstationOrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ShipstationOrderModel{}), filter)
	query = applyListOptions(query, opts, OrderSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]shipping.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	if err := r.attachShipments(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByShipOrderID returns the order with the given remote id.
func (r *GormOrderRepository) GetByShipOrderID(ctx context.Context, shipOrderID int64) (*shipping.Order, error) {
	return r.getOne(ctx, "ship_order_id = ?", shipOrderID)
}

// GetByOrderNumber returns the order with the given order number.
func (r *GormOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*shipping.Order, error) {
	return r.getOne(ctx, "order_number = ?", orderNumber)
}

// GetByEntryID returns the order linked to the given local entry.
func (r *GormOrderRepository) GetByEntryID(ctx context.Context, entryID int64) (*shipping.Order, error) {
	return r.getOne(ctx, "entry_id = ?", entryID)
}

// BulkUpsert writes normalized order rows, inserting new remote ids and
// overwriting existing ones.
func (r *GormOrderRepository) BulkUpsert(ctx context.Context, rows []shipping.Row) shipping.UpsertResult {
	return r.upserter.Upsert(ctx, orderUpsertSpec, rows)
}

func (r *GormOrderRepository) getOne(ctx context.Context, cond string, arg any) (*shipping.Order, error) {
	var model models.ShipstationOrderModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shipping.ErrOrderNotFound
		}
		return nil, err
	}
	order := model.ToDomain()
	single := []shipping.Order{*order}
	if err := r.attachShipments(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// attachShipments loads the shipments for a batch of orders in one query.
func (r *GormOrderRepository) attachShipments(ctx context.Context, orders []shipping.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ShipOrderID)
	}

	var rows []models.ShipstationShipmentModel
	if err := r.db.WithContext(ctx).
		Where("ship_order_id IN ?", ids).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return err
	}

	byOrder := make(map[int64][]shipping.Shipment, len(orders))
	for i := range rows {
		s := rows[i].ToDomain()
		byOrder[s.ShipOrderID] = append(byOrder[s.ShipOrderID], *s)
	}
	for i := range orders {
		orders[i].Shipments = byOrder[orders[i].ShipOrderID]
	}
	return nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shipping.OrderFilter) *gorm.DB {
	if filter.ShipOrderID != 0 {
		query = query.Where("ship_order_id = ?", filter.ShipOrderID)
	}
	if filter.OrderNumber != "" {
		query = query.Where("order_number = ?", filter.OrderNumber)
	}
	if filter.EntryID != 0 {
		query = query.Where("entry_id = ?", filter.EntryID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}
	if filter.PaidFrom != nil {
		query = query.Where("paid_at >= ?", filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		query = query.Where("paid_at <= ?", filter.PaidTo)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("order_number LIKE ? OR status LIKE ?", search, search)
	}
	return query
}

// applyListOptions applies sorting and pagination shared by every shipping
// list query.
func applyListOptions(query *gorm.DB, opts shipping.ListOptions, sortFields map[string]bool, defaultField string) *gorm.DB {
	sortField := ValidateSortField(opts.OrderBy, sortFields, defaultField)
	query = query.Order(sortField + " " + ValidateSortOrder(opts.Order))

	limit := opts.Limit
	offset := opts.Offset
	if opts.Page > 0 && opts.PerPage > 0 {
		limit = opts.PerPage
		offset = (opts.Page - 1) * opts.PerPage
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
