package shipping

import (
	"context"
	"time"
)

// ListOptions controls sorting and pagination for list queries.
// OrderBy is validated against each repository's sortable-column whitelist.
type ListOptions struct {
	OrderBy string
	Order   string // ASC or DESC; anything else means DESC
	Limit   int
	Offset  int
	// Page/PerPage are a convenience over Limit/Offset; when Page > 0 they win.
	Page    int
	PerPage int
}

// OrderFilter narrows order list queries. Zero values are ignored.
type OrderFilter struct {
	ShipOrderID int64
	OrderNumber string
	EntryID     int64
	Statuses    []string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	PaidFrom    *time.Time
	PaidTo      *time.Time
	Search      string
}

// ShipmentFilter narrows shipment list queries. Zero values are ignored;
// IsVoided is a pointer so "voided = false" can be expressed.
type ShipmentFilter struct {
	ID             int64
	ShipOrderID    int64
	OrderNumber    string
	EntryID        int64
	TrackingNumber string
	IsVoided       *bool
	CarrierCode    string
	ServiceCode    string
	PackageCode    string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	ShippedFrom    *time.Time
	ShippedTo      *time.Time
	Search         string
}

// CarrierFilter narrows carrier list queries.
type CarrierFilter struct {
	Code          string
	Name          string
	AccountNumber string
	IsPrimary     *bool
	IsReqFunded   *bool
	MinBalance    *float64
	MaxBalance    *float64
	Search        string
}

// OrderRepository persists synced orders.
type OrderRepository interface {
	List(ctx context.Context, filter OrderFilter, opts ListOptions) ([]Order, error)
	GetByShipOrderID(ctx context.Context, shipOrderID int64) (*Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	GetByEntryID(ctx context.Context, entryID int64) (*Order, error)
	BulkUpsert(ctx context.Context, rows []Row) UpsertResult
}

// ShipmentRepository persists synced shipments.
type ShipmentRepository interface {
	List(ctx context.Context, filter ShipmentFilter, opts ListOptions) ([]Shipment, error)
	AllByShipOrderID(ctx context.Context, shipOrderID int64) ([]Shipment, error)
	AllByOrderNumber(ctx context.Context, orderNumber string) ([]Shipment, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*Shipment, error)
	BulkUpsert(ctx context.Context, rows []Row) UpsertResult
}

// CarrierRepository persists synced carriers.
type CarrierRepository interface {
	List(ctx context.Context, filter CarrierFilter, opts ListOptions) ([]Carrier, error)
	GetByCode(ctx context.Context, code string) (*Carrier, error)
	BulkUpsert(ctx context.Context, rows []Row) UpsertResult
}

// CarrierServiceRepository persists carrier services.
type CarrierServiceRepository interface {
	ListByCarrier(ctx context.Context, carrierCode string) ([]CarrierService, error)
	BulkUpsert(ctx context.Context, rows []Row) UpsertResult
}

// CarrierPackageRepository persists carrier package types.
type CarrierPackageRepository interface {
	ListByCarrier(ctx context.Context, carrierCode string) ([]CarrierPackage, error)
	BulkUpsert(ctx context.Context, rows []Row) UpsertResult
}
