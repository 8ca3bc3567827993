package shipping

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a ShipStation order mirrored into the local store.
// ShipOrderID is the remote order id and the row's unique key; EntryID links
// the order to the local owning record (zero when unlinked).
type Order struct {
	ID            int64
	ShipOrderID   int64
	OrderNumber   string
	EntryID       int64
	Status        string
	Total         decimal.Decimal
	ShippingTotal decimal.Decimal
	CarrierCode   string
	ServiceCode   string
	PackageCode   string
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
	PaidAt        *time.Time
	ShipDate      *time.Time

	// Shipments are attached on list/detail reads, never persisted through Order.
	Shipments []Shipment
}

// Shipment is a ShipStation shipment mirrored into the local store, keyed by
// the remote ShipmentID. ShipTo, Weight and Dimensions are opaque JSON blobs
// passed through from the remote API without inspection.
type Shipment struct {
	ID             int64
	ShipmentID     int64
	ShipOrderID    int64
	OrderNumber    string
	EntryID        int64
	ShipmentCost   decimal.Decimal
	InsuranceCost  decimal.Decimal
	TrackingNumber string
	CarrierCode    string
	ServiceCode    string
	PackageCode    string
	IsVoided       bool
	VoidedAt       *time.Time
	ShipTo         string
	Weight         string
	Dimensions     string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
	ShippedAt      *time.Time
}

// Carrier is a shipping carrier account, keyed by carrier code.
type Carrier struct {
	ID            int64
	Code          string
	Name          string
	AccountNumber string
	Balance       decimal.Decimal
	IsPrimary     bool
	IsReqFunded   bool
}

// CarrierService is a shipping service offered by a carrier.
// The unique key is (carrier_code, code).
type CarrierService struct {
	ID              int64
	Code            string
	CarrierCode     string
	Name            string
	IsDomestic      bool
	IsInternational bool
}

// CarrierPackage is a package type offered by a carrier.
// The unique key is (carrier_code, code).
type CarrierPackage struct {
	ID              int64
	Code            string
	CarrierCode     string
	Name            string
	IsDomestic      bool
	IsInternational bool
}
