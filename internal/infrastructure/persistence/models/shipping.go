package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shipsync/backend/internal/domain/shipping"
)

// ShipstationOrderModel is the persistence model for a synchronized order.
// Remote timestamps are stored verbatim, so GORM's automatic time tracking
// is disabled on them.
type ShipstationOrderModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	ShipOrderID   int64           `gorm:"column:ship_order_id;not null;uniqueIndex:idx_shipstation_orders_ship_order_id"`
	OrderNumber   string          `gorm:"type:varchar(100);index"`
	EntryID       int64           `gorm:"column:entry_id;index"`
	Status        string          `gorm:"type:varchar(50);index"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CarrierCode   string          `gorm:"type:varchar(50)"`
	ServiceCode   string          `gorm:"type:varchar(50)"`
	PackageCode   string          `gorm:"type:varchar(50)"`
	CreatedAt     *time.Time      `gorm:"autoCreateTime:false;index"`
	UpdatedAt     *time.Time      `gorm:"autoUpdateTime:false"`
	PaidAt        *time.Time      `gorm:"column:paid_at"`
	ShipDate      *time.Time      `gorm:"column:ship_date"`
}

// TableName returns the table name for GORM
func (ShipstationOrderModel) TableName() string {
	return "shipstation_orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *ShipstationOrderModel) ToDomain() *shipping.Order {
	return &shipping.Order{
		ID:            m.ID,
		ShipOrderID:   m.ShipOrderID,
		OrderNumber:   m.OrderNumber,
		EntryID:       m.EntryID,
		Status:        m.Status,
		Total:         m.Total,
		ShippingTotal: m.ShippingTotal,
		CarrierCode:   m.CarrierCode,
		ServiceCode:   m.ServiceCode,
		PackageCode:   m.PackageCode,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		PaidAt:        m.PaidAt,
		ShipDate:      m.ShipDate,
	}
}

// ShipstationShipmentModel is the persistence model for a synchronized
// shipment. Address, weight and dimension blobs are kept as the JSON text
// the remote API delivered.
type ShipstationShipmentModel struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	ShipmentID     int64           `gorm:"column:shipment_id;not null;uniqueIndex:idx_shipstation_shipments_shipment_id"`
	ShipOrderID    int64           `gorm:"column:ship_order_id;index"`
	OrderNumber    string          `gorm:"type:varchar(100);index"`
	EntryID        int64           `gorm:"column:entry_id;index"`
	ShipmentCost   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	InsuranceCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TrackingNumber string          `gorm:"type:varchar(100);index"`
	CarrierCode    string          `gorm:"type:varchar(50)"`
	ServiceCode    string          `gorm:"type:varchar(50)"`
	PackageCode    string          `gorm:"type:varchar(50)"`
	IsVoided       int16           `gorm:"column:is_voided;type:smallint;not null;default:0"`
	VoidedAt       *time.Time      `gorm:"column:voided_at"`
	ShipTo         string          `gorm:"column:ship_to;type:text"`
	Weight         string          `gorm:"type:text"`
	Dimensions     string          `gorm:"type:text"`
	CreatedAt      *time.Time      `gorm:"autoCreateTime:false;index"`
	UpdatedAt      *time.Time      `gorm:"autoUpdateTime:false"`
	ShippedAt      *time.Time      `gorm:"column:shipped_at"`
}

// TableName returns the table name for GORM
func (ShipstationShipmentModel) TableName() string {
	return "shipstation_shipments"
}

// ToDomain converts the persistence model to a domain Shipment entity.
func (m *ShipstationShipmentModel) ToDomain() *shipping.Shipment {
	return &shipping.Shipment{
		ID:             m.ID,
		ShipmentID:     m.ShipmentID,
		ShipOrderID:    m.ShipOrderID,
		OrderNumber:    m.OrderNumber,
		EntryID:        m.EntryID,
		ShipmentCost:   m.ShipmentCost,
		InsuranceCost:  m.InsuranceCost,
		TrackingNumber: m.TrackingNumber,
		CarrierCode:    m.CarrierCode,
		ServiceCode:    m.ServiceCode,
		PackageCode:    m.PackageCode,
		IsVoided:       m.IsVoided != 0,
		VoidedAt:       m.VoidedAt,
		ShipTo:         m.ShipTo,
		Weight:         m.Weight,
		Dimensions:     m.Dimensions,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		ShippedAt:      m.ShippedAt,
	}
}

// ShipstationCarrierModel is the persistence model for a carrier account.
type ShipstationCarrierModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_shipstation_carriers_code"`
	Name          string          `gorm:"type:varchar(200)"`
	AccountNumber string          `gorm:"type:varchar(100)"`
	Balance       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsPrimary     int16           `gorm:"column:is_primary;type:smallint;not null;default:0"`
	IsReqFunded   int16           `gorm:"column:is_req_funded;type:smallint;not null;default:0"`
}

// TableName returns the table name for GORM
func (ShipstationCarrierModel) TableName() string {
	return "shipstation_carriers"
}

// ToDomain converts the persistence model to a domain Carrier entity.
func (m *ShipstationCarrierModel) ToDomain() *shipping.Carrier {
	return &shipping.Carrier{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		AccountNumber: m.AccountNumber,
		Balance:       m.Balance,
		IsPrimary:     m.IsPrimary != 0,
		IsReqFunded:   m.IsReqFunded != 0,
	}
}

// ShipstationServiceModel is the persistence model for a carrier service.
type ShipstationServiceModel struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	CarrierCode     string `gorm:"column:carrier_code;type:varchar(50);not null;uniqueIndex:idx_shipstation_services_carrier_code,priority:1"`
	Code            string `gorm:"type:varchar(100);not null;uniqueIndex:idx_shipstation_services_carrier_code,priority:2"`
	Name            string `gorm:"type:varchar(200)"`
	IsDomestic      int16  `gorm:"column:is_domestic;type:smallint;not null;default:0"`
	IsInternational int16  `gorm:"column:is_international;type:smallint;not null;default:0"`
}

// TableName returns the table name for GORM
func (ShipstationServiceModel) TableName() string {
	return "shipstation_services"
}

// ToDomain converts the persistence model to a domain CarrierService entity.
func (m *ShipstationServiceModel) ToDomain() *shipping.CarrierService {
	return &shipping.CarrierService{
		ID:              m.ID,
		CarrierCode:     m.CarrierCode,
		Code:            m.Code,
		Name:            m.Name,
		IsDomestic:      m.IsDomestic != 0,
		IsInternational: m.IsInternational != 0,
	}
}

// ShipstationPackageModel is the persistence model for a carrier package type.
type ShipstationPackageModel struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	CarrierCode     string `gorm:"column:carrier_code;type:varchar(50);not null;uniqueIndex:idx_shipstation_packages_carrier_code,priority:1"`
	Code            string `gorm:"type:varchar(100);not null;uniqueIndex:idx_shipstation_packages_carrier_code,priority:2"`
	Name            string `gorm:"type:varchar(200)"`
	IsDomestic      int16  `gorm:"column:is_domestic;type:smallint;not null;default:0"`
	IsInternational int16  `gorm:"column:is_international;type:smallint;not null;default:0"`
}

// TableName returns the table name for GORM
func (ShipstationPackageModel) TableName() string {
	return "shipstation_packages"
}

// ToDomain converts the persistence model to a domain CarrierPackage entity.
func (m *ShipstationPackageModel) ToDomain() *shipping.CarrierPackage {
	return &shipping.CarrierPackage{
		ID:              m.ID,
		CarrierCode:     m.CarrierCode,
		Code:            m.Code,
		Name:            m.Name,
		IsDomestic:      m.IsDomestic != 0,
		IsInternational: m.IsInternational != 0,
	}
}
