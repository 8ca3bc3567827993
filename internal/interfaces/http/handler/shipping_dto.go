package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shipsync/backend/internal/domain/shipping"
)

// OrderResponse is the API shape of a synced order
type OrderResponse struct {
	ID            int64               `json:"id"`
	ShipOrderID   int64               `json:"ship_order_id"`
	OrderNumber   string              `json:"order_number"`
	EntryID       int64               `json:"entry_id"`
	Status        string              `json:"status"`
	Total         decimal.Decimal     `json:"total"`
	ShippingTotal decimal.Decimal     `json:"shipping_total"`
	CarrierCode   string              `json:"carrier_code"`
	ServiceCode   string              `json:"service_code"`
	PackageCode   string              `json:"package_code"`
	CreatedAt     *time.Time          `json:"created_at"`
	UpdatedAt     *time.Time          `json:"updated_at"`
	PaidAt        *time.Time          `json:"paid_at"`
	ShipDate      *time.Time          `json:"ship_date"`
	Shipments     []ShipmentResponse  `json:"shipments,omitempty"`
}

// ShipmentResponse is the API shape of a synced shipment
type ShipmentResponse struct {
	ID             int64           `json:"id"`
	ShipmentID     int64           `json:"shipment_id"`
	ShipOrderID    int64           `json:"ship_order_id"`
	OrderNumber    string          `json:"order_number"`
	EntryID        int64           `json:"entry_id"`
	ShipmentCost   decimal.Decimal `json:"shipment_cost"`
	InsuranceCost  decimal.Decimal `json:"insurance_cost"`
	TrackingNumber string          `json:"tracking_number"`
	CarrierCode    string          `json:"carrier_code"`
	ServiceCode    string          `json:"service_code"`
	PackageCode    string          `json:"package_code"`
	IsVoided       bool            `json:"is_voided"`
	VoidedAt       *time.Time      `json:"voided_at"`
	ShipTo         string          `json:"ship_to"`
	Weight         string          `json:"weight"`
	Dimensions     string          `json:"dimensions"`
	CreatedAt      *time.Time      `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at"`
	ShippedAt      *time.Time      `json:"shipped_at"`
}

// CarrierResponse is the API shape of a carrier account
type CarrierResponse struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	IsPrimary     bool            `json:"is_primary"`
	IsReqFunded   bool            `json:"is_req_funded"`
}

// CarrierServiceResponse is the API shape of a carrier service
type CarrierServiceResponse struct {
	ID              int64  `json:"id"`
	Code            string `json:"code"`
	CarrierCode     string `json:"carrier_code"`
	Name            string `json:"name"`
	IsDomestic      bool   `json:"is_domestic"`
	IsInternational bool   `json:"is_international"`
}

// CarrierPackageResponse is the API shape of a carrier package type
type CarrierPackageResponse struct {
	ID              int64  `json:"id"`
	Code            string `json:"code"`
	CarrierCode     string `json:"carrier_code"`
	Name            string `json:"name"`
	IsDomestic      bool   `json:"is_domestic"`
	IsInternational bool   `json:"is_international"`
}

// CarrierDetailResponse bundles a carrier with its services and packages
type CarrierDetailResponse struct {
	Carrier  CarrierResponse          `json:"carrier"`
	Services []CarrierServiceResponse `json:"services"`
	Packages []CarrierPackageResponse `json:"packages"`
}

func toOrderResponse(o shipping.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		ShipOrderID:   o.ShipOrderID,
		OrderNumber:   o.OrderNumber,
		EntryID:       o.EntryID,
		Status:        o.Status,
		Total:         o.Total,
		ShippingTotal: o.ShippingTotal,
		CarrierCode:   o.CarrierCode,
		ServiceCode:   o.ServiceCode,
		PackageCode:   o.PackageCode,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		PaidAt:        o.PaidAt,
		ShipDate:      o.ShipDate,
		Shipments:     toShipmentResponses(o.Shipments),
	}
}

func toOrderResponses(orders []shipping.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func toShipmentResponse(s shipping.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:             s.ID,
		ShipmentID:     s.ShipmentID,
		ShipOrderID:    s.ShipOrderID,
		OrderNumber:    s.OrderNumber,
		EntryID:        s.EntryID,
		ShipmentCost:   s.ShipmentCost,
		InsuranceCost:  s.InsuranceCost,
		TrackingNumber: s.TrackingNumber,
		CarrierCode:    s.CarrierCode,
		ServiceCode:    s.ServiceCode,
		PackageCode:    s.PackageCode,
		IsVoided:       s.IsVoided,
		VoidedAt:       s.VoidedAt,
		ShipTo:         s.ShipTo,
		Weight:         s.Weight,
		Dimensions:     s.Dimensions,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		ShippedAt:      s.ShippedAt,
	}
}

func toShipmentResponses(shipments []shipping.Shipment) []ShipmentResponse {
	if len(shipments) == 0 {
		return nil
	}
	out := make([]ShipmentResponse, 0, len(shipments))
	for _, s := range shipments {
		out = append(out, toShipmentResponse(s))
	}
	return out
}

func toCarrierResponse(c shipping.Carrier) CarrierResponse {
	return CarrierResponse{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		AccountNumber: c.AccountNumber,
		Balance:       c.Balance,
		IsPrimary:     c.IsPrimary,
		IsReqFunded:   c.IsReqFunded,
	}
}

func toCarrierResponses(carriers []shipping.Carrier) []CarrierResponse {
	out := make([]CarrierResponse, 0, len(carriers))
	for _, c := range carriers {
		out = append(out, toCarrierResponse(c))
	}
	return out
}

func toCarrierServiceResponses(services []shipping.CarrierService) []CarrierServiceResponse {
	out := make([]CarrierServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, CarrierServiceResponse{
			ID:              s.ID,
			Code:            s.Code,
			CarrierCode:     s.CarrierCode,
			Name:            s.Name,
			IsDomestic:      s.IsDomestic,
			IsInternational: s.IsInternational,
		})
	}
	return out
}

func toCarrierPackageResponses(packages []shipping.CarrierPackage) []CarrierPackageResponse {
	out := make([]CarrierPackageResponse, 0, len(packages))
	for _, p := range packages {
		out = append(out, CarrierPackageResponse{
			ID:              p.ID,
			Code:            p.Code,
			CarrierCode:     p.CarrierCode,
			Name:            p.Name,
			IsDomestic:      p.IsDomestic,
			IsInternational: p.IsInternational,
		})
	}
	return out
}
