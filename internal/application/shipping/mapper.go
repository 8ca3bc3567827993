package shipping

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shipsync/backend/internal/domain/shipping"
	"github.com/shipsync/backend/internal/infrastructure/shipstation"
)

// storedTimeLayout is the datetime format written to the local store.
const storedTimeLayout = "2006-01-02 15:04:05"

// remoteTimeLayouts are the timestamp shapes the remote API has been seen
// to emit. They are tried in order.
var remoteTimeLayouts = []string{
	"2006-01-02T15:04:05.0000000",
	"2006-01-02T15:04:05.9999999Z07:00",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseRemoteTime normalizes a remote timestamp to the stored layout.
// Unparseable or empty input maps to nil, which persists as NULL.
func parseRemoteTime(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range remoteTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(storedTimeLayout)
		}
	}
	return nil
}

// rawJSONText serializes an opaque remote sub-document for text storage.
func rawJSONText(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// OrderRow maps a remote order onto local column names. entryID comes from
// the local linkage lookup and is zero for unlinked orders.
func OrderRow(o shipstation.Order, entryID int64) shipping.Row {
	return shipping.Row{
		"ship_order_id":  o.OrderID,
		"order_number":   o.OrderNumber,
		"entry_id":       entryID,
		"status":         o.OrderStatus,
		"total":          o.OrderTotal,
		"shipping_total": o.ShippingAmount,
		"carrier_code":   o.CarrierCode,
		"service_code":   o.ServiceCode,
		"package_code":   o.PackageCode,
		"created_at":     parseRemoteTime(o.CreateDate),
		"updated_at":     parseRemoteTime(o.ModifyDate),
		"paid_at":        parseRemoteTime(o.PaymentDate),
		"ship_date":      parseRemoteTime(o.ShipDate),
	}
}

// ShipmentRow maps a remote shipment onto local column names.
func ShipmentRow(s shipstation.Shipment, entryID int64) shipping.Row {
	return shipping.Row{
		"shipment_id":     s.ShipmentID,
		"ship_order_id":   s.OrderID,
		"order_number":    s.OrderNumber,
		"entry_id":        entryID,
		"shipment_cost":   s.ShipmentCost,
		"insurance_cost":  s.InsuranceCost,
		"tracking_number": s.TrackingNumber,
		"carrier_code":    s.CarrierCode,
		"service_code":    s.ServiceCode,
		"package_code":    s.PackageCode,
		"is_voided":       s.Voided,
		"voided_at":       parseRemoteTime(s.VoidDate),
		"ship_to":         rawJSONText(s.ShipTo),
		"weight":          rawJSONText(s.Weight),
		"dimensions":      rawJSONText(s.Dimensions),
		"created_at":      parseRemoteTime(s.CreateDate),
		"updated_at":      parseRemoteTime(s.ModifyDate),
		"shipped_at":      parseRemoteTime(s.ShipDate),
	}
}

// CarrierRow maps a remote carrier onto local column names.
func CarrierRow(c shipstation.Carrier) shipping.Row {
	return shipping.Row{
		"code":           c.Code,
		"name":           c.Name,
		"account_number": c.AccountNumber,
		"balance":        c.Balance,
		"is_primary":     c.Primary,
		"is_req_funded":  c.RequiresFundedAccount,
	}
}

// ServiceRow maps a remote carrier service onto local column names.
// carrierCode backfills the column when the remote record omits it.
func ServiceRow(s shipstation.CarrierService, carrierCode string) shipping.Row {
	code := s.CarrierCode
	if code == "" {
		code = carrierCode
	}
	return shipping.Row{
		"carrier_code":     code,
		"code":             s.Code,
		"name":             s.Name,
		"is_domestic":      s.Domestic,
		"is_international": s.International,
	}
}

// PackageRow maps a remote carrier package type onto local column names.
func PackageRow(p shipstation.CarrierPackage, carrierCode string) shipping.Row {
	code := p.CarrierCode
	if code == "" {
		code = carrierCode
	}
	return shipping.Row{
		"carrier_code":     code,
		"code":             p.Code,
		"name":             p.Name,
		"is_domestic":      p.Domestic,
		"is_international": p.International,
	}
}
