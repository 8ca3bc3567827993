package shipstation

import "encoding/json"

// Remote record types for the ShipStation v1 API. Decoding is tolerant:
// absent fields default to zero values so downstream code never probes for
// missing keys. Structured sub-documents the sync path treats as opaque
// (addresses, weight, dimensions) stay as raw JSON.

// Order is a remote order as returned by /orders.
type Order struct {
	OrderID         int64           `json:"orderId"`
	OrderNumber     string          `json:"orderNumber"`
	OrderStatus     string          `json:"orderStatus"`
	OrderTotal      float64         `json:"orderTotal"`
	ShippingAmount  float64         `json:"shippingAmount"`
	CarrierCode     string          `json:"carrierCode"`
	ServiceCode     string          `json:"serviceCode"`
	PackageCode     string          `json:"packageCode"`
	CreateDate      string          `json:"createDate"`
	ModifyDate      string          `json:"modifyDate"`
	PaymentDate     string          `json:"paymentDate"`
	ShipDate        string          `json:"shipDate"`
	ShipTo          json.RawMessage `json:"shipTo,omitempty"`
	ShipFrom        json.RawMessage `json:"shipFrom,omitempty"`
	AdvancedOptions *OrderAdvanced  `json:"advancedOptions,omitempty"`
}

// OrderAdvanced carries the advanced-options block; some accounts deliver
// ship addresses here instead of on the order itself.
type OrderAdvanced struct {
	ShipTo   json.RawMessage `json:"shipTo,omitempty"`
	ShipFrom json.RawMessage `json:"shipFrom,omitempty"`
}

// shipTo returns the order's ship-to address, falling back to advanced options.
func (o *Order) shipTo() json.RawMessage {
	if len(o.ShipTo) > 0 {
		return o.ShipTo
	}
	if o.AdvancedOptions != nil {
		return o.AdvancedOptions.ShipTo
	}
	return nil
}

func (o *Order) shipFrom() json.RawMessage {
	if len(o.ShipFrom) > 0 {
		return o.ShipFrom
	}
	if o.AdvancedOptions != nil {
		return o.AdvancedOptions.ShipFrom
	}
	return nil
}

// OrderList is an auto-paginated order listing.
type OrderList struct {
	Orders []Order
	Total  int
}

// Shipment is a remote shipment as returned by /shipments.
type Shipment struct {
	ShipmentID     int64           `json:"shipmentId"`
	OrderID        int64           `json:"orderId"`
	OrderNumber    string          `json:"orderNumber"`
	ShipmentCost   float64         `json:"shipmentCost"`
	InsuranceCost  float64         `json:"insuranceCost"`
	TrackingNumber string          `json:"trackingNumber"`
	CarrierCode    string          `json:"carrierCode"`
	ServiceCode    string          `json:"serviceCode"`
	PackageCode    string          `json:"packageCode"`
	Voided         bool            `json:"voided"`
	VoidDate       string          `json:"voidDate"`
	ShipTo         json.RawMessage `json:"shipTo,omitempty"`
	Weight         json.RawMessage `json:"weight,omitempty"`
	Dimensions     json.RawMessage `json:"dimensions,omitempty"`
	CreateDate     string          `json:"createDate"`
	ModifyDate     string          `json:"modifyDate"`
	ShipDate       string          `json:"shipDate"`
	LabelID        int64           `json:"labelId"`
	LabelData      string          `json:"labelData"`
}

// ShipmentList is an auto-paginated shipment listing.
type ShipmentList struct {
	Shipments []Shipment
	Total     int
}

// Carrier is a remote carrier account as returned by /carriers.
type Carrier struct {
	Name                  string  `json:"name"`
	Code                  string  `json:"code"`
	AccountNumber         string  `json:"accountNumber"`
	Balance               float64 `json:"balance"`
	Primary               bool    `json:"primary"`
	RequiresFundedAccount bool    `json:"requiresFundedAccount"`
}

// CarrierService is a shipping service listed for one carrier.
type CarrierService struct {
	CarrierCode   string `json:"carrierCode"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Domestic      bool   `json:"domestic"`
	International bool   `json:"international"`
}

// CarrierPackage is a package type listed for one carrier.
type CarrierPackage struct {
	CarrierCode   string `json:"carrierCode"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Domestic      bool   `json:"domestic"`
	International bool   `json:"international"`
}

// Label is a compact label summary derived from a shipment.
type Label struct {
	ShipmentID      int64  `json:"shipmentId"`
	LabelID         int64  `json:"labelId"`
	CarrierCode     string `json:"carrierCode"`
	ServiceCode     string `json:"serviceCode"`
	TrackingNumber  string `json:"trackingNumber"`
	ShipDate        string `json:"shipDate"`
	LabelCreateDate string `json:"labelCreateDate"`
	LabelData       string `json:"labelData,omitempty"`
}

// decodeItems re-marshals generic envelope items into a typed slice,
// leaving unknown fields behind and defaulting absent ones.
func decodeItems(items []map[string]any, out any) error {
	buf, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}

// decodeValue converts one decoded JSON value into a typed record.
func decodeValue(v any, out any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}
