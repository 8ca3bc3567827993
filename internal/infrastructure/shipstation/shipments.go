package shipstation

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shipsync/backend/internal/domain/shipping"
)

// shipmentListParams is the set of query parameters /shipments accepts.
var shipmentListParams = []string{
	"recipientName", "recipientCountryCode",
	"orderNumber", "orderId", "carrierCode", "serviceCode",
	"trackingNumber", "batchId",
	"createDateStart", "createDateEnd",
	"shipDateStart", "shipDateEnd",
	"voidDateStart", "voidDateEnd",
	"includeShipmentItems",
	"sortBy", "sortDir", "page", "pageSize",
}

// ListShipments fetches every shipment matching params, walking all pages.
func (c *Client) ListShipments(ctx context.Context, params map[string]string) (*ShipmentList, error) {
	res, err := c.FetchList(ctx, ListRequest{
		Path:         "/shipments",
		ItemsField:   "shipments",
		Params:       params,
		Allowed:      shipmentListParams,
		AutoPaginate: true,
	})
	if err != nil {
		return nil, err
	}
	var shipments []Shipment
	if err := decodeItems(res.Items, &shipments); err != nil {
		return nil, fmt.Errorf("decode shipments: %w", err)
	}
	return &ShipmentList{Shipments: shipments, Total: res.Total}, nil
}

// ShipmentsByOrder fetches the shipments belonging to one order.
func (c *Client) ShipmentsByOrder(ctx context.Context, ref OrderRef) ([]Shipment, error) {
	params := map[string]string{}
	switch {
	case ref.ID > 0:
		params["orderId"] = strconv.FormatInt(ref.ID, 10)
	case ref.Number != "":
		params["orderNumber"] = ref.Number
	default:
		return nil, shipping.ErrOrderRefRequired
	}
	list, err := c.ListShipments(ctx, params)
	if err != nil {
		return nil, err
	}
	return list.Shipments, nil
}

// LabelsByOrder returns the label summaries for one order's shipments.
// Label PDF data rides along only when includeData is set.
func (c *Client) LabelsByOrder(ctx context.Context, ref OrderRef, includeData bool) ([]Label, error) {
	shipments, err := c.ShipmentsByOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	return labelsFromShipments(shipments, includeData), nil
}

// VoidLabel voids the label of one shipment.
func (c *Client) VoidLabel(ctx context.Context, shipmentID int64) (map[string]any, error) {
	if shipmentID == 0 {
		return nil, shipping.ErrShipmentIDRequired
	}
	payload := map[string]any{"shipmentId": shipmentID}
	return c.RequestObject(ctx, http.MethodPost, "/shipments/voidlabel", nil, payload)
}

// labelsFromShipments filters shipments down to those carrying a label.
func labelsFromShipments(shipments []Shipment, includeData bool) []Label {
	labels := make([]Label, 0, len(shipments))
	for _, s := range shipments {
		if s.LabelID == 0 && s.LabelData == "" {
			continue
		}
		l := Label{
			ShipmentID:      s.ShipmentID,
			LabelID:         s.LabelID,
			CarrierCode:     s.CarrierCode,
			ServiceCode:     s.ServiceCode,
			TrackingNumber:  s.TrackingNumber,
			ShipDate:        s.ShipDate,
			LabelCreateDate: s.CreateDate,
		}
		if includeData {
			l.LabelData = s.LabelData
		}
		labels = append(labels, l)
	}
	return labels
}
