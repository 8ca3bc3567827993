package shipstation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shipsync/backend/internal/domain/shipping"
)

// orderListParams is the set of query parameters /orders accepts.
var orderListParams = []string{
	"orderNumber", "customerName", "itemKeyword", "orderStatus",
	"paymentStatus", "storeId", "tagId",
	"orderDateStart", "orderDateEnd",
	"createDateStart", "createDateEnd",
	"modifyDateStart", "modifyDateEnd",
	"paymentDateStart", "paymentDateEnd",
	"sortBy", "sortDir", "page", "pageSize",
}

// OrderRef identifies a remote order by its numeric id or its order number.
type OrderRef struct {
	ID     int64
	Number string
}

// LabelRequest asks for a label against an existing order. Zero-valued
// fields fall back to the configured defaults.
type LabelRequest struct {
	Order        OrderRef
	CarrierCode  string
	ServiceCode  string
	PackageCode  string
	Confirmation string
	ShipDate     string
	WeightValue  float64
	WeightUnits  string
	TestLabel    bool
}

// ListOrders fetches every order matching params, walking all result pages.
func (c *Client) ListOrders(ctx context.Context, params map[string]string) (*OrderList, error) {
	res, err := c.FetchList(ctx, ListRequest{
		Path:         "/orders",
		ItemsField:   "orders",
		Params:       params,
		Allowed:      orderListParams,
		AutoPaginate: true,
	})
	if err != nil {
		return nil, err
	}
	var orders []Order
	if err := decodeItems(res.Items, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return &OrderList{Orders: orders, Total: res.Total}, nil
}

// ListOrdersPage fetches one raw page of /orders without pagination.
func (c *Client) ListOrdersPage(ctx context.Context, params map[string]string) (map[string]any, error) {
	res, err := c.FetchList(ctx, ListRequest{
		Path:       "/orders",
		ItemsField: "orders",
		Params:     params,
		Allowed:    orderListParams,
	})
	if err != nil {
		return nil, err
	}
	return res.Raw, nil
}

// GetOrderByID fetches one order by its ShipStation id.
func (c *Client) GetOrderByID(ctx context.Context, id int64) (*Order, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/orders/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return nil, err
	}
	var order Order
	if err := decodeValue(raw, &order); err != nil {
		return nil, fmt.Errorf("decode order %d: %w", id, err)
	}
	return &order, nil
}

// FindOrdersByNumber fetches the orders whose order number matches exactly.
func (c *Client) FindOrdersByNumber(ctx context.Context, number string) ([]Order, error) {
	query := url.Values{}
	query.Set("orderNumber", number)
	raw, err := c.RequestObject(ctx, http.MethodGet, "/orders", query, nil)
	if err != nil {
		return nil, err
	}
	var orders []Order
	if err := decodeItems(envelopeItems(raw, "orders"), &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	// The endpoint matches order numbers loosely, keep exact hits only.
	exact := orders[:0]
	for _, o := range orders {
		if o.OrderNumber == number {
			exact = append(exact, o)
		}
	}
	return exact, nil
}

// GetOrder resolves an order reference, preferring the numeric id.
func (c *Client) GetOrder(ctx context.Context, ref OrderRef) (*Order, error) {
	if ref.ID > 0 {
		return c.GetOrderByID(ctx, ref.ID)
	}
	if ref.Number == "" {
		return nil, shipping.ErrOrderRefRequired
	}
	orders, err := c.FindOrdersByNumber(ctx, ref.Number)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, shipping.ErrOrderNotFound
	}
	return &orders[0], nil
}

// CreateLabelForOrder buys a label for an existing order. Carrier, service,
// package and confirmation fall back to the order's own values and then to
// the configured defaults; no remote call is made when neither yields a
// carrier and service pair.
func (c *Client) CreateLabelForOrder(ctx context.Context, req LabelRequest) (map[string]any, error) {
	order, err := c.GetOrder(ctx, req.Order)
	if err != nil {
		return nil, err
	}

	carrier := firstNonEmpty(req.CarrierCode, order.CarrierCode, c.config.DefaultCarrierCode)
	service := firstNonEmpty(req.ServiceCode, order.ServiceCode, c.config.DefaultServiceCode)
	if carrier == "" || service == "" {
		return nil, shipping.ErrLabelDefaultsMissing
	}

	payload := map[string]any{
		"orderId":      order.OrderID,
		"carrierCode":  carrier,
		"serviceCode":  service,
		"packageCode":  firstNonEmpty(req.PackageCode, order.PackageCode, "package"),
		"confirmation": firstNonEmpty(req.Confirmation, c.config.DefaultConfirmation),
		"shipDate":     firstNonEmpty(req.ShipDate, order.ShipDate),
		"testLabel":    req.TestLabel,
	}
	if req.WeightValue > 0 {
		payload["weight"] = map[string]any{
			"value": req.WeightValue,
			"units": firstNonEmpty(req.WeightUnits, "ounces"),
		}
	}
	if shipTo := order.shipTo(); len(shipTo) > 0 {
		payload["shipTo"] = json.RawMessage(shipTo)
	}
	if shipFrom := order.shipFrom(); len(shipFrom) > 0 {
		payload["shipFrom"] = json.RawMessage(shipFrom)
	}
	if c.config.DefaultInsurance && c.config.DefaultInsuranceAmount > 0 {
		payload["insuranceOptions"] = map[string]any{
			"provider":       "carrier",
			"insureShipment": true,
			"insuredValue":   c.config.DefaultInsuranceAmount,
		}
	}

	return c.RequestObject(ctx, http.MethodPost, "/orders/createlabelfororder", nil, payload)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
