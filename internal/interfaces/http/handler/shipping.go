package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appshipping "github.com/shipsync/backend/internal/application/shipping"
	"github.com/shipsync/backend/internal/domain/shipping"
	"github.com/shipsync/backend/internal/interfaces/http/dto"
)

// ShippingHandler serves read-only queries against the locally mirrored
// orders, shipments and carriers.
type ShippingHandler struct {
	BaseHandler
	queries *appshipping.QueryService
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(queries *appshipping.QueryService) *ShippingHandler {
	return &ShippingHandler{queries: queries}
}

type listOrdersRequest struct {
	dto.ListRequest
	ShipOrderID int64    `form:"ship_order_id"`
	OrderNumber string   `form:"order_number"`
	EntryID     int64    `form:"entry_id"`
	Status      []string `form:"status"`
	CreatedFrom string   `form:"created_from"`
	CreatedTo   string   `form:"created_to"`
	PaidFrom    string   `form:"paid_from"`
	PaidTo      string   `form:"paid_to"`
}

type listShipmentsRequest struct {
	dto.ListRequest
	ShipOrderID    int64  `form:"ship_order_id"`
	OrderNumber    string `form:"order_number"`
	EntryID        int64  `form:"entry_id"`
	TrackingNumber string `form:"tracking_number"`
	IsVoided       *bool  `form:"is_voided"`
	CarrierCode    string `form:"carrier_code"`
	ServiceCode    string `form:"service_code"`
	PackageCode    string `form:"package_code"`
	CreatedFrom    string `form:"created_from"`
	CreatedTo      string `form:"created_to"`
	ShippedFrom    string `form:"shipped_from"`
	ShippedTo      string `form:"shipped_to"`
}

type listCarriersRequest struct {
	dto.ListRequest
	Code          string   `form:"code"`
	Name          string   `form:"name"`
	AccountNumber string   `form:"account_number"`
	IsPrimary     *bool    `form:"is_primary"`
	IsReqFunded   *bool    `form:"is_req_funded"`
	MinBalance    *float64 `form:"min_balance"`
	MaxBalance    *float64 `form:"max_balance"`
}

// parseTimeParam parses an optional RFC3339 query value.
func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toListOptions(req dto.ListRequest) shipping.ListOptions {
	return shipping.ListOptions{
		OrderBy: req.OrderBy,
		Order:   req.OrderDir,
		Page:    req.Page,
		PerPage: req.PageSize,
	}
}

// ListOrders returns mirrored orders matching the query filters
func (h *ShippingHandler) ListOrders(c *gin.Context) {
	req := listOrdersRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := shipping.OrderFilter{
		ShipOrderID: req.ShipOrderID,
		OrderNumber: req.OrderNumber,
		EntryID:     req.EntryID,
		Statuses:    req.Status,
		Search:      req.Search,
	}
	var err error
	if filter.CreatedFrom, err = parseTimeParam(req.CreatedFrom); err != nil {
		h.BadRequest(c, "Invalid created_from, expected RFC3339")
		return
	}
	if filter.CreatedTo, err = parseTimeParam(req.CreatedTo); err != nil {
		h.BadRequest(c, "Invalid created_to, expected RFC3339")
		return
	}
	if filter.PaidFrom, err = parseTimeParam(req.PaidFrom); err != nil {
		h.BadRequest(c, "Invalid paid_from, expected RFC3339")
		return
	}
	if filter.PaidTo, err = parseTimeParam(req.PaidTo); err != nil {
		h.BadRequest(c, "Invalid paid_to, expected RFC3339")
		return
	}

	orders, err := h.queries.ListOrders(c.Request.Context(), filter, toListOptions(req.ListRequest))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toOrderResponses(orders), int64(len(orders)), req.Page, req.PageSize)
}

// resolveOrderRef splits a path reference into the id kinds GetOrder accepts.
// A numeric ref is a remote order id by default; by=entry_id reads it as the
// linked entry id, and non-numeric refs are order numbers.
func resolveOrderRef(c *gin.Context) (shipOrderID, entryID int64, orderNumber string) {
	ref := c.Param("ref")
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0, 0, ref
	}
	if c.Query("by") == "entry_id" {
		return 0, id, ""
	}
	return id, 0, ""
}

// GetOrder returns one mirrored order by remote id, order number or entry id
func (h *ShippingHandler) GetOrder(c *gin.Context) {
	shipOrderID, entryID, orderNumber := resolveOrderRef(c)
	order, err := h.queries.GetOrder(c.Request.Context(), shipOrderID, entryID, orderNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(*order))
}

// GetOrderShipments returns the mirrored shipments of one order
func (h *ShippingHandler) GetOrderShipments(c *gin.Context) {
	shipOrderID, _, orderNumber := resolveOrderRef(c)
	shipments, err := h.queries.ShipmentsForOrder(c.Request.Context(), shipOrderID, orderNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toShipmentResponses(shipments))
}

// ListShipments returns mirrored shipments matching the query filters
func (h *ShippingHandler) ListShipments(c *gin.Context) {
	req := listShipmentsRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := shipping.ShipmentFilter{
		ShipOrderID:    req.ShipOrderID,
		OrderNumber:    req.OrderNumber,
		EntryID:        req.EntryID,
		TrackingNumber: req.TrackingNumber,
		IsVoided:       req.IsVoided,
		CarrierCode:    req.CarrierCode,
		ServiceCode:    req.ServiceCode,
		PackageCode:    req.PackageCode,
		Search:         req.Search,
	}
	var err error
	if filter.CreatedFrom, err = parseTimeParam(req.CreatedFrom); err != nil {
		h.BadRequest(c, "Invalid created_from, expected RFC3339")
		return
	}
	if filter.CreatedTo, err = parseTimeParam(req.CreatedTo); err != nil {
		h.BadRequest(c, "Invalid created_to, expected RFC3339")
		return
	}
	if filter.ShippedFrom, err = parseTimeParam(req.ShippedFrom); err != nil {
		h.BadRequest(c, "Invalid shipped_from, expected RFC3339")
		return
	}
	if filter.ShippedTo, err = parseTimeParam(req.ShippedTo); err != nil {
		h.BadRequest(c, "Invalid shipped_to, expected RFC3339")
		return
	}

	shipments, err := h.queries.ListShipments(c.Request.Context(), filter, toListOptions(req.ListRequest))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toShipmentResponses(shipments), int64(len(shipments)), req.Page, req.PageSize)
}

// GetShipmentByTracking returns the shipment carrying a tracking number
func (h *ShippingHandler) GetShipmentByTracking(c *gin.Context) {
	tracking := c.Param("number")
	shipment, err := h.queries.GetShipmentByTracking(c.Request.Context(), tracking)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toShipmentResponse(*shipment))
}

// ListCarriers returns mirrored carrier accounts
func (h *ShippingHandler) ListCarriers(c *gin.Context) {
	req := listCarriersRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := shipping.CarrierFilter{
		Code:          req.Code,
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		IsPrimary:     req.IsPrimary,
		IsReqFunded:   req.IsReqFunded,
		MinBalance:    req.MinBalance,
		MaxBalance:    req.MaxBalance,
		Search:        req.Search,
	}

	carriers, err := h.queries.ListCarriers(c.Request.Context(), filter, toListOptions(req.ListRequest))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toCarrierResponses(carriers), int64(len(carriers)), req.Page, req.PageSize)
}

// GetCarrier returns one carrier with its services and package types
func (h *ShippingHandler) GetCarrier(c *gin.Context) {
	code := c.Param("code")
	carrier, services, packages, err := h.queries.GetCarrier(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CarrierDetailResponse{
		Carrier:  toCarrierResponse(*carrier),
		Services: toCarrierServiceResponses(services),
		Packages: toCarrierPackageResponses(packages),
	})
}

// RegisterRoutes registers shipping query routes on the given router group
func (h *ShippingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/shipping")
	{
		orders := group.Group("/orders")
		{
			orders.GET("", h.ListOrders)
			orders.GET("/:ref", h.GetOrder)
			orders.GET("/:ref/shipments", h.GetOrderShipments)
		}

		shipments := group.Group("/shipments")
		{
			shipments.GET("", h.ListShipments)
			shipments.GET("/tracking/:number", h.GetShipmentByTracking)
		}

		carriers := group.Group("/carriers")
		{
			carriers.GET("", h.ListCarriers)
			carriers.GET("/:code", h.GetCarrier)
		}
	}
}
