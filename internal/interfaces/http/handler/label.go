package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appshipping "github.com/shipsync/backend/internal/application/shipping"
	"github.com/shipsync/backend/internal/infrastructure/shipstation"
)

// LabelHandler buys, voids and lists shipping labels through the remote API.
type LabelHandler struct {
	BaseHandler
	labels *appshipping.LabelService
}

// NewLabelHandler creates a new LabelHandler
func NewLabelHandler(labels *appshipping.LabelService) *LabelHandler {
	return &LabelHandler{labels: labels}
}

// createLabelRequest asks for a label against an existing order. Unset
// fields fall back to the order's values and the configured defaults.
type createLabelRequest struct {
	OrderID      int64   `json:"order_id"`
	OrderNumber  string  `json:"order_number"`
	CarrierCode  string  `json:"carrier_code"`
	ServiceCode  string  `json:"service_code"`
	PackageCode  string  `json:"package_code"`
	Confirmation string  `json:"confirmation"`
	ShipDate     string  `json:"ship_date"`
	WeightValue  float64 `json:"weight_value" binding:"omitempty,min=0"`
	WeightUnits  string  `json:"weight_units" binding:"omitempty,oneof=ounces pounds grams"`
	TestLabel    bool    `json:"test_label"`
}

// CreateLabel buys a label for an order and returns the remote response,
// label PDF data included.
func (h *LabelHandler) CreateLabel(c *gin.Context) {
	var req createLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.OrderID == 0 && req.OrderNumber == "" {
		h.BadRequest(c, "order_id or order_number is required")
		return
	}

	res, err := h.labels.CreateLabel(c.Request.Context(), shipstation.LabelRequest{
		Order:        shipstation.OrderRef{ID: req.OrderID, Number: req.OrderNumber},
		CarrierCode:  req.CarrierCode,
		ServiceCode:  req.ServiceCode,
		PackageCode:  req.PackageCode,
		Confirmation: req.Confirmation,
		ShipDate:     req.ShipDate,
		WeightValue:  req.WeightValue,
		WeightUnits:  req.WeightUnits,
		TestLabel:    req.TestLabel,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, res)
}

// VoidLabel voids the label of one shipment
func (h *LabelHandler) VoidLabel(c *gin.Context) {
	shipmentID, err := strconv.ParseInt(c.Param("shipmentID"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid shipment id")
		return
	}

	res, err := h.labels.VoidLabel(c.Request.Context(), shipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, res)
}

type listLabelsRequest struct {
	OrderID     int64  `form:"order_id"`
	OrderNumber string `form:"order_number"`
	IncludeData bool   `form:"include_data"`
}

// ListLabels returns the label summaries of one order's shipments
func (h *LabelHandler) ListLabels(c *gin.Context) {
	var req listLabelsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	ref := shipstation.OrderRef{ID: req.OrderID, Number: req.OrderNumber}
	labels, err := h.labels.ListLabels(c.Request.Context(), ref, req.IncludeData)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, labels)
}

// RegisterRoutes registers label routes on the given router group
func (h *LabelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	labels := rg.Group("/shipping/labels")
	{
		labels.GET("", h.ListLabels)
		labels.POST("", h.CreateLabel)
		labels.POST("/:shipmentID/void", h.VoidLabel)
	}
}
