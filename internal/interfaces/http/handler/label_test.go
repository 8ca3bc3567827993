package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appshipping "github.com/shipsync/backend/internal/application/shipping"
	"github.com/shipsync/backend/internal/domain/shipping"
	"github.com/shipsync/backend/internal/infrastructure/shipstation"
	"github.com/shipsync/backend/internal/interfaces/http/dto"
)

type stubLabelAPI struct {
	createReq   shipstation.LabelRequest
	createRes   map[string]any
	createErr   error
	voidedID    int64
	voidErr     error
	labels      []shipstation.Label
	includeData bool
}

func (s *stubLabelAPI) CreateLabelForOrder(_ context.Context, req shipstation.LabelRequest) (map[string]any, error) {
	s.createReq = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createRes, nil
}

func (s *stubLabelAPI) VoidLabel(_ context.Context, shipmentID int64) (map[string]any, error) {
	s.voidedID = shipmentID
	if s.voidErr != nil {
		return nil, s.voidErr
	}
	return map[string]any{"approved": true}, nil
}

func (s *stubLabelAPI) LabelsByOrder(_ context.Context, _ shipstation.OrderRef, includeData bool) ([]shipstation.Label, error) {
	s.includeData = includeData
	return s.labels, nil
}

func (s *stubLabelAPI) ShipmentsByOrder(_ context.Context, _ shipstation.OrderRef) ([]shipstation.Shipment, error) {
	return nil, nil
}

func newLabelTestEnv(api *stubLabelAPI) *gin.Engine {
	labels := appshipping.NewLabelService(api, &stubShipmentRepo{}, nil, nil)

	engine := gin.New()
	apiGroup := engine.Group("/api/v1")
	NewLabelHandler(labels).RegisterRoutes(apiGroup)
	return engine
}

func doLabelRequest(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	var res dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return w, res
}

func TestLabelHandlerCreateLabel(t *testing.T) {
	api := &stubLabelAPI{createRes: map[string]any{"labelData": "JVBERi0=", "trackingNumber": "1Z999"}}
	engine := newLabelTestEnv(api)

	body := map[string]any{
		"order_id":     99001,
		"carrier_code": "stamps_com",
		"service_code": "usps_priority_mail",
		"weight_value": 12.5,
		"weight_units": "ounces",
		"test_label":   true,
	}
	w, res := doLabelRequest(t, engine, http.MethodPost, "/api/v1/shipping/labels", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, res.Success)
	data := res.Data.(map[string]any)
	assert.Equal(t, "1Z999", data["trackingNumber"])

	assert.Equal(t, int64(99001), api.createReq.Order.ID)
	assert.Equal(t, "stamps_com", api.createReq.CarrierCode)
	assert.Equal(t, 12.5, api.createReq.WeightValue)
	assert.True(t, api.createReq.TestLabel)
}

func TestLabelHandlerCreateLabelMissingRef(t *testing.T) {
	engine := newLabelTestEnv(&stubLabelAPI{})

	w, res := doLabelRequest(t, engine, http.MethodPost, "/api/v1/shipping/labels", map[string]any{
		"carrier_code": "stamps_com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, res.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, res.Error.Code)
}

func TestLabelHandlerCreateLabelDefaultsMissing(t *testing.T) {
	api := &stubLabelAPI{createErr: shipping.ErrLabelDefaultsMissing}
	engine := newLabelTestEnv(api)

	w, res := doLabelRequest(t, engine, http.MethodPost, "/api/v1/shipping/labels", map[string]any{
		"order_number": "1001",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, res.Error)
	assert.Equal(t, dto.ErrCodeInvalidState, res.Error.Code)
}

func TestLabelHandlerCreateLabelRemoteError(t *testing.T) {
	api := &stubLabelAPI{createErr: &shipping.RemoteAPIError{Status: 500, Message: "Internal server error"}}
	engine := newLabelTestEnv(api)

	w, res := doLabelRequest(t, engine, http.MethodPost, "/api/v1/shipping/labels", map[string]any{
		"order_id": 99001,
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	require.NotNil(t, res.Error)
	assert.Equal(t, dto.ErrCodeRemoteAPI, res.Error.Code)
}

func TestLabelHandlerVoidLabel(t *testing.T) {
	api := &stubLabelAPI{}
	engine := newLabelTestEnv(api)

	w, res := doLabelRequest(t, engine, http.MethodPost, "/api/v1/shipping/labels/7001/void", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.Success)
	assert.Equal(t, int64(7001), api.voidedID)
}

func TestLabelHandlerVoidLabelBadID(t *testing.T) {
	engine := newLabelTestEnv(&stubLabelAPI{})

	w, res := doLabelRequest(t, engine, http.MethodPost, "/api/v1/shipping/labels/abc/void", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, res.Error)
}

func TestLabelHandlerListLabels(t *testing.T) {
	api := &stubLabelAPI{labels: []shipstation.Label{
		{ShipmentID: 7001, TrackingNumber: "1Z999", CarrierCode: "stamps_com"},
	}}
	engine := newLabelTestEnv(api)

	w, res := doLabelRequest(t, engine, http.MethodGet, "/api/v1/shipping/labels?order_id=99001&include_data=true", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, api.includeData)

	data := res.Data.([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "1Z999", data[0].(map[string]any)["trackingNumber"])
}
