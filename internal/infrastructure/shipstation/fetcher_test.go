package shipstation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipsync/backend/internal/domain/shipping"
)

func pageOf(field string, start, count int) []map[string]any {
	items := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, map[string]any{"orderId": start + i})
	}
	return items
}

func TestFetchListWalksAllPages(t *testing.T) {
	requests := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page := r.URL.Query().Get("page")
		require.Equal(t, "100", r.URL.Query().Get("pageSize"))

		var start int
		fmt.Sscanf(page, "%d", &start)
		json.NewEncoder(w).Encode(map[string]any{
			"orders": pageOf("orders", (start-1)*100, 100),
			"total":  300,
			"page":   start,
			"pages":  3,
		})
	}))

	res, err := client.FetchList(context.Background(), ListRequest{
		Path:         "/orders",
		ItemsField:   "orders",
		AutoPaginate: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, requests)
	assert.Len(t, res.Items, 300)
	assert.Equal(t, 300, res.Total)
}

func TestFetchListStopsOnShortPage(t *testing.T) {
	requests := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		count := 100
		if requests == 2 {
			count = 17
		}
		json.NewEncoder(w).Encode(map[string]any{
			"shipments": pageOf("shipments", (requests-1)*100, count),
		})
	}))

	res, err := client.FetchList(context.Background(), ListRequest{
		Path:         "/shipments",
		ItemsField:   "shipments",
		AutoPaginate: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, requests)
	assert.Len(t, res.Items, 117)
	assert.Equal(t, 117, res.Total)
}

func TestFetchListStopsOnEmptyPage(t *testing.T) {
	requests := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		count := 100
		if requests == 2 {
			count = 0
		}
		json.NewEncoder(w).Encode(map[string]any{
			"orders": pageOf("orders", 0, count),
		})
	}))

	res, err := client.FetchList(context.Background(), ListRequest{
		Path:         "/orders",
		ItemsField:   "orders",
		AutoPaginate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	assert.Len(t, res.Items, 100)
}

func TestFetchListSinglePageReturnsRawEnvelope(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("pageSize"))
		json.NewEncoder(w).Encode(map[string]any{
			"orders": pageOf("orders", 25, 25),
			"total":  300,
			"page":   2,
			"pages":  12,
		})
	}))

	res, err := client.FetchList(context.Background(), ListRequest{
		Path:       "/orders",
		ItemsField: "orders",
		Params:     map[string]string{"page": "2", "pageSize": "25"},
		Allowed:    []string{"page", "pageSize"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Raw)
	assert.Equal(t, float64(12), res.Raw["pages"])
}

func TestFetchListFiltersDisallowedParams(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "shipped", q.Get("orderStatus"))
		assert.Empty(t, q.Get("dropTables"))
		assert.Empty(t, q.Get("blank"))
		json.NewEncoder(w).Encode(map[string]any{"orders": []any{}})
	}))

	_, err := client.FetchList(context.Background(), ListRequest{
		Path:       "/orders",
		ItemsField: "orders",
		Params: map[string]string{
			"orderStatus": "shipped",
			"dropTables":  "1",
			"blank":       "",
		},
		Allowed:      []string{"orderStatus", "blank", "page", "pageSize"},
		AutoPaginate: true,
	})
	require.NoError(t, err)
}

func TestListOrdersDecodesTypedRecords(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"orders": []map[string]any{{
				"orderId":        int64(11),
				"orderNumber":    "A-11",
				"orderStatus":    "shipped",
				"orderTotal":     55.5,
				"shippingAmount": 7.25,
				"createDate":     "2024-03-01T10:00:00.0000000",
			}},
			"total": 1,
			"pages": 1,
		})
	}))

	list, err := client.ListOrders(context.Background(), map[string]string{"orderStatus": "shipped"})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, int64(11), list.Orders[0].OrderID)
	assert.Equal(t, "A-11", list.Orders[0].OrderNumber)
	assert.Equal(t, 55.5, list.Orders[0].OrderTotal)
	assert.Equal(t, 1, list.Total)
}

func TestShipmentsByOrderPassesOrderID(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get("orderId"))
		json.NewEncoder(w).Encode(map[string]any{
			"shipments": []map[string]any{{
				"shipmentId":   int64(9),
				"orderId":      int64(42),
				"shipmentCost": 4.2,
				"voided":       false,
			}},
			"total": 1,
			"pages": 1,
		})
	}))

	shipments, err := client.ShipmentsByOrder(context.Background(), OrderRef{ID: 42})
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, int64(9), shipments[0].ShipmentID)
	assert.Equal(t, 4.2, shipments[0].ShipmentCost)
}

func TestFetchListFailsOnOversizedPage(t *testing.T) {
	requests := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(map[string]any{
			"orders": pageOf("orders", 0, 50),
			"total":  50,
		})
	}))
	client.maxResponseBytes = 128

	// An over-cap page must fail the fetch outright; returning an empty
	// result with a nil error would drop every item on the page.
	res, err := client.FetchList(context.Background(), ListRequest{
		Path:         "/orders",
		ItemsField:   "orders",
		AutoPaginate: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shipping.ErrResponseTooLarge)
	assert.Nil(t, res)
	assert.Equal(t, 1, requests)
}

func TestFetchListStopsAtAccumulationCeiling(t *testing.T) {
	requests := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// Pathological endpoint: always a full page, never a total or a
		// page count, so no terminating signal ever arrives.
		json.NewEncoder(w).Encode(map[string]any{
			"orders": pageOf("orders", (requests-1)*1000, 1000),
		})
	}))

	res, err := client.FetchList(context.Background(), ListRequest{
		Path:         "/orders",
		ItemsField:   "orders",
		Params:       map[string]string{"pageSize": "1000"},
		Allowed:      []string{"pageSize"},
		AutoPaginate: true,
	})
	require.NoError(t, err)

	assert.Len(t, res.Items, 200000)
	assert.Equal(t, 200000, res.Total)
	assert.Equal(t, 200, requests)
}
