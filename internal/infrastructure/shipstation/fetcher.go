package shipstation

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultPageSize = 100
	// maxAccumulatedItems bounds memory and guarantees termination even when
	// the remote API never signals completion.
	maxAccumulatedItems = 200000
)

// ListRequest describes one paginated listing call.
type ListRequest struct {
	// Path is the listing endpoint, e.g. /orders.
	Path string
	// ItemsField names the envelope key that carries the item array.
	ItemsField string
	// Params are caller-supplied query parameters; anything not in Allowed
	// is dropped, as are empty values.
	Params map[string]string
	// Allowed is the query-parameter whitelist for this endpoint.
	Allowed []string
	// AutoPaginate accumulates every page when true; otherwise the raw
	// first-page envelope is returned unmodified.
	AutoPaginate bool
}

// ListResult is the outcome of a listing fetch. When auto-pagination is off,
// Raw holds the unmodified first-page envelope and Items/Total are unset.
type ListResult struct {
	Items []map[string]any
	Total int
	Raw   map[string]any
}

// FetchList executes a listing request, following the envelope's pagination
// metadata until a terminating condition proves no more data remains. Any
// page failing fails the whole fetch; partial accumulation is discarded so a
// retry starts clean.
func (c *Client) FetchList(ctx context.Context, req ListRequest) (*ListResult, error) {
	query := url.Values{}
	for _, k := range req.Allowed {
		if v, ok := req.Params[k]; ok && v != "" {
			query.Set(k, v)
		}
	}

	if query.Get("page") == "" {
		query.Set("page", "1")
	}
	if query.Get("pageSize") == "" {
		query.Set("pageSize", strconv.Itoa(defaultPageSize))
	}

	first, err := c.RequestObject(ctx, http.MethodGet, req.Path, query, nil)
	if err != nil {
		return nil, err
	}
	if !req.AutoPaginate {
		return &ListResult{Raw: first}, nil
	}

	all := envelopeItems(first, req.ItemsField)
	total, totalKnown := envelopeInt(first, "total")
	pages, pagesKnown := envelopeInt(first, "pages")

	page := queryInt(query, "page")
	if p, ok := envelopeInt(first, "page"); ok {
		page = p
	}
	size := queryInt(query, "pageSize")
	if s, ok := envelopeInt(first, "pageSize"); ok {
		size = s
	}

	for {
		if pagesKnown && page >= pages {
			break
		}
		if !pagesKnown && totalKnown && len(all) >= total {
			break
		}

		page++
		query.Set("page", strconv.Itoa(page))

		resp, err := c.RequestObject(ctx, http.MethodGet, req.Path, query, nil)
		if err != nil {
			return nil, err
		}

		chunk := envelopeItems(resp, req.ItemsField)
		if len(chunk) == 0 {
			break
		}
		all = append(all, chunk...)

		if p, ok := envelopeInt(resp, "pages"); ok {
			pages, pagesKnown = p, true
		}
		if t, ok := envelopeInt(resp, "total"); ok {
			total, totalKnown = t, true
		}

		// Safety stops: hard accumulation ceiling, then the short-page signal.
		if len(all) >= maxAccumulatedItems {
			break
		}
		if len(chunk) < size {
			break
		}
	}

	if !totalKnown {
		total = len(all)
	}
	return &ListResult{Items: all, Total: total}, nil
}

// envelopeItems extracts the item array from a page envelope, tolerating a
// missing or malformed items field.
func envelopeItems(envelope map[string]any, field string) []map[string]any {
	raw, ok := envelope[field].([]any)
	if !ok {
		return nil
	}
	items := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if item, ok := v.(map[string]any); ok {
			items = append(items, item)
		}
	}
	return items
}

// envelopeInt reads a numeric envelope field, which arrives as a JSON number.
func envelopeInt(envelope map[string]any, key string) (int, bool) {
	switch v := envelope[key].(type) {
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

func queryInt(query url.Values, key string) int {
	n, _ := strconv.Atoi(query.Get(key))
	return n
}
