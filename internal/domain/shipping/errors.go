package shipping

import (
	"errors"
	"fmt"
)

// Errors surfaced by the remote API boundary and sync pipeline.
var (
	// ErrCredentialsMissing indicates the API key or secret is not configured.
	// No network I/O is attempted when this is returned.
	ErrCredentialsMissing = errors.New("shipstation: api credentials are missing")
	// ErrResponseTooLarge indicates a remote response body exceeded the
	// client's size cap. The body is discarded rather than truncated, so a
	// partial page can never be mistaken for a complete one.
	ErrResponseTooLarge = errors.New("shipstation: response body exceeds size limit")
	// ErrOrderRefRequired indicates neither order id nor order number was supplied.
	ErrOrderRefRequired = errors.New("shipstation: provide order id or order number")
	// ErrCarrierCodeRequired indicates a carrier code was not supplied.
	ErrCarrierCodeRequired = errors.New("shipstation: carrier code is required")
	// ErrShipmentIDRequired indicates a shipment id was not supplied.
	ErrShipmentIDRequired = errors.New("shipstation: shipment id is required")
	// ErrLabelDefaultsMissing indicates carrier/service codes are neither
	// configured as defaults nor passed as overrides.
	ErrLabelDefaultsMissing = errors.New("shipstation: carrier and service codes are required")
	// ErrOrderNotFound indicates no order exists for the given reference,
	// locally or remotely depending on the caller.
	ErrOrderNotFound = errors.New("shipstation: order not found")
	// ErrShipmentNotFound indicates no local shipment matches the lookup.
	ErrShipmentNotFound = errors.New("shipstation: shipment not found")
	// ErrCarrierNotFound indicates no local carrier matches the lookup.
	ErrCarrierNotFound = errors.New("shipstation: carrier not found")
)

// TransportError wraps a network-level failure (DNS, timeout, reset).
// The request never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("shipstation: transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteAPIError is an HTTP >= 400 response from the remote API.
// Message carries the API's human-readable Message field when the body
// decoded as JSON; RawBody preserves the undecoded payload.
type RemoteAPIError struct {
	Status  int
	Message string
	RawBody string
}

func (e *RemoteAPIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("shipstation: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("shipstation: HTTP %d", e.Status)
}

// IsRemoteStatus reports whether err is a RemoteAPIError with the given status.
func IsRemoteStatus(err error, status int) bool {
	var apiErr *RemoteAPIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
