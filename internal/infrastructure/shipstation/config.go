package shipstation

import "errors"

const (
	// DefaultAPIBaseURL is the ShipStation v1 API endpoint.
	DefaultAPIBaseURL = "https://ssapi.shipstation.com"
	// DefaultTimeoutSeconds matches the remote API's documented worst-case latency.
	DefaultTimeoutSeconds = 25
)

// Config holds credentials and label defaults for the ShipStation API client.
// Credentials may legitimately be absent at construction time (the settings
// screen may not be filled in yet); every request fails fast with
// shipping.ErrCredentialsMissing until both are present.
type Config struct {
	// APIKey and APISecret are sent as HTTP Basic auth.
	APIKey    string
	APISecret string
	// APIBaseURL is the base URL for the ShipStation API.
	APIBaseURL string
	// TimeoutSeconds is the per-request HTTP timeout.
	TimeoutSeconds int
	// Logging enables structured request/response logging.
	Logging bool

	// Label creation defaults, overridable per request.
	DefaultCarrierCode     string
	DefaultServiceCode     string
	DefaultConfirmation    string // none|delivery|signature|adult_signature
	DefaultInsurance       bool
	DefaultInsuranceAmount float64
}

// ErrConfigMissingBaseURL is returned when the base URL normalizes to empty.
var ErrConfigMissingBaseURL = errors.New("shipstation: api base url is required")

// Validate applies defaults and checks the configuration.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.DefaultConfirmation == "" {
		c.DefaultConfirmation = "none"
	}
	return nil
}

// HasCredentials reports whether both credential secrets are configured.
func (c *Config) HasCredentials() bool {
	return c.APIKey != "" && c.APISecret != ""
}
