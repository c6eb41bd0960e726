package catalog

// DefaultWebhookEvent is the event a new webhook subscribes to.
const DefaultWebhookEvent = "import.completed"

// Product is a catalog row as returned by the backend.
type Product struct {
	ID          int64  `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Input returns the write payload that reproduces p.
func (p Product) Input() ProductInput {
	return ProductInput{
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
	}
}

// ProductInput is the body of product create/update requests.
type ProductInput struct {
	SKU         string `json:"sku" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// ProductPage is one page of GET /products.
type ProductPage struct {
	Items    []Product `json:"items"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Total    int       `json:"total"`
}

// Webhook is an outbound subscription notified on backend events.
type Webhook struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Event   string `json:"event"`
	Enabled bool   `json:"enabled"`
	// LastStatusCode is the status of the most recent delivery; -1 marks a
	// transport failure and nil means the hook never fired.
	LastStatusCode *int `json:"last_status_code,omitempty"`
	LastResponseMS *int `json:"last_response_ms,omitempty"`
}

// Input returns the write payload that reproduces w.
func (w Webhook) Input() WebhookInput {
	return WebhookInput{URL: w.URL, Event: w.Event, Enabled: w.Enabled}
}

// WebhookInput is the body of webhook create/update requests.
type WebhookInput struct {
	URL     string `json:"url" validate:"required"`
	Event   string `json:"event"`
	Enabled bool   `json:"enabled"`
}

// DeliveryResult is returned by POST /webhooks/{id}/test. Either the status
// and latency are set, or Error explains why the delivery did not happen.
type DeliveryResult struct {
	StatusCode *int   `json:"status_code,omitempty"`
	ResponseMS *int   `json:"response_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}
