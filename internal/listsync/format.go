package listsync

import (
	"strconv"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// YesNo renders a boolean the way list cells display it.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ProductColumns are the product table headers.
var ProductColumns = []string{"ID", "SKU", "Name", "Active", "Description"}

// FormatProduct renders a product row.
func FormatProduct(p catalog.Product) []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.SKU,
		p.Name,
		YesNo(p.Active),
		p.Description,
	}
}

// WebhookColumns are the webhook table headers.
var WebhookColumns = []string{"ID", "URL", "Event", "Enabled", "Last Delivery"}

// FormatWebhook renders a webhook row.
func FormatWebhook(w catalog.Webhook) []string {
	return []string{
		strconv.FormatInt(w.ID, 10),
		w.URL,
		w.Event,
		YesNo(w.Enabled),
		LastDelivery(w.LastStatusCode, w.LastResponseMS),
	}
}

// LastDelivery renders "<code> • <ms>ms", using "-" for an unknown latency,
// or "-" when the hook has no recorded delivery.
func LastDelivery(code, ms *int) string {
	if code == nil || *code == 0 {
		return "-"
	}
	latency := "-"
	if ms != nil && *ms != 0 {
		latency = strconv.Itoa(*ms)
	}
	return strconv.Itoa(*code) + " • " + latency + "ms"
}
