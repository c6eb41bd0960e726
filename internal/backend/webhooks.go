package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// ListWebhooks fetches every configured webhook.
func (c *Client) ListWebhooks(ctx context.Context) ([]catalog.Webhook, error) {
	var hooks []catalog.Webhook
	if err := c.do(ctx, http.MethodGet, "/webhooks", nil, nil, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

// CreateWebhook issues POST /webhooks.
func (c *Client) CreateWebhook(ctx context.Context, in catalog.WebhookInput) (catalog.Webhook, error) {
	var out catalog.Webhook
	if err := c.do(ctx, http.MethodPost, "/webhooks", nil, in, &out); err != nil {
		return catalog.Webhook{}, err
	}
	return out, nil
}

// UpdateWebhook issues PUT /webhooks/{id}.
func (c *Client) UpdateWebhook(ctx context.Context, id int64, in catalog.WebhookInput) (catalog.Webhook, error) {
	var out catalog.Webhook
	if err := c.do(ctx, http.MethodPut, webhookPath(id), nil, in, &out); err != nil {
		return catalog.Webhook{}, err
	}
	return out, nil
}

// DeleteWebhook issues DELETE /webhooks/{id}.
func (c *Client) DeleteWebhook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, webhookPath(id), nil, nil, nil)
}

// TestWebhook asks the backend to fire a test delivery for the webhook.
func (c *Client) TestWebhook(ctx context.Context, id int64) (catalog.DeliveryResult, error) {
	var out catalog.DeliveryResult
	if err := c.do(ctx, http.MethodPost, webhookPath(id)+"/test", nil, nil, &out); err != nil {
		return catalog.DeliveryResult{}, err
	}
	return out, nil
}

func webhookPath(id int64) string {
	return "/webhooks/" + strconv.FormatInt(id, 10)
}
