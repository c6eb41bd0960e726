package editor

import (
	"context"

	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// WebhookAPI is the backend surface webhook editing needs.
type WebhookAPI interface {
	CreateWebhook(ctx context.Context, in catalog.WebhookInput) (catalog.Webhook, error)
	UpdateWebhook(ctx context.Context, id int64, in catalog.WebhookInput) (catalog.Webhook, error)
	DeleteWebhook(ctx context.Context, id int64) error
	TestWebhook(ctx context.Context, id int64) (catalog.DeliveryResult, error)
}

type webhookGateway struct {
	api WebhookAPI
}

func (g webhookGateway) Create(ctx context.Context, in catalog.WebhookInput) (catalog.Webhook, error) {
	return g.api.CreateWebhook(ctx, in)
}

func (g webhookGateway) Update(ctx context.Context, id int64, in catalog.WebhookInput) (catalog.Webhook, error) {
	return g.api.UpdateWebhook(ctx, id, in)
}

func (g webhookGateway) Delete(ctx context.Context, id int64) error {
	return g.api.DeleteWebhook(ctx, id)
}

// WebhookBridge edits webhook subscriptions and fires test deliveries.
type WebhookBridge struct {
	*Bridge[catalog.Webhook, catalog.WebhookInput]
	api WebhookAPI
}

// NewWebhookBridge wires webhook editing to api, reloading via reload.
func NewWebhookBridge(api WebhookAPI, reload Reloader, v *Validator, logger *zap.Logger) (*WebhookBridge, error) {
	b, err := NewBridge(Config[catalog.Webhook, catalog.WebhookInput]{
		Noun:    "webhook",
		Gateway: webhookGateway{api: api},
		Reload:  reload,
		ToDraft: func(w catalog.Webhook) Draft[catalog.WebhookInput] {
			return Draft[catalog.WebhookInput]{ID: w.ID, Fields: w.Input()}
		},
		Blank: func() catalog.WebhookInput {
			return catalog.WebhookInput{Event: catalog.DefaultWebhookEvent, Enabled: true}
		},
		Validator: v,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return &WebhookBridge{Bridge: b, api: api}, nil
}

// Test asks the backend to deliver a test event to webhook id. The list is
// reloaded afterwards so the last delivery column reflects the attempt.
func (w *WebhookBridge) Test(ctx context.Context, id int64) (catalog.DeliveryResult, error) {
	res, err := w.api.TestWebhook(ctx, id)
	if err != nil {
		return catalog.DeliveryResult{}, err
	}
	w.logger.Info("webhook tested", zap.Int64("id", id), zap.String("error", res.Error))
	return res, w.refresh(ctx)
}
