package listsync

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// Product filter names accepted by GET /products.
const (
	FilterSKU         = "sku"
	FilterName        = "name"
	FilterDescription = "description"
	FilterActive      = "active"
)

// ProductFilters lists every product filter in display order.
var ProductFilters = []string{FilterSKU, FilterName, FilterDescription, FilterActive}

// ProductLister is the backend surface the product list needs.
type ProductLister interface {
	ListProducts(ctx context.Context, query url.Values) (catalog.ProductPage, error)
}

// WebhookLister is the backend surface the webhook list needs.
type WebhookLister interface {
	ListWebhooks(ctx context.Context) ([]catalog.Webhook, error)
}

// ProductFetcher pages through GET /products.
func ProductFetcher(l ProductLister) Fetcher[catalog.Product] {
	return FetcherFunc[catalog.Product](func(ctx context.Context, q Query) (Page[catalog.Product], error) {
		res, err := l.ListProducts(ctx, q.Values())
		if err != nil {
			return Page[catalog.Product]{}, err
		}
		page := res.Page
		if page < 1 {
			page = q.Page
		}
		return Page[catalog.Product]{Items: res.Items, Page: page, PageSize: res.PageSize, Total: res.Total}, nil
	})
}

// WebhookFetcher loads the full webhook list as a single page.
func WebhookFetcher(l WebhookLister) Fetcher[catalog.Webhook] {
	return FetcherFunc[catalog.Webhook](func(ctx context.Context, _ Query) (Page[catalog.Webhook], error) {
		hooks, err := l.ListWebhooks(ctx)
		if err != nil {
			return Page[catalog.Webhook]{}, err
		}
		return Page[catalog.Webhook]{Items: hooks, Page: 1, PageSize: len(hooks), Total: len(hooks)}, nil
	})
}

// NewProductStore builds the products list with a fixed page size.
func NewProductStore(l ProductLister, pageSize int, view View[catalog.Product], logger *zap.Logger) (*Store[catalog.Product], error) {
	return NewStore(Config[catalog.Product]{
		Name:    "products",
		Query:   NewQuery(pageSize),
		Fetcher: ProductFetcher(l),
		Format:  FormatProduct,
		View:    view,
		Logger:  logger,
	})
}

// NewWebhookStore builds the unpaged webhooks list.
func NewWebhookStore(l WebhookLister, view View[catalog.Webhook], logger *zap.Logger) (*Store[catalog.Webhook], error) {
	return NewStore(Config[catalog.Webhook]{
		Name:    "webhooks",
		Query:   NewQuery(0),
		Fetcher: WebhookFetcher(l),
		Format:  FormatWebhook,
		View:    view,
		Logger:  logger,
	})
}
