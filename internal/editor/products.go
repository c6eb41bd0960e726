package editor

import (
	"context"

	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// BulkDeletePrompt is asked before every product is removed.
const BulkDeletePrompt = "Are you sure? This cannot be undone."

// ProductAPI is the backend surface product editing needs.
type ProductAPI interface {
	CreateProduct(ctx context.Context, in catalog.ProductInput) (catalog.Product, error)
	UpdateProduct(ctx context.Context, id int64, in catalog.ProductInput) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	DeleteAllProducts(ctx context.Context) error
}

type productGateway struct {
	api ProductAPI
}

func (g productGateway) Create(ctx context.Context, in catalog.ProductInput) (catalog.Product, error) {
	return g.api.CreateProduct(ctx, in)
}

func (g productGateway) Update(ctx context.Context, id int64, in catalog.ProductInput) (catalog.Product, error) {
	return g.api.UpdateProduct(ctx, id, in)
}

func (g productGateway) Delete(ctx context.Context, id int64) error {
	return g.api.DeleteProduct(ctx, id)
}

// ProductBridge edits products and owns the irreversible bulk delete.
type ProductBridge struct {
	*Bridge[catalog.Product, catalog.ProductInput]
	api ProductAPI
}

// NewProductBridge wires product editing to api, reloading via reload.
func NewProductBridge(api ProductAPI, reload Reloader, v *Validator, logger *zap.Logger) (*ProductBridge, error) {
	b, err := NewBridge(Config[catalog.Product, catalog.ProductInput]{
		Noun:    "product",
		Gateway: productGateway{api: api},
		Reload:  reload,
		ToDraft: func(p catalog.Product) Draft[catalog.ProductInput] {
			return Draft[catalog.ProductInput]{ID: p.ID, Fields: p.Input()}
		},
		Blank: func() catalog.ProductInput {
			return catalog.ProductInput{Active: true}
		},
		Validator: v,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return &ProductBridge{Bridge: b, api: api}, nil
}

// BulkDelete removes every product after explicit confirmation, then
// reloads the list.
func (p *ProductBridge) BulkDelete(ctx context.Context, c Confirmer) error {
	if !confirmed(c, BulkDeletePrompt) {
		return ErrNotConfirmed
	}
	if err := p.api.DeleteAllProducts(ctx); err != nil {
		return err
	}
	p.logger.Warn("all products deleted")
	return p.refresh(ctx)
}
