package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// ListProducts fetches one page of products. query carries page, page_size
// and any active filters.
func (c *Client) ListProducts(ctx context.Context, query url.Values) (catalog.ProductPage, error) {
	var page catalog.ProductPage
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &page); err != nil {
		return catalog.ProductPage{}, err
	}
	return page, nil
}

// CreateProduct issues POST /products.
func (c *Client) CreateProduct(ctx context.Context, in catalog.ProductInput) (catalog.Product, error) {
	var out catalog.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, in, &out); err != nil {
		return catalog.Product{}, err
	}
	return out, nil
}

// UpdateProduct issues PUT /products/{id}.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in catalog.ProductInput) (catalog.Product, error) {
	var out catalog.Product
	if err := c.do(ctx, http.MethodPut, productPath(id), nil, in, &out); err != nil {
		return catalog.Product{}, err
	}
	return out, nil
}

// DeleteProduct issues DELETE /products/{id}.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, productPath(id), nil, nil, nil)
}

// DeleteAllProducts issues DELETE /products, removing every product.
func (c *Client) DeleteAllProducts(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/products", nil, nil, nil)
}

func productPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}
