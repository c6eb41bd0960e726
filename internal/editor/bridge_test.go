package editor

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/listsync"
)

type fakeProductAPI struct {
	created   []catalog.ProductInput
	updated   map[int64]catalog.ProductInput
	deleted   []int64
	purged    int
	createErr error
}

func (f *fakeProductAPI) CreateProduct(_ context.Context, in catalog.ProductInput) (catalog.Product, error) {
	if f.createErr != nil {
		return catalog.Product{}, f.createErr
	}
	f.created = append(f.created, in)
	return catalog.Product{ID: int64(len(f.created)), SKU: in.SKU, Name: in.Name, Active: in.Active}, nil
}

func (f *fakeProductAPI) UpdateProduct(_ context.Context, id int64, in catalog.ProductInput) (catalog.Product, error) {
	if f.updated == nil {
		f.updated = map[int64]catalog.ProductInput{}
	}
	f.updated[id] = in
	return catalog.Product{ID: id, SKU: in.SKU, Name: in.Name, Active: in.Active}, nil
}

func (f *fakeProductAPI) DeleteProduct(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProductAPI) DeleteAllProducts(context.Context) error {
	f.purged++
	return nil
}

func (f *fakeProductAPI) calls() int {
	return len(f.created) + len(f.updated) + len(f.deleted) + f.purged
}

type countingReload struct {
	n int
}

func (c *countingReload) Refresh(context.Context) error {
	c.n++
	return nil
}

func always(answer bool) ConfirmFunc {
	return func(string) bool { return answer }
}

func newProducts(t *testing.T) (*ProductBridge, *fakeProductAPI, *countingReload) {
	t.Helper()
	api := &fakeProductAPI{}
	reload := &countingReload{}
	b, err := NewProductBridge(api, reload, nil, nil)
	require.NoError(t, err)
	return b, api, reload
}

func TestSaveRequiresSKUAndName(t *testing.T) {
	t.Parallel()

	b, api, reload := newProducts(t)
	ctx := context.Background()

	_, err := b.Save(ctx, Draft[catalog.ProductInput]{Fields: catalog.ProductInput{Name: "Anvil"}})
	var vErr *catalog.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "sku is required", vErr.Message)

	_, err = b.Save(ctx, Draft[catalog.ProductInput]{ID: 4, Fields: catalog.ProductInput{}})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "sku and name are required", vErr.Message)
	require.Equal(t, []string{"sku", "name"}, vErr.Fields)

	require.Zero(t, api.calls())
	require.Zero(t, reload.n)
}

func TestSaveCreatesOrUpdatesByID(t *testing.T) {
	t.Parallel()

	b, api, reload := newProducts(t)
	ctx := context.Background()

	draft := b.New()
	require.True(t, draft.IsNew())
	require.True(t, draft.Fields.Active)
	draft.Fields.SKU, draft.Fields.Name = "A-1", "Anvil"
	created, err := b.Save(ctx, draft)
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Len(t, api.created, 1)

	_, err = b.Save(ctx, Draft[catalog.ProductInput]{ID: 9, Fields: catalog.ProductInput{SKU: "B", Name: "Bucket"}})
	require.NoError(t, err)
	require.Contains(t, api.updated, int64(9))
	require.Len(t, api.created, 1)
	require.Equal(t, 2, reload.n)
}

func TestSaveRequestErrorKeepsBodyAndSkipsReload(t *testing.T) {
	t.Parallel()

	b, api, reload := newProducts(t)
	api.createErr = &catalog.RequestError{Method: http.MethodPost, Path: "/products", StatusCode: 409, Body: "SKU already exists"}

	_, err := b.Save(context.Background(), Draft[catalog.ProductInput]{Fields: catalog.ProductInput{SKU: "A", Name: "B"}})
	var reqErr *catalog.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "SKU already exists", err.Error())
	require.Zero(t, reload.n)
}

func TestBeginEditUsesTypedRow(t *testing.T) {
	t.Parallel()

	b, _, _ := newProducts(t)
	for _, active := range []bool{true, false} {
		p := catalog.Product{ID: 7, SKU: "A-1", Name: "Anvil", Description: "iron", Active: active}
		row := listsync.Row[catalog.Product]{Item: p, Cells: listsync.FormatProduct(p)}

		draft := b.BeginEdit(row)
		require.Equal(t, int64(7), draft.ID)
		require.Equal(t, active, draft.Fields.Active)

		fromCell, err := ParseYesNo(row.Cells[3])
		require.NoError(t, err)
		require.Equal(t, active, fromCell)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()

	b, api, reload := newProducts(t)
	var prompt string
	err := b.Delete(context.Background(), 3, ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	}))
	require.ErrorIs(t, err, ErrNotConfirmed)
	require.Equal(t, "Delete this product?", prompt)
	require.Empty(t, api.deleted)

	require.ErrorIs(t, b.Delete(context.Background(), 3, nil), ErrNotConfirmed)

	require.NoError(t, b.Delete(context.Background(), 3, always(true)))
	require.Equal(t, []int64{3}, api.deleted)
	require.Equal(t, 1, reload.n)
}

func TestBulkDelete(t *testing.T) {
	t.Parallel()

	b, api, reload := newProducts(t)
	var prompt string
	require.ErrorIs(t, b.BulkDelete(context.Background(), ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	})), ErrNotConfirmed)
	require.Equal(t, BulkDeletePrompt, prompt)
	require.Zero(t, api.purged)

	require.NoError(t, b.BulkDelete(context.Background(), always(true)))
	require.Equal(t, 1, api.purged)
	require.Equal(t, 1, reload.n)
}

func TestParseYesNo(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]bool{"Yes": true, "No": false, "yes": true, "FALSE": false, " true ": true} {
		got, err := ParseYesNo(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseYesNo("maybe")
	require.Error(t, err)
}
