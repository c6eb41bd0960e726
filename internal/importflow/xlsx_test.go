package importflow

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Products")
	require.NoError(t, err)
	for _, vals := range rows {
		row := sheet.AddRow()
		for _, v := range vals {
			row.AddCell().SetString(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	return buf.Bytes()
}

func TestWorkbookToCSV(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, [][]string{
		{"sku", "name", "description"},
		{"A-1", "Anvil", "heavy, iron"},
		{"B-2", "Bucket", ""},
	})
	out, err := WorkbookToCSV(data)
	require.NoError(t, err)
	require.Equal(t, "sku,name,description\nA-1,Anvil,\"heavy, iron\"\nB-2,Bucket,\n", string(out))
}

func TestWorkbookToCSVRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := WorkbookToCSV([]byte("not a zip"))
	require.Error(t, err)
}

func TestSubmitConvertsWorkbook(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Catalog.XLSX")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t, [][]string{{"sku", "name"}, {"A-1", "Anvil"}}), 0o600))

	up := &stubUploader{job: catalog.ImportJob{ID: "job-x"}}
	flow, err := New(Config{Uploader: up, Subscriber: stubSubscriber{}})
	require.NoError(t, err)
	h, err := flow.Submit(context.Background(), path)
	require.NoError(t, err)
	waitJob(t, h)

	require.Equal(t, "Catalog.csv", up.name)
	require.Equal(t, "sku,name\nA-1,Anvil\n", up.body)
}
