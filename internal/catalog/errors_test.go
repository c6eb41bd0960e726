package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequiredFieldsMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "sku is required", RequiredFields("sku").Error())
	require.Equal(t, "sku and name are required", RequiredFields("sku", "name").Error())
	require.Equal(t, "a, b and c are required", RequiredFields("a", "b", "c").Error())
}

// TestRequestErrorUsesRawBody verifies the backend body is surfaced verbatim.
func TestRequestErrorUsesRawBody(t *testing.T) {
	t.Parallel()

	err := &RequestError{Method: http.MethodPost, Path: "/products", StatusCode: 400, Body: `{"detail":"SKU already exists (case-insensitive)"}`}
	require.Equal(t, `{"detail":"SKU already exists (case-insensitive)"}`, err.Error())

	empty := &RequestError{Method: http.MethodDelete, Path: "/products/9", StatusCode: 404}
	require.Equal(t, "DELETE /products/9: 404 Not Found", empty.Error())
}

func TestChannelErrorUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := fmt.Errorf("subscribe: %w", &ChannelError{JobID: "job-1", Err: cause})

	var chErr *ChannelError
	require.ErrorAs(t, err, &chErr)
	require.Equal(t, "job-1", chErr.JobID)
	require.ErrorIs(t, err, cause)
}

func TestJobStatusTerminal(t *testing.T) {
	t.Parallel()

	require.False(t, JobQueued.IsTerminal())
	require.False(t, JobRunning.IsTerminal())
	require.True(t, JobCompleted.IsTerminal())
	require.True(t, JobFailed.IsTerminal())
	require.Equal(t, JobQueued, NewImportJob("job-1").Status)
}
