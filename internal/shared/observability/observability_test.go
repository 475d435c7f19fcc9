package observability

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	FilesParsedTotal.Inc()

	path := filepath.Join(t.TempDir(), "codeextract.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "codeextract_files_parsed_total"))
}

func TestGroupsTotalByState(t *testing.T) {
	before := testutil.ToFloat64(GroupsTotal.WithLabelValues("skipped"))
	GroupsTotal.WithLabelValues("skipped").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(GroupsTotal.WithLabelValues("skipped")))
}

func TestSetupTracing_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), TracingOptions{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	_, span := Tracer.Start(context.Background(), "noop")
	span.End()
}
