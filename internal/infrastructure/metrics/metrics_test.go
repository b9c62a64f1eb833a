package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/talent-invoice/internal/infrastructure/metrics"
)

func TestRecordTransition_EtiquetaEstadosVacios(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, "test")

	m.RecordTransition("created", "", "awaiting_approval")
	m.RecordTransition("approved", "awaiting_approval", "approved")
	m.RecordTransition("approved", "resubmitted", "approved")

	expected := `
# HELP test_invoice_transitions_total Transiciones de factura confirmadas, por acción y estados.
# TYPE test_invoice_transitions_total counter
test_invoice_transitions_total{action="approved",from="awaiting_approval",to="approved"} 1
test_invoice_transitions_total{action="approved",from="resubmitted",to="approved"} 1
test_invoice_transitions_total{action="created",from="none",to="awaiting_approval"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_invoice_transitions_total"))
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, "test")

	m.ObserveRequest("GET", "/api/invoices/:id", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "/api/invoices/:id", 404, time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "test_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNil_NoPanica(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.RecordTransition("paid", "approved", "paid")
		m.ObserveRequest("GET", "/health", 200, time.Millisecond)
	})
}
