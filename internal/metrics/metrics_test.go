package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveValidation("invalid_pin", false)
	m.ObserveValidation("locked", true)
	m.ObserveValidation("locked", false)
	m.ObserveRegistration("created")
	m.ObserveAuditFailure()

	require.Equal(t, 1.0, testutil.ToFloat64(m.PinValidations.WithLabelValues("invalid_pin")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.PinValidations.WithLabelValues("locked")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.AccountLocks))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues("created")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.AuditFailures))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveValidation("success", false)
		m.ObserveRegistration("created")
		m.ObserveAuditFailure()
	})
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
