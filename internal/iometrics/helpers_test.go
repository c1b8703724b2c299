package iometrics_test

import (
	"testing"

	"github.com/eduregistry/edureg/internal/iometrics"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, m *iometrics.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		return mf.GetMetric()[0].GetGauge().GetValue()
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
