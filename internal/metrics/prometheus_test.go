package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg, "test")
	require.NoError(t, err)

	p.ObserveValidation("create", "ok")
	p.ObserveValidation("create", "ok")
	p.ObserveValidation("create", "shift_conflict")
	p.AddWritten("bulk_create", 12)
	p.AddWritten("bulk_create", 0)
	p.ObserveWrite("create", 0.01, true)

	require.Equal(t, 2.0, testutil.ToFloat64(p.validations.WithLabelValues("create", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.validations.WithLabelValues("create", "shift_conflict")))
	require.Equal(t, 12.0, testutil.ToFloat64(p.written.WithLabelValues("bulk_create")))
	require.Equal(t, 1, testutil.CollectAndCount(p.writeDuration))
}

func TestPrometheus_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg, "test")
	require.NoError(t, err)

	_, err = NewPrometheus(reg, "test")
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	var r Recorder = NewNop()

	require.NotPanics(t, func() {
		r.ObserveValidation("create", "ok")
		r.AddWritten("create", 1)
		r.ObserveWrite("create", 1, false)
	})
}
