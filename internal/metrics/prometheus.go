package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Prometheus struct {
	validations   *prometheus.CounterVec
	written       *prometheus.CounterVec
	writeDuration *prometheus.HistogramVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus 创建并注册所有指标，reg 为 nil 时使用 prometheus.DefaultRegisterer
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "rostering"
	}

	p := &Prometheus{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "validations_total",
			Help:      "班次校验次数，按操作和结果分类",
		}, []string{"op", "outcome"}),
		written: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "rows_written_total",
			Help:      "成功提交的班次写入条数，按操作分类",
		}, []string{"op"}),
		writeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "write_duration_seconds",
			Help:      "写事务耗时",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"op", "result"}),
	}

	for _, c := range []prometheus.Collector{p.validations, p.written, p.writeDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Prometheus) ObserveValidation(op, outcome string) {
	p.validations.WithLabelValues(op, outcome).Inc()
}

func (p *Prometheus) AddWritten(op string, n int) {
	if n <= 0 {
		return
	}
	p.written.WithLabelValues(op).Add(float64(n))
}

func (p *Prometheus) ObserveWrite(op string, seconds float64, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	p.writeDuration.WithLabelValues(op, result).Observe(seconds)
}
