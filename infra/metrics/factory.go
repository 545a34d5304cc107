package metrics

import (
	"github.com/kilianp07/pitwall/core/factory"
	coremetrics "github.com/kilianp07/pitwall/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSink()
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}

// NewSink builds every configured sink. No sinks yields a NopSink and a
// single sink is returned unwrapped.
func NewSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	sinks := make([]coremetrics.MetricsSink, 0, len(cfg.Sinks))
	for _, mc := range cfg.Sinks {
		s, err := coremetrics.CreateMetricsSink(mc)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
