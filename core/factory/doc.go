// Package factory provides the generic registries used to build pluggable
// modules from configuration: model kinds in the artifact loader and metrics
// sinks. A module is named by a case-insensitive type string and carries a
// map of raw settings that its factory decodes with Decode.
//
//	reg := factory.NewRegistry[prediction.Regressor]()
//	_ = reg.Register("linear", func(conf map[string]any) (prediction.Regressor, error) {
//	    var c struct {
//	        Coef      []float64 `json:"coef"`
//	        Intercept float64   `json:"intercept"`
//	    }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return artifacts.NewLinearRegressor(c.Coef, c.Intercept)
//	})
//	m, err := reg.Create(factory.ModuleConfig{Type: "linear", Conf: raw})
package factory
