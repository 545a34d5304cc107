package artifacts

import (
	"fmt"

	"github.com/kilianp07/pitwall/core/factory"
	"github.com/kilianp07/pitwall/core/prediction"
)

var (
	regressors  = factory.NewRegistry[prediction.Regressor]()
	classifiers = factory.NewRegistry[prediction.Classifier]()
)

type linearConf struct {
	NFeatures int       `json:"n_features"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

type logisticConf struct {
	NFeatures int         `json:"n_features"`
	Classes   []int       `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

type forestConf struct {
	NFeatures int    `json:"n_features"`
	Classes   []int  `json:"classes"`
	Trees     []Tree `json:"trees"`
}

// init registers the built-in model kinds.
func init() {
	_ = regressors.Register("linear", func(conf map[string]any) (prediction.Regressor, error) {
		var c linearConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		m, err := NewLinearRegressor(c.Coef, c.Intercept)
		if err != nil {
			return nil, err
		}
		return m, checkDeclared(c.NFeatures, m.Width())
	})

	_ = regressors.Register("forest", func(conf map[string]any) (prediction.Regressor, error) {
		var c forestConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		f, err := NewForest(c.NFeatures, c.Trees, nil)
		if err != nil {
			return nil, err
		}
		return forestRegressor{f}, nil
	})

	_ = classifiers.Register("logistic", func(conf map[string]any) (prediction.Classifier, error) {
		var c logisticConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		m, err := NewLogisticClassifier(c.Classes, c.Coef, c.Intercept)
		if err != nil {
			return nil, err
		}
		return m, checkDeclared(c.NFeatures, m.Width())
	})

	_ = classifiers.Register("forest", func(conf map[string]any) (prediction.Classifier, error) {
		var c forestConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if len(c.Classes) == 0 {
			return nil, fmt.Errorf("forest classifier: no classes")
		}
		f, err := NewForest(c.NFeatures, c.Trees, c.Classes)
		if err != nil {
			return nil, err
		}
		return forestClassifier{f}, nil
	})
}

func checkDeclared(declared, actual int) error {
	if declared != 0 && declared != actual {
		return fmt.Errorf("n_features is %d but coefficients cover %d", declared, actual)
	}
	return nil
}

// NewRegressor decodes a regressor of the given kind.
func NewRegressor(kind string, conf map[string]any) (prediction.Regressor, error) {
	return regressors.Create(factory.ModuleConfig{Type: kind, Conf: conf})
}

// NewClassifier decodes a classifier of the given kind.
func NewClassifier(kind string, conf map[string]any) (prediction.Classifier, error) {
	return classifiers.Create(factory.ModuleConfig{Type: kind, Conf: conf})
}
