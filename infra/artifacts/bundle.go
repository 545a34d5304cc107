package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilianp07/pitwall/core/features"
	"github.com/kilianp07/pitwall/core/prediction"
)

// Config locates the artifact files.
type Config struct {
	Dir       string `json:"dir"`
	Scaler    string `json:"scaler"`
	StopCount string `json:"stop_count"`
	StopLap   string `json:"stop_lap"`
	Tire      string `json:"tire"`
	Compound  string `json:"compound_encoder"`
}

// SetDefaults applies the conventional file names.
func (c *Config) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "models"
	}
	if c.Scaler == "" {
		c.Scaler = "scaler.json"
	}
	if c.StopCount == "" {
		c.StopCount = "pitstops_model.json"
	}
	if c.StopLap == "" {
		c.StopLap = "pitlap_model.json"
	}
	if c.Tire == "" {
		c.Tire = "tire_model.json"
	}
	if c.Compound == "" {
		c.Compound = "label_encoder_Compound.json"
	}
}

// Path returns the location of an artifact file.
func (c Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}

type widther interface{ Width() int }

// LoadBundle reads every artifact and checks it against the feature layout.
// All failures wrap prediction.ErrModelUnavailable.
func LoadBundle(cfg Config) (*prediction.ModelBundle, error) {
	cfg.SetDefaults()
	scaler, err := LoadScaler(cfg.Path(cfg.Scaler))
	if err != nil {
		return nil, err
	}
	stopCount, err := LoadRegressor(cfg.Path(cfg.StopCount))
	if err != nil {
		return nil, err
	}
	stopLap, err := LoadRegressor(cfg.Path(cfg.StopLap))
	if err != nil {
		return nil, err
	}
	tire, err := LoadClassifier(cfg.Path(cfg.Tire))
	if err != nil {
		return nil, err
	}
	codec, err := LoadCodec(cfg.Path(cfg.Compound))
	if err != nil {
		return nil, err
	}
	return prediction.NewModelBundle(scaler, stopCount, stopLap, tire, codec)
}

func unavailable(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", prediction.ErrModelUnavailable, path, err)
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// LoadScaler reads a standard scaler export. The file must list the trained
// feature names, which must equal features.Columns.
func LoadScaler(path string) (*StandardScaler, error) {
	var f struct {
		FeatureNames []string  `json:"feature_names"`
		Mean         []float64 `json:"mean"`
		Scale        []float64 `json:"scale"`
	}
	if err := readJSON(path, &f); err != nil {
		return nil, unavailable(path, err)
	}
	if err := features.CheckColumns(f.FeatureNames); err != nil {
		return nil, unavailable(path, err)
	}
	s, err := NewStandardScaler(f.FeatureNames, f.Mean, f.Scale)
	if err != nil {
		return nil, unavailable(path, err)
	}
	return s, nil
}

func readModel(path string) (string, map[string]any, error) {
	var raw map[string]any
	if err := readJSON(path, &raw); err != nil {
		return "", nil, err
	}
	kind, _ := raw["kind"].(string)
	if kind == "" {
		return "", nil, fmt.Errorf("missing model kind")
	}
	return kind, raw, nil
}

func checkWidth(m any) error {
	if w, ok := m.(widther); ok && w.Width() != features.Width {
		return fmt.Errorf("model expects %d features, feature record has %d", w.Width(), features.Width)
	}
	return nil
}

// LoadRegressor reads a regression model export.
func LoadRegressor(path string) (prediction.Regressor, error) {
	kind, raw, err := readModel(path)
	if err != nil {
		return nil, unavailable(path, err)
	}
	m, err := NewRegressor(kind, raw)
	if err != nil {
		return nil, unavailable(path, err)
	}
	if err := checkWidth(m); err != nil {
		return nil, unavailable(path, err)
	}
	return m, nil
}

// LoadClassifier reads a classification model export.
func LoadClassifier(path string) (prediction.Classifier, error) {
	kind, raw, err := readModel(path)
	if err != nil {
		return nil, unavailable(path, err)
	}
	m, err := NewClassifier(kind, raw)
	if err != nil {
		return nil, unavailable(path, err)
	}
	if err := checkWidth(m); err != nil {
		return nil, unavailable(path, err)
	}
	return m, nil
}

// LoadCodec reads a label encoder export: {"classes": [...]}.
func LoadCodec(path string) (*LabelCodec, error) {
	var f struct {
		Classes []string `json:"classes"`
	}
	if err := readJSON(path, &f); err != nil {
		return nil, unavailable(path, err)
	}
	c, err := NewLabelCodec(f.Classes)
	if err != nil {
		return nil, unavailable(path, err)
	}
	return c, nil
}
