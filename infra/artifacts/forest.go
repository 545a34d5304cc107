package artifacts

import (
	"fmt"

	"github.com/kilianp07/pitwall/core/prediction"
)

// Tree is a binary decision tree in flattened array form. Node i is a leaf
// when Left[i] < 0. Internal nodes send x to Left when
// x[Feature[i]] <= Threshold[i]. For classification trees Value holds the
// index of the leaf's class in the forest's class list.
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

func (t Tree) validate(width int) error {
	n := len(t.Left)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.Right) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree arrays have mismatched lengths")
	}
	for i := 0; i < n; i++ {
		if t.Left[i] < 0 {
			continue
		}
		if t.Left[i] >= n || t.Right[i] < 0 || t.Right[i] >= n {
			return fmt.Errorf("node %d has invalid children", i)
		}
		if t.Left[i] <= i || t.Right[i] <= i {
			return fmt.Errorf("node %d points backwards", i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= width {
			return fmt.Errorf("node %d splits on feature %d", i, t.Feature[i])
		}
	}
	return nil
}

// leaf walks the tree and returns the value of the reached leaf. Children
// always have a greater index than their parent, so the walk terminates.
func (t Tree) leaf(x []float64) float64 {
	i := 0
	for t.Left[i] >= 0 {
		if x[t.Feature[i]] <= t.Threshold[i] {
			i = t.Left[i]
		} else {
			i = t.Right[i]
		}
	}
	return t.Value[i]
}

// Forest is a tree ensemble. Regression forests average leaf values;
// classification forests return the class voted by most trees, ties going to
// the lowest class index.
type Forest struct {
	width   int
	trees   []Tree
	classes []int
}

// NewForest validates the ensemble. classes is empty for regression.
func NewForest(width int, trees []Tree, classes []int) (*Forest, error) {
	if width <= 0 {
		return nil, fmt.Errorf("forest: n_features must be positive")
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("forest: no trees")
	}
	for i, t := range trees {
		if err := t.validate(width); err != nil {
			return nil, fmt.Errorf("forest: tree %d: %w", i, err)
		}
		if len(classes) == 0 {
			continue
		}
		for j, l := range t.Left {
			if l < 0 && (t.Value[j] < 0 || int(t.Value[j]) >= len(classes)) {
				return nil, fmt.Errorf("forest: tree %d leaf %d has class index %v", i, j, t.Value[j])
			}
		}
	}
	return &Forest{width: width, trees: trees, classes: append([]int(nil), classes...)}, nil
}

// Width returns the expected number of features.
func (f *Forest) Width() int { return f.width }

// Regress returns the mean leaf value.
func (f *Forest) Regress(x []float64) (float64, error) {
	if err := prediction.CheckArity("forest", x, f.width); err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.leaf(x)
	}
	return sum / float64(len(f.trees)), nil
}

// Classify returns the majority class.
func (f *Forest) Classify(x []float64) (int, error) {
	if len(f.classes) == 0 {
		return 0, fmt.Errorf("%w: forest has no classes", prediction.ErrModelUnavailable)
	}
	if err := prediction.CheckArity("forest", x, f.width); err != nil {
		return 0, err
	}
	votes := make([]int, len(f.classes))
	for _, t := range f.trees {
		votes[int(t.leaf(x))]++
	}
	best := 0
	for i := 1; i < len(votes); i++ {
		if votes[i] > votes[best] {
			best = i
		}
	}
	return f.classes[best], nil
}

// forestRegressor adapts Forest to prediction.Regressor.
type forestRegressor struct{ *Forest }

func (r forestRegressor) Predict(x []float64) (float64, error) { return r.Regress(x) }

// forestClassifier adapts Forest to prediction.Classifier.
type forestClassifier struct{ *Forest }

func (c forestClassifier) Predict(x []float64) (int, error) { return c.Classify(x) }
