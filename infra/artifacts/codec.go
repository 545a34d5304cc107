package artifacts

import (
	"fmt"

	"github.com/kilianp07/pitwall/core/prediction"
)

// LabelCodec maps class codes to labels the way the training label encoder
// did: code i is Classes[i].
type LabelCodec struct {
	classes []string
	index   map[string]int
}

// NewLabelCodec builds a codec from the ordered class list.
func NewLabelCodec(classes []string) (*LabelCodec, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("label encoder: no classes")
	}
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("label encoder: duplicate class %q", c)
		}
		idx[c] = i
	}
	return &LabelCodec{classes: append([]string(nil), classes...), index: idx}, nil
}

// Decode implements prediction.Codec.
func (c *LabelCodec) Decode(code int) (string, error) {
	if code < 0 || code >= len(c.classes) {
		return "", &prediction.UnknownCategoryError{Code: code}
	}
	return c.classes[code], nil
}

// Encode implements prediction.Codec.
func (c *LabelCodec) Encode(label string) (int, error) {
	code, ok := c.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: label %q", prediction.ErrUnknownCategory, label)
	}
	return code, nil
}

// Classes implements prediction.Codec.
func (c *LabelCodec) Classes() []string { return append([]string(nil), c.classes...) }
