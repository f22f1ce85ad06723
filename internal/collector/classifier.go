package collector

import "TrendSentinel/internal/model"

// Classifier resolves the sector and industry of a symbol.
type Classifier interface {
	Classify(symbol string) model.Classification
}

// StaticClassifier looks symbols up in a fixed map. Unknown symbols and blank
// fields classify as model.UnknownGroup.
type StaticClassifier struct {
	groups map[string]model.Classification
}

// NewStaticClassifier copies groups into a new classifier.
func NewStaticClassifier(groups map[string]model.Classification) *StaticClassifier {
	cp := make(map[string]model.Classification, len(groups))
	for sym, c := range groups {
		cp[sym] = c.Normalized()
	}
	return &StaticClassifier{groups: cp}
}

func (c *StaticClassifier) Classify(symbol string) model.Classification {
	if g, ok := c.groups[symbol]; ok {
		return g
	}
	return model.Classification{}.Normalized()
}
