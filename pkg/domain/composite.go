package domain

import "fmt"

// CompositeModel is a Model that only contains several submodels.
//
// It serves as a way to decompose business logic in orthogonal components,
// e.g. "tasks" and "preferences". Actions are applied to every submodel in the
// order they were given, and the wanted Actors are the union of the
// submodels' ones.
//
// A CompositeModel never contains another CompositeModel: nested composites
// are flattened, both on construction and on every transition.
type CompositeModel struct {
	models []Model
}

// NewCompositeModel creates a composite from at least one submodel.
// Duplicated submodels collapse to one, keeping the first-seen order.
func NewCompositeModel(models ...Model) (*CompositeModel, error) {
	if len(models) == 0 {
		return nil, ErrEmptyComposite
	}

	var flat []Model
	for _, m := range models {
		if m == nil {
			return nil, fmt.Errorf("composite submodel: %w", ErrNilModel)
		}
		flat = flatten(flat, m)
	}

	return &CompositeModel{models: flat}, nil
}

// MustCompositeModel is like NewCompositeModel but panics on error.
// Intended for initial Models built from literals.
func MustCompositeModel(models ...Model) *CompositeModel {
	c, err := NewCompositeModel(models...)
	if err != nil {
		panic(err)
	}
	return c
}

// ActUpon applies the Action to every submodel.
//
// Nil results are dropped, composite results are flattened and duplicates
// collapse. If every submodel ends, the composite ends too.
func (c *CompositeModel) ActUpon(action Action) (Model, error) {
	var results []Model

	for _, m := range c.models {
		next, err := m.ActUpon(action)
		if err != nil {
			return nil, fmt.Errorf("submodel %T: %w", m, err)
		}
		if next == nil {
			continue
		}
		results = flatten(results, next)
	}

	if len(results) == 0 {
		return nil, nil
	}
	return &CompositeModel{models: results}, nil
}

// Actors returns the union of all submodels' Actors.
func (c *CompositeModel) Actors() MetadataSet {
	set := make(MetadataSet)
	for _, m := range c.models {
		for md := range m.Actors() {
			set[md] = struct{}{}
		}
	}
	return set
}

// Submodels returns a copy of the direct submodels, in order.
func (c *CompositeModel) Submodels() []Model {
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}

// Len returns the number of submodels.
func (c *CompositeModel) Len() int {
	return len(c.models)
}

func (c *CompositeModel) String() string {
	return fmt.Sprintf("composite%v", c.models)
}

// flatten appends m to dst, expanding composites recursively and skipping
// Models already present.
func flatten(dst []Model, m Model) []Model {
	if c, ok := m.(*CompositeModel); ok {
		for _, sub := range c.models {
			dst = flatten(dst, sub)
		}
		return dst
	}
	if containsModel(dst, m) {
		return dst
	}
	return append(dst, m)
}
