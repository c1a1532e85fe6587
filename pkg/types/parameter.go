package types

// Field identifies an editable field of a parameter.
type Field string

const (
	FieldExpression Field = "expression"
	FieldComment    Field = "comment"
	FieldUnit       Field = "unit"
	// FieldName exists so rename attempts can be reported precisely;
	// renaming is not a supported edit.
	FieldName Field = "name"
)

// ValidField reports whether f is a field PreviewEdit accepts.
func ValidField(f Field) bool {
	switch f {
	case FieldExpression, FieldComment, FieldUnit:
		return true
	}
	return false
}

// Parameter is one user parameter as seen by the editor: the formula the user
// typed, the value the host resolved it to, and the host-reported dependency
// links in both directions.
type Parameter struct {
	Name       string   `json:"name"`
	Expression string   `json:"expression"`
	Value      float64  `json:"value"`
	Unit       string   `json:"unit,omitempty"`
	Comment    string   `json:"comment,omitempty"`
	DependsOn  []string `json:"dependsOn,omitempty"`
	UsedBy     []string `json:"usedBy,omitempty"`

	// Invalid marks a record whose last edit the host rejected. Value holds
	// the last successfully resolved value in that case.
	Invalid bool `json:"invalid,omitempty"`
}

// Clone returns a deep copy of the parameter.
func (p *Parameter) Clone() *Parameter {
	c := *p
	c.DependsOn = append([]string(nil), p.DependsOn...)
	c.UsedBy = append([]string(nil), p.UsedBy...)
	return &c
}

// ParameterSet is an insertion-ordered collection of parameters keyed by name.
type ParameterSet struct {
	order  []string
	byName map[string]*Parameter
}

// NewParameterSet creates an empty set.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{byName: make(map[string]*Parameter)}
}

// Len returns the number of parameters in the set.
func (s *ParameterSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Get returns the parameter with the given name, or nil.
func (s *ParameterSet) Get(name string) *Parameter {
	if s == nil {
		return nil
	}
	return s.byName[name]
}

// At returns the parameter at position i in insertion order, or nil when out
// of range.
func (s *ParameterSet) At(i int) *Parameter {
	if s == nil || i < 0 || i >= len(s.order) {
		return nil
	}
	return s.byName[s.order[i]]
}

// Index returns the insertion-order position of name, or -1.
func (s *ParameterSet) Index(name string) int {
	if s == nil {
		return -1
	}
	for i, n := range s.order {
		if n == name {
			return i
		}
	}
	return -1
}

// Names returns the parameter names in insertion order.
func (s *ParameterSet) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// All returns the parameters in insertion order.
func (s *ParameterSet) All() []*Parameter {
	if s == nil {
		return nil
	}
	out := make([]*Parameter, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.byName[n])
	}
	return out
}

// Put inserts or replaces a parameter. New names are appended; existing names
// keep their position.
func (s *ParameterSet) Put(p *Parameter) {
	if s.byName == nil {
		s.byName = make(map[string]*Parameter)
	}
	if _, ok := s.byName[p.Name]; !ok {
		s.order = append(s.order, p.Name)
	}
	s.byName[p.Name] = p
}

// Remove deletes a parameter by name. It reports whether the name was present.
func (s *ParameterSet) Remove(name string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.byName[name]; !ok {
		return false
	}
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy of the set, preserving insertion order.
func (s *ParameterSet) Clone() *ParameterSet {
	c := NewParameterSet()
	if s == nil {
		return c
	}
	for _, n := range s.order {
		c.Put(s.byName[n].Clone())
	}
	return c
}
