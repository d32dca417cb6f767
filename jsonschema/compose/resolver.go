package compose

import (
	"fmt"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"go.yaml.in/yaml/v4"
)

// ErrCompositionTooLarge is returned when the combinations of oneOf/anyOf branches of a schema exceed MaxApplicable.
const ErrCompositionTooLarge = errors.Error("schema composition too large")

// MaxApplicable bounds the number of applicable schema sets computed for a single schema.
const MaxApplicable = 4096

// Policy decides how oneOf/anyOf branches are combined when evaluating a predicate.
// allOf members are always merged so a predicate holding for any member holds for the composite.
type Policy int

const (
	// AtLeastOne requires the predicate to hold for at least one branch.
	AtLeastOne Policy = iota
	// AllBranches requires the predicate to hold for every branch. Zero branches hold vacuously.
	AllBranches
)

func (p Policy) String() string {
	if p == AllBranches {
		return "all branches"
	}
	return "at least one"
}

// Dereferencer follows $ref chains to their definitions.
type Dereferencer interface {
	Resolve(node *yaml.Node, loc walk.Locations) (*yaml.Node, walk.Locations, error)
}

// Applicable is one effective schema for an instance: the schemas merged through allOf plus one choice of
// branch for every oneOf/anyOf encountered.
type Applicable struct {
	// Members are the merged schemas, the starting schema first, in resolution order.
	Members []Schema
	// Context is the composition path taken to reach the branch, e.g. allOf.1.oneOf.0.
	Context walk.Locations
	// Cyclic is set when a member refers back to a schema that is still being resolved.
	Cyclic bool
	// Opaque is set when a member is a reference that could not be followed, such as an external reference.
	Opaque bool
}

// Contains reports whether node is one of the merged members.
func (a Applicable) Contains(node *yaml.Node) bool {
	for _, m := range a.Members {
		if m.Node == node {
			return true
		}
	}
	return false
}

// holds evaluates pred over the merged members. Cyclic sets hold for AtLeastOne and fail AllBranches.
// Opaque sets always hold since their content cannot be inspected.
func (a Applicable) holds(policy Policy, pred func(Schema) bool) bool {
	for _, m := range a.Members {
		if pred(m) {
			return true
		}
	}
	if a.Opaque {
		return true
	}
	if a.Cyclic {
		return policy == AtLeastOne
	}
	return false
}

// Resolver computes applicable schema sets over a document.
type Resolver struct {
	deref Dereferencer
}

func NewResolver(deref Dereferencer) *Resolver {
	return &Resolver{deref: deref}
}

// Deref follows a $ref chain. The second result is false when the schema is a reference that
// cannot be followed, in which case the schema is returned unchanged.
func (r *Resolver) Deref(s Schema) (Schema, bool) {
	if _, ok := s.Reference(); !ok {
		return s, true
	}
	if r.deref == nil {
		return s, false
	}
	node, loc, err := r.deref.Resolve(s.Node, s.Location)
	if err != nil || node == nil {
		return s, false
	}
	return NewSchema(node, loc), true
}

// Applicable flattens allOf and enumerates oneOf/anyOf branches of s. A schema without composition
// yields a single set holding only s.
func (r *Resolver) Applicable(s Schema) ([]Applicable, error) {
	return r.applicable(s, make(map[*yaml.Node]struct{}), walk.Root())
}

func (r *Resolver) applicable(s Schema, onPath map[*yaml.Node]struct{}, context walk.Locations) ([]Applicable, error) {
	s, ok := r.Deref(s)
	if !ok {
		return []Applicable{{Members: []Schema{s}, Context: context, Opaque: true}}, nil
	}
	if s.Node == nil {
		return []Applicable{{Context: context}}, nil
	}
	if _, visiting := onPath[s.Node]; visiting {
		return []Applicable{{Context: context, Cyclic: true}}, nil
	}

	onPath[s.Node] = struct{}{}
	defer delete(onPath, s.Node)

	sets := []Applicable{{Members: []Schema{s}, Context: context}}

	for i, member := range s.Members(KeywordAllOf) {
		memberSets, err := r.applicable(member, onPath, walk.Of(KeywordAllOf).AppendIndex(i))
		if err != nil {
			return nil, err
		}
		if sets, err = product(sets, memberSets); err != nil {
			return nil, err
		}
	}

	for _, keyword := range []string{KeywordOneOf, KeywordAnyOf} {
		if !s.Has(keyword) {
			continue
		}

		var branches []Applicable
		for i, member := range s.Members(keyword) {
			branchSets, err := r.applicable(member, onPath, walk.Of(keyword).AppendIndex(i))
			if err != nil {
				return nil, err
			}
			branches = append(branches, branchSets...)
		}

		var err error
		if sets, err = product(sets, branches); err != nil {
			return nil, err
		}
	}

	return sets, nil
}

func product(left, right []Applicable) ([]Applicable, error) {
	if len(left)*len(right) > MaxApplicable {
		return nil, ErrCompositionTooLarge.Wrap(fmt.Errorf("%d combinations exceed the limit of %d", len(left)*len(right), MaxApplicable))
	}

	out := make([]Applicable, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			members := make([]Schema, 0, len(l.Members)+len(r.Members))
			members = append(members, l.Members...)
			members = append(members, r.Members...)
			out = append(out, Applicable{
				Members: members,
				Context: l.Context.Append(r.Context...),
				Cyclic:  l.Cyclic || r.Cyclic,
				Opaque:  l.Opaque || r.Opaque,
			})
		}
	}
	return out, nil
}

// Satisfies evaluates pred over the applicable sets of s using the policy.
func (r *Resolver) Satisfies(s Schema, policy Policy, pred func(Schema) bool) (bool, error) {
	sets, err := r.Applicable(s)
	if err != nil {
		return false, err
	}
	return evaluate(sets, policy, pred), nil
}

// SatisfiesWithin is Satisfies restricted to the applicable sets of s that include the member node.
// It evaluates a keyword declared on a nested member in the context of the composite it belongs to.
func (r *Resolver) SatisfiesWithin(s Schema, member *yaml.Node, policy Policy, pred func(Schema) bool) (bool, error) {
	sets, err := r.Applicable(s)
	if err != nil {
		return false, err
	}

	filtered := sets[:0:0]
	for _, set := range sets {
		if set.Contains(member) {
			filtered = append(filtered, set)
		}
	}
	return evaluate(filtered, policy, pred), nil
}

func evaluate(sets []Applicable, policy Policy, pred func(Schema) bool) bool {
	switch policy {
	case AllBranches:
		for _, set := range sets {
			if !set.holds(policy, pred) {
				return false
			}
		}
		return true
	default:
		for _, set := range sets {
			if set.holds(policy, pred) {
				return true
			}
		}
		return false
	}
}

// Failing returns the applicable sets of s for which pred does not hold under AllBranches.
// The contexts of the returned sets name the branches to blame.
func (r *Resolver) Failing(s Schema, pred func(Schema) bool) ([]Applicable, error) {
	sets, err := r.Applicable(s)
	if err != nil {
		return nil, err
	}

	var failing []Applicable
	for _, set := range sets {
		if !set.holds(AllBranches, pred) {
			failing = append(failing, set)
		}
	}
	return failing, nil
}

// HasProperty reports whether name is defined in the properties of the composition. not sub-schemas are never consulted.
func (r *Resolver) HasProperty(s Schema, name string, policy Policy) (bool, error) {
	return r.Satisfies(s, policy, DefinesProperty(name))
}

// DefinesKeyword reports whether keyword is present in the composition.
func (r *Resolver) DefinesKeyword(s Schema, keyword string, policy Policy) (bool, error) {
	return r.Satisfies(s, policy, func(m Schema) bool { return m.Has(keyword) })
}

// IsRequired reports whether name is listed in a required keyword of the composition.
func (r *Resolver) IsRequired(s Schema, name string, policy Policy) (bool, error) {
	return r.Satisfies(s, policy, func(m Schema) bool { return m.IsRequired(name) })
}

// DefinesProperty is a predicate matching members that list name in their own properties.
func DefinesProperty(name string) func(Schema) bool {
	return func(m Schema) bool {
		_, ok := m.Property(name)
		return ok
	}
}

// FindProperty returns the first definition of a property across the applicable sets of s.
func (r *Resolver) FindProperty(s Schema, name string) (Property, bool, error) {
	sets, err := r.Applicable(s)
	if err != nil {
		return Property{}, false, err
	}
	for _, set := range sets {
		for _, m := range set.Members {
			if prop, ok := m.Property(name); ok {
				return prop, true, nil
			}
		}
	}
	return Property{}, false, nil
}

// MergedProperties returns the properties of every applicable member in resolution order, keeping the
// first definition of each name.
func (r *Resolver) MergedProperties(s Schema) ([]Property, error) {
	sets, err := r.Applicable(s)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var props []Property
	for _, set := range sets {
		for _, m := range set.Members {
			for _, prop := range m.Properties() {
				if _, ok := seen[prop.Name]; ok {
					continue
				}
				seen[prop.Name] = struct{}{}
				props = append(props, prop)
			}
		}
	}
	return props, nil
}

// EffectiveTypes returns the declared types of s merged with the types inherited through allOf.
func (r *Resolver) EffectiveTypes(s Schema) []string {
	var types []string
	seen := make(map[string]struct{})
	r.collectTypes(s, make(map[*yaml.Node]struct{}), seen, &types)
	return types
}

func (r *Resolver) collectTypes(s Schema, visited map[*yaml.Node]struct{}, seen map[string]struct{}, out *[]string) {
	s, ok := r.Deref(s)
	if !ok || s.Node == nil {
		return
	}
	if _, done := visited[s.Node]; done {
		return
	}
	visited[s.Node] = struct{}{}

	for _, t := range s.Types() {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		*out = append(*out, t)
	}

	for _, member := range s.Members(KeywordAllOf) {
		r.collectTypes(member, visited, seen, out)
	}
}

// HasEffectiveType reports whether typ is among the effective types of s.
func (r *Resolver) HasEffectiveType(s Schema, typ string) bool {
	for _, t := range r.EffectiveTypes(s) {
		if t == typ {
			return true
		}
	}
	return false
}
