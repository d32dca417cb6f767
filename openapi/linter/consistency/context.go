// Package consistency holds the state shared by rules that compare sightings across a whole document run.
//
// A Context is created empty at the start of each lint run and carried to the rules through the
// context.Context passed to Run. It is never stored globally, so independent runs cannot observe each
// other's sightings.
package consistency

import (
	"context"
	"sync"

	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"go.yaml.in/yaml/v4"
)

// Sighting is a single occurrence of a named value, such as a property name and its type.
type Sighting struct {
	Name     string
	Type     string
	Node     *yaml.Node
	Location walk.Locations
	// Owner identifies the schema the sighting belongs to.
	Owner *yaml.Node
}

// Table maps names to their first sighting.
type Table struct {
	mu       sync.Mutex
	first    map[string]Sighting
	reported map[string]bool
}

func NewTable() *Table {
	return &Table{
		first:    make(map[string]Sighting),
		reported: make(map[string]bool),
	}
}

// Record stores s if its name has not been seen before and returns the first sighting of the name.
// conflict is set when the first sighting has a different type. reportFirst is set only for the first
// conflict of a name, so the first sighting is reported once.
func (t *Table) Record(s Sighting) (first Sighting, conflict bool, reportFirst bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.first[s.Name]
	if !ok {
		t.first[s.Name] = s
		return s, false, false
	}

	if existing.Type == s.Type {
		return existing, false, false
	}

	if !t.reported[s.Name] {
		t.reported[s.Name] = true
		return existing, true, true
	}
	return existing, true, false
}

// Context is the per run set of named tables.
type Context struct {
	mu     sync.Mutex
	tables map[string]*Table
}

func New() *Context {
	return &Context{tables: make(map[string]*Table)}
}

// Table returns the table with the given name, creating it on first use.
func (c *Context) Table(name string) *Table {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tables[name]
	if !ok {
		t = NewTable()
		c.tables[name] = t
	}
	return t
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying c.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the Context carried by ctx.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(contextKey{}).(*Context)
	return c, ok && c != nil
}

// FromContextOrNew returns the Context carried by ctx or a fresh one scoped to the caller.
func FromContextOrNew(ctx context.Context) *Context {
	if c, ok := FromContext(ctx); ok {
		return c
	}
	return New()
}
