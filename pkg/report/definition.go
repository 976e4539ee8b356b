package report

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/citizenwallet/governance/pkg/governance"
)

var ErrUnknownKind = errors.New("unknown report kind")

// Mode selects how a decoded getter output is rendered in the document
type Mode string

const (
	// ModeString renders numbers as decimal strings and everything else with its string form
	ModeString Mode = "string"
	// ModeRaw keeps booleans, strings and arrays, numbers still become decimal strings
	ModeRaw Mode = "raw"
	// ModeLength renders the length of an array output
	ModeLength Mode = "length"
)

type Field struct {
	Name string
	Type string
	Mode Mode
}

type Arg struct {
	Name  string
	Type  string
	Value any
}

// Category maps one getter call onto a document key.
// Dotted keys nest and categories sharing a key merge their fields.
type Category struct {
	Key    string
	Getter string
	Args   []Arg
	Fields []Field
	// Single assigns the only field's value to Key instead of an object
	Single bool
}

// GetterABI returns the derived method description of the category
func (c Category) GetterABI() governance.Getter {
	g := governance.Getter{Method: c.Getter}
	for _, a := range c.Args {
		g.Inputs = append(g.Inputs, governance.Param{Name: a.Name, Type: a.Type})
	}
	for _, f := range c.Fields {
		g.Outputs = append(g.Outputs, governance.Param{Name: f.Name, Type: f.Type})
	}
	return g
}

func (c Category) args() []any {
	args := make([]any, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, a.Value)
	}
	return args
}

// Status is a document field that rules can overwrite
type Status struct {
	Key     string
	Default string
}

type Definition struct {
	Kind   string
	Dir    string
	Prefix string

	Categories []Category
	Status     *Status
	// Lists are the advisory arrays, always present even when empty
	Lists []string
	Rules []Rule

	// TokenContext adds the governance token supply when a token is configured
	TokenContext bool
	// Static fills documents that are not read from the contract
	Static func(now time.Time, doc *Document)
}

// RuleID identifies a rule for threshold overrides
func (d Definition) RuleID(r Rule) string {
	return fmt.Sprintf("%s.%s.%s", d.Kind, r.List, r.Metric)
}

// Catalog indexes definitions by kind
type Catalog map[string]Definition

func NewCatalog(defs ...Definition) Catalog {
	c := Catalog{}
	for _, d := range defs {
		c[d.Kind] = d
	}
	return c
}

func (c Catalog) Get(kind string) (Definition, error) {
	d, ok := c[kind]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return d, nil
}

// Kinds returns the known kinds in sorted order
func (c Catalog) Kinds() []string {
	kinds := make([]string, 0, len(c))
	for k := range c {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// All returns the definitions in Kinds order
func (c Catalog) All() []Definition {
	defs := make([]Definition, 0, len(c))
	for _, k := range c.Kinds() {
		defs = append(defs, c[k])
	}
	return defs
}
