package report

import (
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Object = orderedmap.OrderedMap[string, any]

func newObject() *Object {
	return orderedmap.New[string, any]()
}

// Document is a report keeping keys in insertion order
type Document struct {
	root *Object
}

func NewDocument() *Document {
	return &Document{root: newObject()}
}

func (d *Document) Set(key string, value any) {
	d.root.Set(key, value)
}

// Object returns the object at the dotted path, creating missing levels
func (d *Document) Object(path string) *Object {
	cur := d.root
	for _, part := range strings.Split(path, ".") {
		v, ok := cur.Get(part)
		next, isObj := v.(*Object)
		if !ok || !isObj {
			next = newObject()
			cur.Set(part, next)
		}
		cur = next
	}
	return cur
}

// SetPath assigns value at a dotted path
func (d *Document) SetPath(path string, value any) {
	parent, key := d.root, path
	if i := strings.LastIndex(path, "."); i >= 0 {
		parent = d.Object(path[:i])
		key = path[i+1:]
	}
	parent.Set(key, value)
}

// Lookup resolves a dotted path
func (d *Document) Lookup(path string) (any, bool) {
	var cur any = d.root
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(*Object)
		if !ok {
			return nil, false
		}

		cur, ok = obj.Get(part)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Append adds msg to the advisory list name
func (d *Document) Append(name, msg string) {
	list, _ := d.root.Get(name)
	l, _ := list.([]string)
	d.root.Set(name, append(l, msg))
}

// List returns the advisory list name
func (d *Document) List(name string) []string {
	v, _ := d.root.Get(name)
	l, _ := v.([]string)
	return l
}

// Keys returns the top level keys in order
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.root.Len())
	for pair := d.root.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.root)
}

// Indent renders the document with 2-space indentation
func (d *Document) Indent() ([]byte, error) {
	return json.MarshalIndent(d.root, "", "  ")
}
