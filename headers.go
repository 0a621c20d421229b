package s3comms

import (
	"sort"
	"strings"
)

// Node is a single entry in a header List: an original-case name, its
// value, the lowercased sort key, and the pre-joined "name: value" form.
type Node struct {
	Name      string
	Value     string
	lowerName string
	joined    string
}

// List is an ordered, case-insensitively-keyed sequence of HTTP header
// name/value pairs, kept sorted ascending by lowercased name. Lowercased
// keys are unique across the list.
type List struct {
	nodes []*Node
}

// NewList returns an empty header List.
func NewList() *List {
	return &List{}
}

// Len returns the number of nodes in the list.
func (l *List) Len() int {
	return len(l.nodes)
}

// Nodes returns the list's nodes in sorted order. The returned slice must
// not be mutated by the caller.
func (l *List) Nodes() []*Node {
	return l.nodes
}

func makeNode(name, value string) *Node {
	lower := strings.ToLower(name)
	return &Node{
		Name:      name,
		Value:     value,
		lowerName: lower,
		joined:    name + ": " + value,
	}
}

// Set mutates list per name and value.
//
//   - value == nil means remove the node with this name. Removing from an
//     empty list, or removing a name that is not present, is an error and
//     does not mutate the list.
//   - value != nil and name not found means insert, keeping the list
//     sorted ascending by case-folded name.
//   - value != nil and name found means replace the value in place; the
//     node's position does not change.
//
// name must be non-empty.
func (l *List) Set(name string, value *string) error {
	if name == "" {
		return newError(HeaderListMisuse, "name is required")
	}
	lower := strings.ToLower(name)

	idx, found := l.find(lower)

	if value == nil {
		if !found {
			return newError(HeaderListMisuse, "cannot remove absent name \""+name+"\"")
		}
		l.nodes = append(l.nodes[:idx], l.nodes[idx+1:]...)
		return nil
	}

	if found {
		n := l.nodes[idx]
		n.Name = name
		n.Value = *value
		n.joined = name + ": " + *value
		return nil
	}

	node := makeNode(name, *value)
	l.nodes = append(l.nodes, nil)
	copy(l.nodes[idx+1:], l.nodes[idx:])
	l.nodes[idx] = node
	return nil
}

// find returns the index at which lowerName is (or should be inserted to
// remain sorted), and whether it is already present.
func (l *List) find(lowerName string) (int, bool) {
	idx := sort.Search(len(l.nodes), func(i int) bool {
		return l.nodes[i].lowerName >= lowerName
	})
	if idx < len(l.nodes) && l.nodes[idx].lowerName == lowerName {
		return idx, true
	}
	return idx, false
}

// Get returns the value stored for name (case-insensitive) and whether it
// was present.
func (l *List) Get(name string) (string, bool) {
	idx, found := l.find(strings.ToLower(name))
	if !found {
		return "", false
	}
	return l.nodes[idx].Value, true
}
