// Package fieldtree compiles a rosmsg.MessageLibrary plus a root message
// into the preorder field tree the introspective walker drives, and renders
// FieldLeaf values back into the stable "/"-joined path strings used as
// leaf keys throughout the engine.
package fieldtree

import (
	"strconv"
	"strings"

	"github.com/wkalt/rosintrospect/rosmsg"
)

// maxDepth bounds recursion so a malformed (non-recursive but very deep)
// schema fails predictably rather than exhausting the goroutine stack.
const maxDepth = 64

// Node is one entry in the compiled preorder tree. The root node is
// synthetic: Field is nil and RootName holds the caller-supplied topic used
// as the path prefix. Every other node owns the ROSField it was expanded
// from; Message is non-nil for composite nodes (>=1 child) and nil for
// leaves (whose type is builtin).
type Node struct {
	RootName  string
	Field     *rosmsg.ROSField
	Message   *rosmsg.ROSMessage
	Children  []*Node
	Parent    *Node
	ancestors []*Node // root..self, inclusive, precomputed once
}

// IsLeaf reports whether this node's type is builtin (no children).
func (n *Node) IsLeaf() bool { return n.Message == nil }

// Root returns the tree root.
func (n *Node) Root() *Node { return n.ancestors[0] }

// Child returns the i-th child in declaration order.
func (n *Node) Child(i int) *Node { return n.Children[i] }

// Name returns this node's field name, or the topic name at the root.
func (n *Node) Name() string {
	if n.Field == nil {
		return n.RootName
	}
	return n.Field.Name
}

// Ancestors returns the root-to-self chain, inclusive.
func (n *Node) Ancestors() []*Node { return n.ancestors }

// Build compiles the field tree rooted at root, resolving composite fields
// against lib. topic becomes the synthetic root node's name and thus the
// path prefix for every rendered leaf.
func Build(lib *rosmsg.MessageLibrary, root *rosmsg.ROSMessage, topic string) (*Node, error) {
	rootNode := &Node{RootName: topic, Message: root}
	rootNode.ancestors = []*Node{rootNode}
	if err := expand(lib, rootNode, root, map[string]bool{root.Type.BaseName: true}, 1); err != nil {
		return nil, err
	}
	return rootNode, nil
}

func expand(lib *rosmsg.MessageLibrary, parent *Node, msg *rosmsg.ROSMessage, onStack map[string]bool, depth int) error {
	if depth > maxDepth {
		return rosmsg.Errorf(rosmsg.RecursiveSchema, "field tree exceeds max depth %d at %s", maxDepth, msg.Type.BaseName)
	}
	for i := range msg.Fields {
		field := msg.Fields[i]
		if field.IsConstant {
			continue // constants never reach the wire and are elided from the tree
		}
		child := &Node{Field: &msg.Fields[i], Parent: parent}
		child.ancestors = append(append([]*Node{}, parent.ancestors...), child)
		parent.Children = append(parent.Children, child)

		if field.Type.IsBuiltin() {
			continue // leaf
		}

		baseName := field.Type.BaseName
		if field.Type.IsArray() {
			// array element type name is carried directly on Type.BaseName
			baseName = field.Type.BaseName
		}
		childMsg, ok := lib.Lookup(baseName)
		if !ok {
			return rosmsg.Errorf(rosmsg.UndefinedType, "undefined type %q referenced by field %q", baseName, field.Name)
		}
		if onStack[childMsg.Type.BaseName] {
			return rosmsg.Errorf(rosmsg.RecursiveSchema, "type %q is recursive", childMsg.Type.BaseName)
		}
		child.Message = childMsg
		onStack[childMsg.Type.BaseName] = true
		if err := expand(lib, child, childMsg, onStack, depth+1); err != nil {
			return err
		}
		delete(onStack, childMsg.Type.BaseName)
	}
	return nil
}

// Leaf is a runtime occupied-leaf reference: a compiled node plus the stack
// of array subscripts collected along the root-to-node path, one entry per
// array ancestor, in the order those ancestors were visited.
type Leaf struct {
	Node    *Node
	Indices []int
}

// Path renders the leaf as the stable "/"-joined key: ancestor names joined
// by "/", with "[k]" appended immediately after the name of each array
// ancestor.
func (l Leaf) Path() string {
	var sb strings.Builder
	idx := 0
	for i, n := range l.Node.Ancestors() {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(n.Name())
		if n.Field != nil && n.Field.IsArray() {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(l.Indices[idx]))
			sb.WriteByte(']')
			idx++
		}
	}
	return sb.String()
}
