package walker

import (
	"github.com/wkalt/rosintrospect/fieldtree"
	"github.com/wkalt/rosintrospect/rosmsg"
)

// ValueEntry is one scalar leaf occurrence in decode-preorder.
type ValueEntry struct {
	Leaf  fieldtree.Leaf
	Value rosmsg.Variant
}

// BlobEntry is one array occurrence extracted whole rather than walked
// element by element.
type BlobEntry struct {
	Leaf fieldtree.Leaf
	Data []byte
}

// FlatMessage is the decode target: an ordered list of scalar leaf values
// and an ordered list of blob occurrences, both in field-tree preorder.
// Reset reuses the backing slices across decodes to avoid per-message
// allocation in a hot loop.
type FlatMessage struct {
	Schema *fieldtree.Node

	Values []ValueEntry
	Blobs  []BlobEntry

	storage [][]byte // owned copies backing BlobCopy entries
}

// Reset clears a FlatMessage for reuse, retaining the underlying array
// capacity of its slices.
func (m *FlatMessage) Reset() {
	m.Schema = nil
	m.Values = m.Values[:0]
	m.Blobs = m.Blobs[:0]
	m.storage = m.storage[:0]
}

func cloneIndices(idx []int) []int {
	out := make([]int, len(idx))
	copy(out, idx)
	return out
}
