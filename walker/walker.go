package walker

import (
	"github.com/wkalt/rosintrospect/fieldtree"
	"github.com/wkalt/rosintrospect/rosmsg"
)

// BlobPolicy selects how an extracted blob's bytes are retained relative to
// the decoder's own input buffer.
type BlobPolicy int

const (
	// BlobAlias keeps the blob as a slice aliasing the decoder's buffer.
	// Cheapest, but the buffer must outlive the FlatMessage.
	BlobAlias BlobPolicy = iota
	// BlobCopy copies the blob into storage owned by the FlatMessage.
	BlobCopy
)

// Policy controls how an overlong dynamic array is handled during decode.
type Policy struct {
	// MaxArraySize is the threshold past which a dynamic array triggers
	// blob extraction (byte-wide elements) or the discard/truncate path
	// (everything else). Zero puts every non-empty dynamic array over the
	// threshold and records no array element at all; DefaultPolicy sets 100.
	MaxArraySize int
	// DiscardLargeArrays, when true, stops recording (but still decodes,
	// to keep the cursor advancing correctly) the entire occurrence of a
	// dynamic non-blob array whose length exceeds MaxArraySize.
	DiscardLargeArrays bool
	Blob               BlobPolicy
}

// DefaultPolicy returns a 100-element threshold, large non-blob arrays
// truncated rather than discarded, and blobs aliased rather than copied.
func DefaultPolicy() Policy {
	return Policy{MaxArraySize: 100, DiscardLargeArrays: false, Blob: BlobAlias}
}

// Decode walks tree against dec, filling out in field-tree preorder. The
// returned bool is false if any dynamic array of non-byte-wide elements
// exceeded the policy's MaxArraySize, true otherwise. Byte-wide arrays over
// the threshold are extracted as blobs and fixed arrays never clear it.
func Decode(tree *fieldtree.Node, dec Decoder, policy Policy, out *FlatMessage) (bool, error) {
	out.Reset()
	out.Schema = tree
	complete := true
	if err := decodeMessage(dec, tree, nil, out, policy, &complete, true); err != nil {
		return false, err
	}
	return complete, nil
}

// decodeMessage visits one message instance - the tree root, or one element
// of a composite array - by walking its children in declaration order.
func decodeMessage(
	dec Decoder, node *fieldtree.Node, indices []int,
	out *FlatMessage, policy Policy, complete *bool, active bool,
) error {
	for _, child := range node.Children {
		if err := decodeField(dec, child, indices, out, policy, complete, active); err != nil {
			return err
		}
	}
	return nil
}

// decodeField handles one field occurrence: reading its (possibly
// length-prefixed) array size, applying the blob/discard/truncate policy,
// and either recording a scalar Variant or recursing into decodeMessage for
// each composite element.
func decodeField(
	dec Decoder, fieldNode *fieldtree.Node, indices []int,
	out *FlatMessage, policy Policy, complete *bool, active bool,
) error {
	field := *fieldNode.Field
	isArray := field.IsArray()

	size := 1
	if isArray {
		n := field.ArraySize()
		if n == rosmsg.DynamicSize {
			v, err := dec.ReadArrayLength()
			if err != nil {
				return err
			}
			n = v
		}
		size = n
	}

	arrActive := active
	isDynamicArray := isArray && field.ArraySize() == rosmsg.DynamicSize
	if isDynamicArray && size > policy.MaxArraySize {
		if rosmsg.IsByteWide(field.Type.Builtin) {
			data, err := dec.ReadBytes(size)
			if err != nil {
				return err
			}
			if active {
				leaf := fieldtree.Leaf{Node: fieldNode, Indices: cloneIndices(indices)}
				if policy.Blob == BlobCopy {
					cp := append([]byte(nil), data...)
					out.storage = append(out.storage, cp)
					out.Blobs = append(out.Blobs, BlobEntry{Leaf: leaf, Data: cp})
				} else {
					out.Blobs = append(out.Blobs, BlobEntry{Leaf: leaf, Data: data})
				}
			}
			return nil
		}
		*complete = false
		if policy.DiscardLargeArrays {
			arrActive = false
		}
	}

	childIndices := indices
	if isArray {
		childIndices = append(append([]int{}, indices...), 0)
	}

	for i := 0; i < size; i++ {
		elemActive := arrActive
		if isArray && i >= policy.MaxArraySize {
			elemActive = false
		}
		if isArray {
			childIndices[len(childIndices)-1] = i
		}

		switch {
		case field.Type.Builtin == rosmsg.STRING:
			s, err := dec.ReadString()
			if err != nil {
				return err
			}
			if elemActive {
				out.Values = append(out.Values, ValueEntry{
					Leaf:  fieldtree.Leaf{Node: fieldNode, Indices: cloneIndices(childIndices)},
					Value: rosmsg.NewString(s),
				})
			}
		case field.Type.IsBuiltin():
			v, err := readScalar(dec, field.Type.Builtin)
			if err != nil {
				return err
			}
			if elemActive {
				out.Values = append(out.Values, ValueEntry{
					Leaf:  fieldtree.Leaf{Node: fieldNode, Indices: cloneIndices(childIndices)},
					Value: v,
				})
			}
		default:
			if err := decodeMessage(dec, fieldNode, childIndices, out, policy, complete, elemActive); err != nil {
				return err
			}
		}
	}
	return nil
}
