package walker_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/rosintrospect/fieldtree"
	"github.com/wkalt/rosintrospect/ros1"
	"github.com/wkalt/rosintrospect/rosmsg"
	"github.com/wkalt/rosintrospect/walker"
)

// buildBlobSchema compiles "uint8[] data; uint32 tail;" directly against
// the data model, without going through msgdef.
func buildBlobSchema(t *testing.T) *fieldtree.Node {
	t.Helper()
	lib := rosmsg.NewMessageLibrary()
	dataType := rosmsg.NewBuiltinType(rosmsg.UINT8)
	dataType.ArrayKind = rosmsg.ArrayDynamic
	root := &rosmsg.ROSMessage{
		Type: rosmsg.NewCompositeType("test", "Blob"),
		Fields: []rosmsg.ROSField{
			{Name: "data", Type: dataType},
			{Name: "tail", Type: rosmsg.NewBuiltinType(rosmsg.UINT32)},
		},
	}
	tree, err := fieldtree.Build(lib, root, "blob")
	require.NoError(t, err)
	return tree
}

func TestBlobExtraction(t *testing.T) {
	tree := buildBlobSchema(t)

	enc := ros1.NewEncoder()
	enc.WriteArrayLength(101)
	for i := 0; i < 101; i++ {
		enc.WriteUint8(uint8(i))
	}
	enc.WriteUint32(42)

	dec := ros1.NewDecoder(enc.Bytes())
	policy := walker.Policy{MaxArraySize: 100, Blob: walker.BlobAlias}

	var flat walker.FlatMessage
	complete, err := walker.Decode(tree, dec, policy, &flat)
	require.NoError(t, err)
	require.True(t, complete) // blob extraction is not a "skip", so parse stays complete

	require.Len(t, flat.Blobs, 1)
	require.Equal(t, 101, len(flat.Blobs[0].Data))
	for i, b := range flat.Blobs[0].Data {
		require.Equal(t, byte(i), b)
	}

	require.Len(t, flat.Values, 1)
	require.Equal(t, uint32(42), flat.Values[0].Value.Raw().(uint32))
}

func TestBlobAliasingSharesBackingArray(t *testing.T) {
	tree := buildBlobSchema(t)

	enc := ros1.NewEncoder()
	enc.WriteArrayLength(101)
	for i := 0; i < 101; i++ {
		enc.WriteUint8(uint8(i))
	}
	enc.WriteUint32(42)
	buf := enc.Bytes()

	dec := ros1.NewDecoder(buf)
	policy := walker.Policy{MaxArraySize: 100, Blob: walker.BlobAlias}
	var flat walker.FlatMessage
	_, err := walker.Decode(tree, dec, policy, &flat)
	require.NoError(t, err)

	require.Len(t, flat.Blobs, 1)
	require.Same(t, &buf[4], &flat.Blobs[0].Data[0]) // length prefix is 4 bytes
}

func TestBlobCopyPolicyOwnsStorage(t *testing.T) {
	tree := buildBlobSchema(t)

	enc := ros1.NewEncoder()
	enc.WriteArrayLength(101)
	for i := 0; i < 101; i++ {
		enc.WriteUint8(uint8(i))
	}
	enc.WriteUint32(42)
	buf := enc.Bytes()

	dec := ros1.NewDecoder(buf)
	policy := walker.Policy{MaxArraySize: 100, Blob: walker.BlobCopy}
	var flat walker.FlatMessage
	_, err := walker.Decode(tree, dec, policy, &flat)
	require.NoError(t, err)

	require.Len(t, flat.Blobs, 1)
	require.NotSame(t, &buf[4], &flat.Blobs[0].Data[0])
	require.Equal(t, buf[4:4+101], flat.Blobs[0].Data)
}

// buildLargeCompositeArraySchema gives a non-byte-wide array element type so
// the large-array path hits the discard/truncate branch instead of blob
// extraction.
func buildLargeCompositeArraySchema(t *testing.T) *fieldtree.Node {
	t.Helper()
	lib := rosmsg.NewMessageLibrary()
	elem := &rosmsg.ROSMessage{
		Type: rosmsg.NewCompositeType("test", "Elem"),
		Fields: []rosmsg.ROSField{
			{Name: "v", Type: rosmsg.NewBuiltinType(rosmsg.INT32)},
		},
	}
	lib.Add(elem)

	elemType := rosmsg.NewCompositeType("test", "Elem")
	elemType.ArrayKind = rosmsg.ArrayDynamic
	root := &rosmsg.ROSMessage{
		Type: rosmsg.NewCompositeType("test", "Root"),
		Fields: []rosmsg.ROSField{
			{Name: "items", Type: elemType},
		},
	}
	tree, err := fieldtree.Build(lib, root, "root")
	require.NoError(t, err)
	return tree
}

func TestLargeArrayDiscardPolicy(t *testing.T) {
	tree := buildLargeCompositeArraySchema(t)

	enc := ros1.NewEncoder()
	enc.WriteArrayLength(5)
	for i := 0; i < 5; i++ {
		enc.WriteInt32(int32(i))
	}

	dec := ros1.NewDecoder(enc.Bytes())
	policy := walker.Policy{MaxArraySize: 2, DiscardLargeArrays: true}
	var flat walker.FlatMessage
	complete, err := walker.Decode(tree, dec, policy, &flat)
	require.NoError(t, err)
	require.False(t, complete)
	require.Empty(t, flat.Values) // entire sub-tree discarded
}

func TestLargeArrayKeepTruncatesRecording(t *testing.T) {
	tree := buildLargeCompositeArraySchema(t)

	enc := ros1.NewEncoder()
	enc.WriteArrayLength(5)
	for i := 0; i < 5; i++ {
		enc.WriteInt32(int32(i))
	}

	dec := ros1.NewDecoder(enc.Bytes())
	policy := walker.Policy{MaxArraySize: 2, DiscardLargeArrays: false}
	var flat walker.FlatMessage
	complete, err := walker.Decode(tree, dec, policy, &flat)
	require.NoError(t, err)
	require.False(t, complete)
	require.Len(t, flat.Values, 2) // only the first MaxArraySize elements recorded
}

// TestFixedByteArrayNeverBlobbed exercises a fixed (non-dynamic) byte-wide
// array longer than MaxArraySize. Blob extraction only applies to dynamic
// arrays, so a fixed uint8[150] must decode as ordinary scalar leaves, never
// as a blob, regardless of its length.
func TestFixedByteArrayNeverBlobbed(t *testing.T) {
	lib := rosmsg.NewMessageLibrary()
	fixed := rosmsg.NewBuiltinType(rosmsg.UINT8)
	fixed.ArrayKind = rosmsg.ArrayFixed
	fixed.ArraySize = 150
	root := &rosmsg.ROSMessage{
		Type:   rosmsg.NewCompositeType("test", "Root"),
		Fields: []rosmsg.ROSField{{Name: "data", Type: fixed}},
	}
	tree, err := fieldtree.Build(lib, root, "root")
	require.NoError(t, err)

	enc := ros1.NewEncoder()
	for i := 0; i < 150; i++ {
		enc.WriteUint8(uint8(i))
	}

	dec := ros1.NewDecoder(enc.Bytes())
	policy := walker.Policy{MaxArraySize: 100, Blob: walker.BlobAlias}
	var flat walker.FlatMessage
	complete, err := walker.Decode(tree, dec, policy, &flat)
	require.NoError(t, err)
	require.True(t, complete) // fixed arrays never flip entire_message_parse
	require.Empty(t, flat.Blobs)
	require.Len(t, flat.Values, 100) // recording still truncates past MaxArraySize
	require.Equal(t, 0, dec.Remaining())
}

func TestEmptyDynamicArray(t *testing.T) {
	tree := buildBlobSchema(t)
	enc := ros1.NewEncoder()
	enc.WriteArrayLength(0)
	enc.WriteUint32(7)

	dec := ros1.NewDecoder(enc.Bytes())
	policy := walker.Policy{MaxArraySize: 100}
	var flat walker.FlatMessage
	complete, err := walker.Decode(tree, dec, policy, &flat)
	require.NoError(t, err)
	require.True(t, complete)
	require.Empty(t, flat.Blobs)
	require.Len(t, flat.Values, 1)
	require.Equal(t, uint32(7), flat.Values[0].Value.Raw().(uint32))
}

func TestPreorderValueOrder(t *testing.T) {
	lib := rosmsg.NewMessageLibrary()
	root := &rosmsg.ROSMessage{
		Type: rosmsg.NewCompositeType("test", "Root"),
		Fields: []rosmsg.ROSField{
			{Name: "a", Type: rosmsg.NewBuiltinType(rosmsg.INT32)},
			{Name: "b", Type: rosmsg.NewBuiltinType(rosmsg.INT32)},
			{Name: "c", Type: rosmsg.NewBuiltinType(rosmsg.INT32)},
		},
	}
	tree, err := fieldtree.Build(lib, root, "root")
	require.NoError(t, err)

	enc := ros1.NewEncoder()
	enc.WriteInt32(1)
	enc.WriteInt32(2)
	enc.WriteInt32(3)

	dec := ros1.NewDecoder(enc.Bytes())
	var flat walker.FlatMessage
	_, err = walker.Decode(tree, dec, walker.DefaultPolicy(), &flat)
	require.NoError(t, err)

	require.Equal(t, []string{"root/a", "root/b", "root/c"}, []string{
		flat.Values[0].Leaf.Path(), flat.Values[1].Leaf.Path(), flat.Values[2].Leaf.Path(),
	})
	require.Equal(t, int32(1), flat.Values[0].Value.Raw().(int32))
	require.Equal(t, int32(2), flat.Values[1].Value.Raw().(int32))
	require.Equal(t, int32(3), flat.Values[2].Value.Raw().(int32))
}
