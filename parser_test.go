package rosintrospect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	rosintrospect "github.com/wkalt/rosintrospect"
	"github.com/wkalt/rosintrospect/cdr"
	"github.com/wkalt/rosintrospect/fieldtree"
	"github.com/wkalt/rosintrospect/ros1"
	"github.com/wkalt/rosintrospect/rosjson"
	"github.com/wkalt/rosintrospect/rosmsg"
	"github.com/wkalt/rosintrospect/rosmsgpack"
	"github.com/wkalt/rosintrospect/walker"
)

const jointStateDef = `std_msgs/Header header
string[] name
float64[3] position
float64[3] velocity
float64[3] effort
================================================================================
MSG: std_msgs/Header
builtin_interfaces/Time stamp
string frame_id
================================================================================
MSG: builtin_interfaces/Time
int32 sec
uint32 nanosec
`

func TestCDRJointStateLeafCountsAndOrder(t *testing.T) {
	p, err := rosintrospect.Compile("joint_state", "test_msgs/JointState", jointStateDef)
	require.NoError(t, err)

	h := cdr.Header{Encoding: cdr.PlainCDR, LittleEndian: true, Version: cdr.XCDRv1}
	enc := cdr.NewEncoder(h)
	enc.Init()
	enc.WriteInt32(10)         // header/stamp/sec
	enc.WriteUint32(20)        // header/stamp/nanosec
	enc.WriteString("base")    // header/frame_id
	enc.WriteArrayLength(3)    // name[]
	enc.WriteString("j1")
	enc.WriteString("j2")
	enc.WriteString("j3")
	for _, v := range []float64{1, 2, 3} {
		enc.WriteFloat64(v) // position
	}
	for _, v := range []float64{4, 5, 6} {
		enc.WriteFloat64(v) // velocity
	}
	for _, v := range []float64{7, 8, 9} {
		enc.WriteFloat64(v) // effort
	}

	var flat walker.FlatMessage
	dec := cdr.NewDecoder(cdr.XCDRv1)
	complete, err := p.Deserialize(enc.Bytes(), &flat, dec, walker.DefaultPolicy())
	require.NoError(t, err)
	require.True(t, complete)
	require.Len(t, flat.Values, 15)

	wantPaths := []string{
		"joint_state/header/stamp/sec",
		"joint_state/header/stamp/nanosec",
		"joint_state/header/frame_id",
		"joint_state/name[0]",
		"joint_state/name[1]",
		"joint_state/name[2]",
		"joint_state/position[0]",
		"joint_state/position[1]",
		"joint_state/position[2]",
		"joint_state/velocity[0]",
		"joint_state/velocity[1]",
		"joint_state/velocity[2]",
		"joint_state/effort[0]",
		"joint_state/effort[1]",
		"joint_state/effort[2]",
	}
	for i, want := range wantPaths {
		require.Equal(t, want, flat.Values[i].Leaf.Path(), "entry %d", i)
	}

	numeric, strings := 0, 0
	for _, v := range flat.Values {
		if v.Value.Type() == rosmsg.STRING {
			strings++
		} else {
			numeric++
		}
	}
	require.Equal(t, 11, numeric)
	require.Equal(t, 4, strings)
}

func TestROS1TimeRoundTrip(t *testing.T) {
	lib := rosmsg.NewMessageLibrary()
	root := &rosmsg.ROSMessage{
		Type:   rosmsg.NewCompositeType("test", "Root"),
		Fields: []rosmsg.ROSField{{Name: "stamp", Type: rosmsg.NewBuiltinType(rosmsg.TIME)}},
	}
	tree, err := fieldtree.Build(lib, root, "root")
	require.NoError(t, err)

	enc := ros1.NewEncoder()
	enc.WriteTime(rosmsg.Time{Sec: 1234, Nsec: 567000000})

	dec := ros1.NewDecoder(enc.Bytes())
	var flat walker.FlatMessage
	_, err = walker.Decode(tree, dec, walker.DefaultPolicy(), &flat)
	require.NoError(t, err)

	tv, err := flat.Values[0].Value.TimeValue()
	require.NoError(t, err)
	require.Equal(t, uint32(1234), tv.Sec)
	require.Equal(t, uint32(567000000), tv.Nsec)
	require.InDelta(t, 1234.567, flat.Values[0].Value.ToFloat64(), 0.001)
}

const blobDef = `uint8[] data
uint32 tail
`

func TestBlobExtractionThroughParserAPI(t *testing.T) {
	p, err := rosintrospect.Compile("blob", "test_msgs/Blob", blobDef)
	require.NoError(t, err)

	enc := ros1.NewEncoder()
	enc.WriteArrayLength(101)
	for i := 0; i < 101; i++ {
		enc.WriteUint8(uint8(i))
	}
	enc.WriteUint32(99)

	var flat walker.FlatMessage
	dec := ros1.NewDecoder(nil)
	complete, err := p.Deserialize(enc.Bytes(), &flat, dec, walker.Policy{MaxArraySize: 100, Blob: walker.BlobAlias})
	require.NoError(t, err)
	require.True(t, complete)

	require.Len(t, flat.Blobs, 1)
	require.Len(t, flat.Blobs[0].Data, 101)
	require.Len(t, flat.Values, 1)
	require.Equal(t, uint32(99), flat.Values[0].Value.Raw().(uint32))
}

const simpleDef = `int32 n
string s
float64 f
`

func TestJSONRoundTripByteEquality(t *testing.T) {
	p, err := rosintrospect.Compile("simple", "test_msgs/Simple", simpleDef)
	require.NoError(t, err)

	origEnc := ros1.NewEncoder()
	origEnc.WriteInt32(77)
	origEnc.WriteString("round-trip")
	origEnc.WriteFloat64(9.5)
	orig := append([]byte(nil), origEnc.Bytes()...)

	dec := ros1.NewDecoder(nil)
	text, complete, err := p.DeserializeIntoJSON(orig, dec, walker.DefaultPolicy(), rosjson.Options{})
	require.NoError(t, err)
	require.True(t, complete)

	reEnc := ros1.NewEncoder()
	out, err := p.SerializeFromJSON(text, reEnc)
	require.NoError(t, err)
	require.Equal(t, orig, out)
}

// TestJSONRoundTripFixedArraysByteEquality checks that a message with
// fixed-size arrays (position/velocity/effort) round-tripped through JSON
// re-encodes byte-for-byte identically to the original - fixed arrays carry
// no length prefix on the wire, so the JSON bridge must not insert one.
func TestJSONRoundTripFixedArraysByteEquality(t *testing.T) {
	p, err := rosintrospect.Compile("joint_state", "test_msgs/JointState", jointStateDef)
	require.NoError(t, err)

	origEnc := ros1.NewEncoder()
	origEnc.WriteInt32(1234)       // header/stamp/sec
	origEnc.WriteUint32(567000000) // header/stamp/nanosec
	origEnc.WriteString("base")    // header/frame_id
	origEnc.WriteArrayLength(3)    // name[]
	for _, s := range []string{"hola", "ciao", "bye"} {
		origEnc.WriteString(s)
	}
	for _, v := range []float64{10, 11, 12} {
		origEnc.WriteFloat64(v) // position
	}
	for _, v := range []float64{30, 31, 32} {
		origEnc.WriteFloat64(v) // velocity
	}
	for _, v := range []float64{50, 51, 52} {
		origEnc.WriteFloat64(v) // effort
	}
	orig := append([]byte(nil), origEnc.Bytes()...)

	dec := ros1.NewDecoder(nil)
	text, complete, err := p.DeserializeIntoJSON(orig, dec, walker.DefaultPolicy(), rosjson.Options{})
	require.NoError(t, err)
	require.True(t, complete)

	reEnc := ros1.NewEncoder()
	out, err := p.SerializeFromJSON(text, reEnc)
	require.NoError(t, err)
	require.Equal(t, orig, out)
}

// TestJSONOmissionDefaultsFixedArray checks that for a fixed array, a JSON
// document omitting "effort" must still encode the declared element count
// as zeros, not an empty array, so every following field stays aligned.
func TestJSONOmissionDefaultsFixedArray(t *testing.T) {
	p, err := rosintrospect.Compile("joint_state", "test_msgs/JointState", jointStateDef)
	require.NoError(t, err)

	out, err := p.SerializeFromJSON(`{
		"header": {"stamp": {"sec": 1234, "nanosec": 567000000}},
		"name": ["hola", "ciao", "bye"],
		"position": [10.0, 11.0, 12.0],
		"velocity": [30.0, 31.0, 32.0]
	}`, ros1.NewEncoder())
	require.NoError(t, err)

	dec := ros1.NewDecoder(out)
	_, err = dec.ReadInt32() // stamp.sec
	require.NoError(t, err)
	_, err = dec.ReadUint32() // stamp.nanosec
	require.NoError(t, err)
	_, err = dec.ReadString() // frame_id
	require.NoError(t, err)
	n, err := dec.ReadArrayLength() // name[]
	require.NoError(t, err)
	require.Equal(t, 3, n)
	for i := 0; i < 3; i++ {
		_, err = dec.ReadString()
		require.NoError(t, err)
	}
	for i := 0; i < 6; i++ { // position[3] + velocity[3]
		_, err = dec.ReadFloat64()
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ { // effort[3], all zero, no length prefix
		v, err := dec.ReadFloat64()
		require.NoError(t, err)
		require.Equal(t, 0.0, v)
	}
	require.Equal(t, 0, dec.Remaining())
}

const jointStateEffortDynamicDef = `string frame_id
float64[] effort
int32 count
`

func TestJSONOmissionDefaults(t *testing.T) {
	p, err := rosintrospect.Compile("joint_state", "test_msgs/Partial", jointStateEffortDynamicDef)
	require.NoError(t, err)

	enc := ros1.NewEncoder()
	out, err := p.SerializeFromJSON(`{"count": 5}`, enc)
	require.NoError(t, err)

	dec := ros1.NewDecoder(out)
	frameID, err := dec.ReadString()
	require.NoError(t, err)
	require.Equal(t, "", frameID)

	n, err := dec.ReadArrayLength()
	require.NoError(t, err)
	require.Equal(t, 0, n)

	count, err := dec.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(5), count)
	require.Equal(t, 0, dec.Remaining())
}

func TestMsgpackMapScenario(t *testing.T) {
	lib := rosmsg.NewMessageLibrary()
	f64 := rosmsg.NewBuiltinType(rosmsg.FLOAT64)
	f64.ArrayKind = rosmsg.ArrayDynamic
	strType := rosmsg.NewBuiltinType(rosmsg.STRING)
	strType.ArrayKind = rosmsg.ArrayDynamic

	root := &rosmsg.ROSMessage{
		Type: rosmsg.NewCompositeType("test_msgs", "JointState"),
		Fields: []rosmsg.ROSField{
			{Name: "position", Type: f64},
			{Name: "name", Type: strType},
		},
	}
	tree, err := fieldtree.Build(lib, root, "joint_state")
	require.NoError(t, err)

	flat := &walker.FlatMessage{
		Schema: tree,
		Values: []walker.ValueEntry{
			{Leaf: fieldtree.Leaf{Node: tree.Children[0], Indices: []int{0}}, Value: rosmsg.NewFloat64(10.0)},
			{Leaf: fieldtree.Leaf{Node: tree.Children[1], Indices: []int{0}}, Value: rosmsg.NewString("hola")},
		},
	}
	require.Equal(t, "joint_state/position[0]", flat.Values[0].Leaf.Path())
	require.Equal(t, "joint_state/name[0]", flat.Values[1].Leaf.Path())

	buf, err := rosintrospect.ConvertToMsgpack(flat)
	require.NoError(t, err)

	direct, err := rosmsgpack.Encode(flat)
	require.NoError(t, err)
	require.Equal(t, direct, buf)
}
