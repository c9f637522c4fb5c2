// Package rosintrospect is the schema-driven introspection engine's public
// surface: compile a message definition once into a Parser, then decode
// payloads into a FlatMessage or a JSON document, or encode a JSON document
// back into the binary wire form, against either wire backend.
package rosintrospect

import (
	"github.com/wkalt/rosintrospect/fieldtree"
	"github.com/wkalt/rosintrospect/msgdef"
	"github.com/wkalt/rosintrospect/rosjson"
	"github.com/wkalt/rosintrospect/rosmsg"
	"github.com/wkalt/rosintrospect/rosmsgpack"
	"github.com/wkalt/rosintrospect/walker"
)

// Parser is compiled once per (topic, root type, definition) triple and is
// immutable thereafter; every method is safe to call repeatedly with a
// fresh buffer and a backend the caller owns.
type Parser struct {
	topic    string
	rootType string
	compiled *msgdef.Compiled
}

// Compile parses definitionText (the "===" delimited message-definition
// text) and materializes the field tree rooted at rootType, naming the
// tree's root after topic so every rendered leaf path is prefixed with it.
func Compile(topic, rootType, definitionText string) (*Parser, error) {
	compiled, err := msgdef.Compile(topic, rootType, definitionText)
	if err != nil {
		return nil, err
	}
	return &Parser{topic: topic, rootType: rootType, compiled: compiled}, nil
}

// Topic returns the topic name this Parser was compiled with.
func (p *Parser) Topic() string { return p.topic }

// RootType returns the root type's "pkg/Name" identifier.
func (p *Parser) RootType() string { return p.rootType }

// Tree exposes the compiled field tree, e.g. for callers that want to
// inspect the schema shape without decoding a payload.
func (p *Parser) Tree() *fieldtree.Node { return p.compiled.Tree }

// Library exposes the compiled message library backing this Parser's tree.
func (p *Parser) Library() *rosmsg.MessageLibrary { return p.compiled.Library }

// Deserialize decodes buf using backend (a freshly constructed or reused
// ros1.Decoder / cdr.Decoder) into flat. The returned bool is false iff some
// dynamic array of non-byte-wide elements exceeded the policy's MaxArraySize.
func (p *Parser) Deserialize(
	buf []byte, flat *walker.FlatMessage, backend walker.Decoder, policy walker.Policy,
) (bool, error) {
	if err := backend.Init(buf); err != nil {
		return false, err
	}
	return walker.Decode(p.compiled.Tree, backend, policy, flat)
}

// DeserializeIntoJSON decodes buf using backend and renders the result
// directly as a JSON document.
func (p *Parser) DeserializeIntoJSON(
	buf []byte, backend walker.Decoder, policy walker.Policy, opts rosjson.Options,
) (string, bool, error) {
	if err := backend.Init(buf); err != nil {
		return "", false, err
	}
	return rosjson.Decode(p.compiled.Tree, backend, policy, opts)
}

// SerializeFromJSON parses text as JSON and re-encodes it through
// serializer (a freshly Init'able ros1.Encoder / cdr.Encoder). Fields and
// composites absent from text encode as zero values.
func (p *Parser) SerializeFromJSON(text string, serializer walker.Encoder) ([]byte, error) {
	cur, err := rosjson.ParseCursor(text)
	if err != nil {
		return nil, err
	}
	serializer.Init()
	if err := walker.Encode(p.compiled.Tree, cur, serializer); err != nil {
		return nil, err
	}
	return serializer.Bytes(), nil
}

// ConvertToMsgpack converts a decoded FlatMessage into a single MessagePack
// map.
func ConvertToMsgpack(flat *walker.FlatMessage) ([]byte, error) {
	return rosmsgpack.Encode(flat)
}
