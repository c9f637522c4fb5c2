// Package msgdef implements the two-pass message-definition compiler: a
// participle grammar for the ROS msg text format, block splitting, type
// resolution against a package-scoped library, and field-tree
// materialization.
package msgdef

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// nolint:gochecknoglobals
var (
	defLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Newline", Pattern: `\s*[\n\r]+`},
		{Name: "Float", Pattern: `[+-]?[0-9]+\.[0-9]+`},
		{Name: "Integer", Pattern: `[+-]?[0-9]+`},
		{Name: "Word", Pattern: `[a-zA-Z0-9_]+`},
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "LBracket", Pattern: `\[`},
		{Name: "RBracket", Pattern: `\]`},
		{Name: "Slash", Pattern: `/`},
		{Name: "Colon", Pattern: `:`},
		{Name: "Equals", Pattern: `=`},
	})

	definitionParser = participle.MustBuild[messageDefinitionAST](
		participle.Lexer(defLexer),
		participle.Union[schemaElement](constantAST{}, rosFieldAST{}),
		// Parsing comments would be nice, but there is no principled way to
		// attach a trailing comment to the field it follows - so we elide.
		participle.Elide("Whitespace", "Newline", "Comment"),
		participle.UseLookahead(1024),
	)
)

type messageDefinitionAST struct {
	Elements    []schemaElement `parser:"@@*"`
	Definitions []definitionAST `parser:"@@*"`
}

type definitionAST struct {
	Header   headerAST       `parser:"Equals+ @@"`
	Elements []schemaElement `parser:"@@*"`
}

type headerAST struct {
	Type string `parser:"'MSG' Colon @(Word ( Slash Word )*)"`
}

type rosFieldAST struct {
	Type *rosTypeAST `parser:"@@"`
	Name string      `parser:"@Word"`
}

type constantAST struct {
	Type  *rosTypeAST    `parser:"@@"`
	Name  string         `parser:"@Word Equals"`
	Value constantValue  `parser:"@@"`
}

type constantValue struct {
	String *string  `parser:"@Word"`
	Int    *int64   `parser:"| @Integer"`
	Float  *float64 `parser:"| @Float"`
}

// rosTypeAST captures a field's type token. FixedSize is a pointer so a
// declared "[0]" (fixed, zero elements) is distinguishable from a bare
// "[]" (dynamic, length-prefixed on the wire).
type rosTypeAST struct {
	Name      string `parser:"@(Word ( Slash Word )*)"`
	Array     bool   `parser:"@LBracket?"`
	FixedSize *int   `parser:"( @Integer RBracket | RBracket )?"`
}

type schemaElement interface{ schemaElement() }

func (rosFieldAST) schemaElement()  {}
func (constantAST) schemaElement()  {}
