package msgdef

import (
	"fmt"
	"strings"

	"github.com/wkalt/rosintrospect/fieldtree"
	"github.com/wkalt/rosintrospect/rosmsg"
)

// block is either a parsed MSG: sub-definition or the synthetic root block
// (the definition's leading, unlabeled element list).
type block struct {
	fullName string
	elements []schemaElement
}

// Compiled is the result of compiling one (topic, root type, definition
// text) triple: the library of every composite type reachable from the
// root, the root message itself, and the materialized field tree.
type Compiled struct {
	Library *rosmsg.MessageLibrary
	Root    *rosmsg.ROSMessage
	Tree    *fieldtree.Node
}

// Compile parses defText (the conventional "===" delimited ROS message-
// definition text), resolves every type reachable from rootType ("pkg/Name"),
// and materializes the field tree rooted at it under the given topic name.
func Compile(topic, rootType, defText string) (*Compiled, error) {
	ast, err := definitionParser.ParseString("", defText)
	if err != nil {
		return nil, rosmsg.Wrap(rosmsg.MalformedDefinition, err, "failed to parse message definition")
	}

	rootPkg, _ := rosmsg.PackageOf(rootType)
	if rootPkg == "" {
		return nil, rosmsg.Errorf(rosmsg.MalformedDefinition, "root type %q must be package-qualified", rootType)
	}

	blocksByFull := map[string]*block{
		rootType: {fullName: rootType, elements: ast.Elements},
	}
	blocksByBare := map[string][]*block{}
	addBare := func(b *block) {
		_, bare := rosmsg.PackageOf(b.fullName)
		blocksByBare[bare] = append(blocksByBare[bare], b)
	}
	addBare(blocksByFull[rootType])

	for i := range ast.Definitions {
		def := &ast.Definitions[i]
		b := &block{fullName: def.Header.Type, elements: def.Elements}
		// First definition for a given full name wins; later duplicates are
		// ignored rather than overwriting.
		if _, exists := blocksByFull[b.fullName]; !exists {
			blocksByFull[b.fullName] = b
		}
		addBare(b)
	}

	c := &compiler{
		blocksByFull: blocksByFull,
		blocksByBare: blocksByBare,
		library:      rosmsg.NewMessageLibrary(),
		inProgress:   map[string]bool{},
	}

	rootMsg, err := c.compileMessage(rootType)
	if err != nil {
		return nil, err
	}

	tree, err := fieldtree.Build(c.library, rootMsg, topic)
	if err != nil {
		return nil, err
	}

	return &Compiled{Library: c.library, Root: rootMsg, Tree: tree}, nil
}

type compiler struct {
	blocksByFull map[string]*block
	blocksByBare map[string][]*block
	library      *rosmsg.MessageLibrary
	inProgress   map[string]bool
}

func (c *compiler) compileMessage(baseName string) (*rosmsg.ROSMessage, error) {
	if msg, ok := c.library.Lookup(baseName); ok {
		return msg, nil
	}
	if c.inProgress[baseName] {
		return nil, rosmsg.Errorf(rosmsg.RecursiveSchema, "type %q is recursive", baseName)
	}
	b, ok := c.blocksByFull[baseName]
	if !ok {
		return nil, rosmsg.Errorf(rosmsg.UndefinedType, "undefined type %q", baseName)
	}

	c.inProgress[baseName] = true
	defer delete(c.inProgress, baseName)

	pkg, name := rosmsg.PackageOf(baseName)
	msg := &rosmsg.ROSMessage{Type: rosmsg.NewCompositeType(pkg, name)}

	for _, el := range b.elements {
		switch item := el.(type) {
		case rosFieldAST:
			typ, err := c.resolveTypeToken(item.Type, pkg)
			if err != nil {
				return nil, err
			}
			msg.Fields = append(msg.Fields, rosmsg.ROSField{Name: item.Name, Type: typ})
		case constantAST:
			typ, err := c.resolveTypeToken(item.Type, pkg)
			if err != nil {
				return nil, err
			}
			msg.Fields = append(msg.Fields, rosmsg.ROSField{
				Name:       item.Name,
				Type:       typ,
				IsConstant: true,
				Default:    formatConstant(item.Value),
			})
		default:
			return nil, rosmsg.Errorf(rosmsg.MalformedDefinition, "unrecognized schema element in %q", baseName)
		}
	}

	c.library.Add(msg)
	return msg, nil
}

func (c *compiler) resolveTypeToken(t *rosTypeAST, enclosingPkg string) (rosmsg.Type, error) {
	var typ rosmsg.Type

	if builtin, ok := rosmsg.LookupBuiltin(t.Name); ok && !strings.Contains(t.Name, "/") {
		typ = rosmsg.NewBuiltinType(builtin)
	} else {
		full, err := c.resolveCompositeName(t.Name, enclosingPkg)
		if err != nil {
			return rosmsg.Type{}, err
		}
		childMsg, err := c.compileMessage(full)
		if err != nil {
			return rosmsg.Type{}, err
		}
		typ = rosmsg.NewCompositeType(childMsg.Type.Package, childMsg.Type.Name)
	}

	if t.Array {
		typ.ArrayKind = rosmsg.ArrayDynamic
		if t.FixedSize != nil {
			typ.ArrayKind = rosmsg.ArrayFixed
			typ.ArraySize = *t.FixedSize
		}
	}
	return typ, nil
}

// resolveCompositeName resolves a bare or slash-qualified type name in this
// order: (a) the enclosing package, (b) std_msgs, (c) any block in this
// definition whose bare name matches. Resolution is case-sensitive
// throughout.
func (c *compiler) resolveCompositeName(name, enclosingPkg string) (string, error) {
	if strings.Contains(name, "/") {
		if _, ok := c.blocksByFull[name]; ok {
			return name, nil
		}
		return "", rosmsg.Errorf(rosmsg.UndefinedType, "undefined type %q", name)
	}

	if candidate := enclosingPkg + "/" + name; c.blocksByFull[candidate] != nil {
		return candidate, nil
	}
	if candidate := "std_msgs/" + name; c.blocksByFull[candidate] != nil {
		return candidate, nil
	}
	if blocks, ok := c.blocksByBare[name]; ok && len(blocks) > 0 {
		return blocks[0].fullName, nil
	}
	return "", rosmsg.Errorf(rosmsg.UndefinedType, "undefined type %q", name)
}

func formatConstant(v constantValue) string {
	switch {
	case v.String != nil:
		return *v.String
	case v.Int != nil:
		return fmt.Sprintf("%d", *v.Int)
	case v.Float != nil:
		return fmt.Sprintf("%g", *v.Float)
	default:
		return ""
	}
}
