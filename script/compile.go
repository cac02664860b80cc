package script

import (
	"fmt"
	"math"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/internal/logger"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag"
)

const (
	// consoleNodes stay free for expressions typed at the console.
	consoleNodes = 32
	// consoleStringSpace zero bytes follow the string data for the same
	// reason.
	consoleStringSpace = 1024
)

type Options struct {
	Target EngineTarget
	// ResolveObject finds the group of an object definition by path.
	ResolveObject func(path string) (primitive.TagGroup, bool)
	Logger        logger.Logger
}

// DefaultOptions targets Custom Edition.
func DefaultOptions() Options {
	t, _ := TargetByName("custom_edition")
	return Options{Target: t}
}

// Input is everything a compile reads. The HUD tags are only needed when
// the scripts name HUD messages or navpoints.
type Input struct {
	Nodes       []Node
	Scenario    *tag.Struct
	HUDMessages *tag.Struct
	HUDGlobals  *tag.Struct
	Options     Options
}

// Output is the compiled form of a scenario's scripts.
type Output struct {
	SyntaxData []byte
	StringData []byte
	// References replaces the scenario's references table. It keeps the
	// scenario's existing references first.
	References []primitive.TagReference
	NodeCount  int
}

// CompileError points at the node that failed.
type CompileError struct {
	Node     int
	Location Location
	Err      error
}

func (e *CompileError) Error() string { return fmt.Sprintf("%s: %v", e.Location, e.Err) }

func (e *CompileError) Unwrap() error { return e.Err }

type compiler struct {
	in *Input

	strings    map[string]uint32
	stringData []byte

	refs     []primitive.TagReference
	refIndex map[uint64][]int
}

// Compile lowers a syntax tree into a script node table.
func Compile(in Input) (*Output, error) {
	target := in.Options.Target
	log := logger.OrDiscard(in.Options.Logger).WithGroup("script")
	if target.MaxScriptNodes <= 0 {
		return nil, errs.Invalid("no engine target selected")
	}
	count := len(in.Nodes)
	if count+consoleNodes > target.MaxScriptNodes || target.MaxScriptNodes > math.MaxUint16 {
		return nil, errs.Limitf("%d script nodes do not fit in %d with %d kept free", count, target.MaxScriptNodes, consoleNodes)
	}

	c := &compiler{
		in:       &in,
		strings:  map[string]uint32{},
		refIndex: map[uint64][]int{},
	}
	if in.Scenario != nil {
		for _, r := range in.Scenario.Reflexive("references") {
			if ref := r.Reference("reference"); !ref.IsNull() {
				c.reference(ref)
			}
		}
	}

	syntax := make([]byte, 0, headerSize+target.MaxScriptNodes*nodeSize)
	syntax = appendHeader(syntax, target.MaxScriptNodes, count)
	for i := range in.Nodes {
		raw, err := c.lower(i)
		if err != nil {
			return nil, &CompileError{Node: i, Location: in.Nodes[i].Location, Err: err}
		}
		syntax = raw.append(syntax)
	}
	syntax = append(syntax, make([]byte, (target.MaxScriptNodes-count)*nodeSize)...)

	log.Debug("compiled scripts", "target", target.Name, "nodes", count, "references", len(c.refs), "string_bytes", len(c.stringData))
	return &Output{
		SyntaxData: syntax,
		StringData: append(c.stringData, make([]byte, consoleStringSpace)...),
		References: c.refs,
		NodeCount:  count,
	}, nil
}

func (c *compiler) lower(i int) (RawNode, error) {
	n := &c.in.Nodes[i]
	if int(n.Class) >= len(classFlags) {
		return RawNode{}, errs.Invalidf("unknown node class %d", n.Class)
	}
	if int(n.Scope) >= len(scopeFlags) {
		return RawNode{}, errs.Invalidf("unknown primitive scope %d", n.Scope)
	}
	code, err := c.in.Options.Target.TypeCode(n.Type)
	if err != nil {
		return RawNode{}, err
	}
	next, err := c.link(i, n.Next)
	if err != nil {
		return RawNode{}, err
	}

	raw := RawNode{
		Salt:         uint16(GenerateID(i) >> 16),
		Type:         code,
		Flags:        classFlags[n.Class] | FlagGarbageCollectable,
		Next:         next,
		StringOffset: c.intern(n.String),
	}
	switch n.Class {
	case Primitive:
		raw.IndexUnion = code
		raw.Flags |= scopeFlags[n.Scope]
		raw.Data, err = c.primitiveData(n)
	default:
		raw.IndexUnion = n.Index
		raw.Data, err = c.link(i, n.Child)
	}
	return raw, err
}

// link encodes a link from node i to node j. A node never links to itself.
func (c *compiler) link(i, j int) (uint32, error) {
	if j == None {
		return noneLong, nil
	}
	if j < 0 || j >= len(c.in.Nodes) {
		return 0, errs.Invalidf("link to node %d of %d", j, len(c.in.Nodes))
	}
	if j == i {
		return 0, errs.Invalidf("node %d links to itself", i)
	}
	return GenerateID(j), nil
}

func (c *compiler) primitiveData(n *Node) (uint32, error) {
	switch {
	case n.Scope == Local && !c.in.Options.Target.Has(FeatureScriptParameters):
		return 0, errs.Unsupportedf("%s scripts have no parameters", c.in.Options.Target.Name)
	case n.Scope != Static:
		return shortData(n.Index), nil
	case n.Inline:
		return inlineData(n)
	case n.String == "":
		return 0, errs.Invalidf("%s primitive has no value", n.Type)
	}
	r := resolvers[n.Type]
	if r == nil {
		return 0, errs.Unsupportedf("%s values cannot be named", n.Type)
	}
	return r(c, n)
}

func inlineData(n *Node) (uint32, error) {
	switch n.Type {
	case Boolean:
		if n.Bool {
			return 1 << 24, nil
		}
		return 0, nil
	case Real:
		return math.Float32bits(n.Real), nil
	case Long, AI:
		return uint32(n.Long), nil
	case String, Sound, Effect, Damage, LoopingSound, AnimationGraph, ActorVariant, DamageEffect, ObjectDefinition:
		return 0, errs.Invalidf("%s values cannot be inlined", n.Type)
	}
	return shortData(uint16(n.Short)), nil
}

// intern adds s to the string data once and returns its offset.
func (c *compiler) intern(s string) uint32 {
	if off, ok := c.strings[s]; ok {
		return off
	}
	off := uint32(len(c.stringData))
	c.stringData = append(append(c.stringData, s...), 0)
	c.strings[s] = off
	return off
}

// ApplyToScenario stores compiled scripts in a scenario tag.
func ApplyToScenario(s *tag.Struct, out *Output) error {
	if err := s.SetData("script_syntax_data", out.SyntaxData); err != nil {
		return err
	}
	if err := s.SetData("script_string_data", out.StringData); err != nil {
		return err
	}
	if err := s.SetReflexive("references", nil); err != nil {
		return err
	}
	for i, ref := range out.References {
		if err := s.Append("references").SetReference("reference", ref); err != nil {
			return errs.Wrapf(err, "reference %d", i)
		}
	}
	return nil
}
