package script

import (
	"strings"

	"github.com/32bitkid/blam/errs"
)

// Feature is an optional part of the scripting language.
type Feature uint32

const (
	// FeatureScriptParameters allows local variables.
	FeatureScriptParameters Feature = 1 << iota
)

// EngineTarget is a scripting dialect.
type EngineTarget struct {
	Name           string
	MaxScriptNodes int
	Features       Feature
}

var targets = []EngineTarget{
	{Name: "xbox", MaxScriptNodes: 19001},
	{Name: "pc", MaxScriptNodes: 19001},
	{Name: "custom_edition", MaxScriptNodes: 19001},
	{Name: "mcc", MaxScriptNodes: 32767, Features: FeatureScriptParameters},
}

// Targets lists the known dialects.
func Targets() []EngineTarget {
	return append([]EngineTarget(nil), targets...)
}

// TargetByName finds a dialect ignoring case.
func TargetByName(name string) (EngineTarget, error) {
	for _, t := range targets {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return EngineTarget{}, errs.Invalidf("unknown engine target %q", name)
}

// Has reports whether f is supported.
func (t EngineTarget) Has(f Feature) bool { return t.Features&f != 0 }

// TypeCode is the encoded form of v. Every dialect so far shares the
// engine's original enum.
func (t EngineTarget) TypeCode(v ValueType) (uint16, error) {
	if v >= valueTypeCount {
		return 0, errs.Invalidf("unknown value type %d", uint16(v))
	}
	return uint16(v), nil
}
