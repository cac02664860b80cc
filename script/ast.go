// Package script lowers a parsed script syntax tree into the engine's
// script node table.
//
// The parser is somebody else's job: Compile takes a flat table of Nodes
// whose Next and Child fields link siblings and arguments by index, and
// resolves the symbolic values in it against the scenario and HUD tags the
// scripts belong to.
package script

import (
	"fmt"

	"github.com/32bitkid/blam/errs"
)

// ValueType is a script value type. The order matches the engine's enum.
type ValueType uint16

const (
	Unparsed ValueType = iota
	SpecialForm
	FunctionName
	Passthrough
	Void
	Boolean
	Real
	Short
	Long
	String
	Script
	TriggerVolume
	CutsceneFlag
	CutsceneCameraPoint
	CutsceneTitle
	CutsceneRecording
	DeviceGroup
	AI
	AICommandList
	StartingProfile
	Conversation
	Navpoint
	HUDMessage
	ObjectList
	Sound
	Effect
	Damage
	LoopingSound
	AnimationGraph
	ActorVariant
	DamageEffect
	ObjectDefinition
	GameDifficulty
	Team
	AIDefaultState
	ActorType
	HUDCorner
	Object
	Unit
	Vehicle
	Weapon
	Device
	Scenery
	ObjectName
	UnitName
	VehicleName
	WeaponName
	DeviceName
	SceneryName
	valueTypeCount
)

var valueTypeNames = [valueTypeCount]string{
	"unparsed", "special_form", "function_name", "passthrough", "void",
	"boolean", "real", "short", "long", "string", "script",
	"trigger_volume", "cutscene_flag", "cutscene_camera_point",
	"cutscene_title", "cutscene_recording", "device_group", "ai",
	"ai_command_list", "starting_profile", "conversation", "navpoint",
	"hud_message", "object_list", "sound", "effect", "damage",
	"looping_sound", "animation_graph", "actor_variant", "damage_effect",
	"object_definition", "game_difficulty", "team", "ai_default_state",
	"actor_type", "hud_corner", "object", "unit", "vehicle", "weapon",
	"device", "scenery", "object_name", "unit_name", "vehicle_name",
	"weapon_name", "device_name", "scenery_name",
}

func (t ValueType) String() string {
	if t < valueTypeCount {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("value_type(%d)", uint16(t))
}

// ParseValueType looks a value type up by its engine name.
func ParseValueType(name string) (ValueType, error) {
	for i, n := range valueTypeNames {
		if n == name {
			return ValueType(i), nil
		}
	}
	return 0, errs.Invalidf("unknown script value type %q", name)
}

// NodeClass says what a node does when evaluated.
type NodeClass uint8

const (
	// Primitive nodes hold a value or name a variable.
	Primitive NodeClass = iota
	// Call nodes call an engine function.
	Call
	// ScriptCall nodes call a script defined in the scenario.
	ScriptCall
)

// Scope is where a primitive's value comes from.
type Scope uint8

const (
	Static Scope = iota
	Local
	Global
)

// None marks a missing Next or Child link.
const None = -1

// Location is a position in script source.
type Location struct {
	File         string
	Line, Column int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Node is one entry of a syntax tree.
//
// A primitive either carries its value inline (Inline set, with Bool, Short,
// Long or Real filled in according to Type) or names a symbol in String
// that Compile resolves. Calls and variable references use Index for the
// function, script, global or parameter index.
type Node struct {
	Type  ValueType
	Class NodeClass
	Scope Scope
	Index uint16

	Inline bool
	Bool   bool
	Short  int16
	Long   int32
	Real   float32

	// String is the source token, kept in the string data for every node.
	String string

	// Next and Child are indices into the node table, or None. The zero
	// Node links both to node 0, so nodes built by hand must set them;
	// Leaf and NewCall do.
	Next, Child int
	Location    Location
}

// Leaf returns a static primitive with no links.
func Leaf(t ValueType, token string) Node {
	return Node{Type: t, Class: Primitive, String: token, Next: None, Child: None}
}

// NewCall returns a call of engine function fn whose first argument node
// is child. The call has no sibling yet.
func NewCall(t ValueType, fn uint16, token string, child int) Node {
	return Node{Type: t, Class: Call, Index: fn, String: token, Next: None, Child: child}
}
