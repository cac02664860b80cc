package script

import (
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag"
	"github.com/32bitkid/blam/tag/schema"
)

// A resolver turns a symbol into node data.
type resolver func(c *compiler, n *Node) (uint32, error)

// source is the tag a symbol table lives in.
type source uint8

const (
	fromScenario source = iota
	fromHUDMessages
	fromHUDGlobals
)

func (s source) String() string {
	switch s {
	case fromHUDMessages:
		return "hud_message_text"
	case fromHUDGlobals:
		return "hud_globals"
	}
	return "scenario"
}

var resolvers = [valueTypeCount]resolver{
	String:              (*compiler).stringValue,
	Script:              byName(fromScenario, "scripts"),
	TriggerVolume:       byName(fromScenario, "trigger_volumes"),
	CutsceneFlag:        byName(fromScenario, "cutscene_flags"),
	CutsceneCameraPoint: byName(fromScenario, "cutscene_camera_points"),
	CutsceneTitle:       byName(fromScenario, "cutscene_titles"),
	CutsceneRecording:   byName(fromScenario, "recorded_animations"),
	DeviceGroup:         byName(fromScenario, "device_groups"),
	AI:                  (*compiler).ai,
	AICommandList:       byName(fromScenario, "command_lists"),
	Conversation:        byName(fromScenario, "ai_conversations"),
	Navpoint:            byName(fromHUDGlobals, "waypoint_arrows"),
	HUDMessage:          byName(fromHUDMessages, "messages"),
	ObjectList:          byName(fromScenario, "object_names"),
	Sound:               reference(primitive.GroupSound),
	Effect:              reference(primitive.GroupEffect),
	Damage:              reference(primitive.GroupDamageEffect),
	LoopingSound:        reference(primitive.GroupSoundLooping),
	AnimationGraph:      reference(primitive.GroupModelAnimations),
	ActorVariant:        reference(primitive.GroupActorVariant),
	DamageEffect:        reference(primitive.GroupDamageEffect),
	ObjectDefinition:    (*compiler).objectDefinition,
	GameDifficulty:      enumeration("easy", "normal", "hard", "impossible"),
	Team:                enumeration("default", "player", "human", "covenant", "flood", "sentinel", "unused6", "unused7", "unused8", "unused9"),
	AIDefaultState:      schemaEnumeration("ai_default_state"),
	ActorType:           schemaEnumeration("actor_type"),
	HUDCorner:           enumeration("top_left", "top_right", "bottom_left", "bottom_right"),
	Object:              byName(fromScenario, "object_names"),
	Unit:                byName(fromScenario, "object_names"),
	Vehicle:             byName(fromScenario, "object_names"),
	Weapon:              byName(fromScenario, "object_names"),
	Device:              byName(fromScenario, "object_names"),
	Scenery:             byName(fromScenario, "object_names"),
	ObjectName:          byName(fromScenario, "object_names"),
	UnitName:            byName(fromScenario, "object_names"),
	VehicleName:         byName(fromScenario, "object_names"),
	WeaponName:          byName(fromScenario, "object_names"),
	DeviceName:          byName(fromScenario, "object_names"),
	SceneryName:         byName(fromScenario, "object_names"),
}

// aiGroups are searched in order for the part of an AI name after the
// slash.
var aiGroups = []struct {
	field string
	tag   uint32
}{
	{"squads", 0x80},
	{"platoons", 0x40},
}

// shortData places v where the engine reads a 16-bit value from the data
// union.
func shortData(v uint16) uint32 { return uint32(v) << 16 }

const (
	noneShort = 0xFFFF
	noneLong  = 0xFFFFFFFF
)

func isNone(s string) bool { return strings.EqualFold(s, "none") }

func (c *compiler) table(src source, field string) ([]*tag.Struct, error) {
	var t *tag.Struct
	switch src {
	case fromScenario:
		t = c.in.Scenario
	case fromHUDMessages:
		t = c.in.HUDMessages
	case fromHUDGlobals:
		t = c.in.HUDGlobals
	}
	if t == nil {
		return nil, errs.Invalidf("resolving %s needs a %s tag", field, src)
	}
	return t.Reflexive(field), nil
}

// findName matches the name field of each element ignoring case.
func findName(elems []*tag.Struct, name string) int {
	for i, e := range elems {
		if strings.EqualFold(e.String32("name"), name) {
			return i
		}
	}
	return -1
}

func byName(src source, field string) resolver {
	return func(c *compiler, n *Node) (uint32, error) {
		if isNone(n.String) {
			return shortData(noneShort), nil
		}
		elems, err := c.table(src, field)
		if err != nil {
			return 0, err
		}
		i := findName(elems, n.String)
		if i < 0 {
			return 0, errs.Invalidf("no %s named %q in %s.%s", n.Type, n.String, src, field)
		}
		if i > math.MaxInt16 {
			return 0, errs.Limitf("%s %q is entry %d of %s.%s", n.Type, n.String, i, src, field)
		}
		return shortData(uint16(i)), nil
	}
}

// ai packs an encounter and an optional squad or platoon:
// type<<24 | sub<<16 | encounter.
func (c *compiler) ai(n *Node) (uint32, error) {
	if isNone(n.String) {
		return noneLong, nil
	}
	encounters, err := c.table(fromScenario, "encounters")
	if err != nil {
		return 0, err
	}
	name, sub, hasSub := strings.Cut(n.String, "/")
	e := findName(encounters, name)
	if e < 0 {
		return 0, errs.Invalidf("no encounter named %q", name)
	}
	if e > math.MaxInt8 {
		return 0, errs.Limitf("encounter %q is entry %d, past %d", name, e, math.MaxInt8)
	}
	if !hasSub {
		return uint32(e), nil
	}
	for _, g := range aiGroups {
		i := findName(encounters[e].Reflexive(g.field), sub)
		if i < 0 {
			continue
		}
		if i > math.MaxInt8 {
			return 0, errs.Limitf("%s %q of encounter %q is entry %d, past %d", g.field, sub, name, i, math.MaxInt8)
		}
		return g.tag<<24 | uint32(i)<<16 | uint32(e), nil
	}
	return 0, errs.Invalidf("encounter %q has no squad or platoon named %q", name, sub)
}

func reference(group primitive.TagGroup) resolver {
	return func(c *compiler, n *Node) (uint32, error) {
		return c.addReference(group, n.String)
	}
}

func (c *compiler) objectDefinition(n *Node) (uint32, error) {
	if c.in.Options.ResolveObject == nil {
		return 0, errs.Invalid("object definitions need an object resolver")
	}
	group, ok := c.in.Options.ResolveObject(n.String)
	if !ok {
		return 0, errs.Invalidf("no object definition at %q", n.String)
	}
	return c.addReference(group, n.String)
}

// addReference records a tag the scripts load. The node itself holds no
// pointer; the engine finds references by position.
func (c *compiler) addReference(group primitive.TagGroup, p string) (uint32, error) {
	path, err := primitive.NewTagPath(p)
	if err != nil {
		return 0, err
	}
	c.reference(primitive.TagReference{Group: group, Path: path})
	return noneLong, nil
}

func (c *compiler) reference(ref primitive.TagReference) {
	key := xxhash.Sum64String(ref.String())
	for _, i := range c.refIndex[key] {
		if c.refs[i].Equal(ref) {
			return
		}
	}
	c.refIndex[key] = append(c.refIndex[key], len(c.refs))
	c.refs = append(c.refs, ref)
}

func enumeration(options ...string) resolver {
	return func(_ *compiler, n *Node) (uint32, error) {
		for i, o := range options {
			if strings.EqualFold(o, n.String) {
				return shortData(uint16(i)), nil
			}
		}
		return 0, errs.Invalidf("%q is not a %s", n.String, n.Type)
	}
}

func schemaEnumeration(name string) resolver {
	def := schema.Default().Enum(name)
	if def == nil {
		errs.Bug("enum %s is missing from the schema", name)
	}
	return enumeration(def.Options...)
}

func (c *compiler) stringValue(n *Node) (uint32, error) {
	return c.intern(n.String), nil
}
