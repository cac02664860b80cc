package schema

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

func TestDefaultRoots(t *testing.T) {
	reg := Default()
	for _, g := range []primitive.TagGroup{
		primitive.GroupUnicodeStringList,
		primitive.GroupStringList,
		primitive.GroupBitmap,
		primitive.GroupHUDMessageText,
		primitive.GroupHUDGlobals,
		primitive.GroupScenario,
		primitive.GroupTagCollection,
		primitive.GroupUIWidgetCollection,
		primitive.GroupSoundEnvironment,
		primitive.GroupWind,
		primitive.GroupColorTable,
		primitive.GroupCameraTrack,
		primitive.GroupPointPhysics,
		primitive.GroupPhysics,
		primitive.GroupItemCollection,
		primitive.GroupInputDeviceDefaults,
		primitive.GroupPreferencesNetworkGame,
		primitive.GroupMultiplayerScenarioDescription,
		primitive.GroupScenery,
		primitive.GroupPlaceholder,
		primitive.GroupSoundScenery,
		primitive.GroupProjectile,
		primitive.GroupEquipment,
		primitive.GroupGarbage,
		primitive.GroupWeapon,
		primitive.GroupBiped,
		primitive.GroupVehicle,
		primitive.GroupDeviceMachine,
		primitive.GroupDeviceControl,
		primitive.GroupDeviceLightFixture,
		primitive.GroupActor,
		primitive.GroupActorVariant,
	} {
		def, err := reg.Root(g)
		require.NoError(t, err, g.String())
		require.Equal(t, g, def.Group)
	}

	for _, g := range []primitive.TagGroup{primitive.GroupGBXModel, primitive.GroupObject, primitive.GroupUnit} {
		_, err := reg.Root(g)
		require.ErrorIs(t, err, errs.ErrUnsupported, g.String())
	}
}

func TestObjectRoots(t *testing.T) {
	reg := Default()
	for g, size := range map[primitive.TagGroup]int{
		primitive.GroupScenery:            508,
		primitive.GroupProjectile:         588,
		primitive.GroupEquipment:          944,
		primitive.GroupGarbage:            944,
		primitive.GroupWeapon:             1288,
		primitive.GroupBiped:              1268,
		primitive.GroupVehicle:            1008,
		primitive.GroupDeviceMachine:      804,
		primitive.GroupDeviceControl:      792,
		primitive.GroupDeviceLightFixture: 720,
		primitive.GroupActor:              1272,
		primitive.GroupActorVariant:       568,
	} {
		def, err := reg.Root(g)
		require.NoError(t, err)
		require.Equal(t, size, def.Size(), g.String())
	}

	biped, err := reg.Root(primitive.GroupBiped)
	require.NoError(t, err)
	f, depth := biped.Lookup("model")
	require.NotNil(t, f)
	require.Equal(t, 2, depth)
	require.Equal(t, 0x28, f.Offset)

	weapon, err := reg.Root(primitive.GroupWeapon)
	require.NoError(t, err)
	require.Equal(t, weapon.Size()-12, weapon.Field("triggers").Offset)
	require.Equal(t, 776, weapon.Field("weapon_flags").Offset)
}

func TestBitmapLayout(t *testing.T) {
	def := Default().Struct("bitmap")
	require.Equal(t, 108, def.Size())

	for name, offset := range map[string]int{
		"type":                        0x00,
		"flags":                       0x06,
		"detail_fade_factor":          0x08,
		"compressed_color_plate_data": 0x1C,
		"processed_pixel_data":        0x30,
		"bitmap_group_sequence":       0x54,
		"bitmap_data":                 0x60,
	} {
		f := def.Field(name)
		require.NotNil(t, f, name)
		require.Equal(t, offset, f.Offset, name)
	}

	require.Equal(t, 48, Default().Struct("bitmap_data").Size())
	require.Equal(t, 64, Default().Struct("bitmap_group_sequence").Size())
	require.Equal(t, 32, Default().Struct("bitmap_group_sprite").Size())
}

func TestEngineRootLayouts(t *testing.T) {
	reg := Default()
	for _, tc := range []struct {
		group   primitive.TagGroup
		size    int
		offsets map[string]int
	}{
		{primitive.GroupScenario, 1456, map[string]int{
			"skies":                0x30,
			"predicted_resources":  0xEC,
			"object_names":         0x204,
			"device_groups":        0x288,
			"trigger_volumes":      0x360,
			"recorded_animations":  0x36C,
			"encounters":           0x42C,
			"command_lists":        0x438,
			"ai_conversations":     0x468,
			"script_syntax_data":   0x474,
			"scripts":              0x49C,
			"references":           0x4B4,
			"cutscene_flags":       0x4E4,
			"cutscene_titles":      0x4FC,
			"hud_messages":         0x594,
			"structure_bsps":       0x5A4,
		}},
		{primitive.GroupHUDGlobals, 1104, map[string]int{
			"single_player_font": 0x48,
			"button_icons":       0xC4,
			"help_text_colors":   0xD0,
			"hud_messages":       0xF0,
			"waypoint_arrows":    0x160,
			"default_weapon_hud": 0x2C0,
			"checkpoint_sound":   0x3E0,
		}},
	} {
		def, err := reg.Root(tc.group)
		require.NoError(t, err)
		require.Equal(t, tc.size, def.Size(), tc.group.String())
		for name, offset := range tc.offsets {
			f := def.Field(name)
			require.NotNil(t, f, name)
			require.Equal(t, offset, f.Offset, "%s.%s", tc.group, name)
		}
	}

	for name, size := range map[string]int{
		"scenario_encounter":       176,
		"scenario_squad":           232,
		"scenario_command_list":    96,
		"scenario_ai_conversation": 116,
		"scenario_unit":            120,
		"hud_globals_flash_colors": 32,
	} {
		require.Equal(t, size, reg.Struct(name).Size(), name)
	}
}

func TestSizeIsSumOfFields(t *testing.T) {
	for _, def := range Default().Structs() {
		sum := 0
		for _, f := range def.Fields {
			require.Equal(t, sum, f.Offset, "%s.%s", def.Name, f.Name)
			sum += f.Size()
		}
		require.Equal(t, def.Size(), sum, def.Name)
	}
}

func TestEnumLaw(t *testing.T) {
	for _, e := range Default().Enums() {
		n := len(e.Options)
		for i := 0; i < n; i++ {
			v, err := e.FromU16(uint16(i))
			require.NoError(t, err)
			require.Equal(t, i, v)
		}
		_, err := e.FromU16(uint16(n))
		require.ErrorIs(t, err, errs.ErrMalformedData, e.Name)
	}
}

func TestTagMask(t *testing.T) {
	flags := Default().Bitfield("bitmap_data_flags")
	require.Equal(t, uint32(0xFF), flags.TagMask())

	external, ok := flags.Mask("external")
	require.True(t, ok)
	require.Equal(t, uint32(1<<8), external)

	for _, b := range Default().Bitfields() {
		mask := b.TagMask()
		require.Zero(t, mask&^(uint32(1)<<len(b.Bits)-1), b.Name)
	}
}

func TestScriptValueTypes(t *testing.T) {
	e := Default().Enum("script_value_type")
	require.Len(t, e.Options, 49)
	i, ok := e.Index("short")
	require.True(t, ok)
	require.Equal(t, 7, i)
	require.Equal(t, "scenery_name", e.Option(48))
}

func load(t *testing.T, doc string) (*Registry, error) {
	t.Helper()
	return Load(fstest.MapFS{"test.yaml": {Data: []byte(doc)}})
}

func TestLoadInheritance(t *testing.T) {
	reg, err := load(t, `
structs:
  - name: base
    size: 4
    fields:
      - {name: id, type: uint32}
  - name: derived
    inherits: base
    size: 12
    fields:
      - {name: position, type: point2d, little_endian: true}
`)
	require.NoError(t, err)
	derived := reg.Struct("derived")
	require.Equal(t, BaseFieldName, derived.Fields[0].Name)
	require.Equal(t, reg.Struct("base"), derived.Base())
	require.Equal(t, 4, derived.Field("position").Offset)

	f, depth := derived.Lookup("id")
	require.NotNil(t, f)
	require.Equal(t, 1, depth)

	_, depth = derived.Lookup("missing")
	require.Equal(t, -1, depth)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"size mismatch": `
structs:
  - {name: a, size: 3, fields: [{name: x, type: uint32}]}`,
		"unknown enum": `
structs:
  - {name: a, size: 2, fields: [{name: x, type: enum, enum: nope}]}`,
		"little endian data": `
structs:
  - {name: a, size: 20, fields: [{name: x, type: data, little_endian: true}]}`,
		"array of references": `
structs:
  - {name: a, size: 32, fields: [{name: x, type: tag_reference, count: 2}]}`,
		"unknown group": `
structs:
  - {name: a, size: 0, group: gun, fields: []}`,
		"self containing": `
structs:
  - {name: a, size: 4, fields: [{name: x, type: struct, struct: a}]}`,
		"bad bitfield width": `
bitfields:
  - {name: b, width: 12, fields: [x]}`,
		"unknown type": `
structs:
  - {name: a, size: 4, fields: [{name: x, type: float64}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(t, doc)
			require.Error(t, err)
			require.True(t, errors.Is(err, errs.ErrInvalidInput) || errors.Is(err, errs.ErrLimitExceeded), err.Error())
		})
	}
}
