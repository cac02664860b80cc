package primitive

import (
	"sort"

	"github.com/32bitkid/blam/errs"
)

// TagGroup identifies the type of a tag. Values are ordered the same way as
// their extensions so the group table can be searched either way.
type TagGroup uint8

const (
	GroupActor TagGroup = iota
	GroupActorVariant
	GroupAntenna
	GroupBiped
	GroupBitmap
	GroupCameraTrack
	GroupColorTable
	GroupContinuousDamageEffect
	GroupContrail
	GroupDamageEffect
	GroupDecal
	GroupDetailObjectCollection
	GroupDevice
	GroupDeviceControl
	GroupDeviceLightFixture
	GroupDeviceMachine
	GroupDialogue
	GroupEffect
	GroupEquipment
	GroupFlag
	GroupFog
	GroupFont
	GroupGarbage
	GroupGBXModel
	GroupGlobals
	GroupGlow
	GroupGrenadeHUDInterface
	GroupHUDGlobals
	GroupHUDMessageText
	GroupHUDNumber
	GroupInputDeviceDefaults
	GroupItem
	GroupItemCollection
	GroupLensFlare
	GroupLight
	GroupLightVolume
	GroupLightning
	GroupMaterialEffects
	GroupMeter
	GroupModel
	GroupModelAnimations
	GroupModelCollisionGeometry
	GroupMultiplayerScenarioDescription
	GroupObject
	GroupParticle
	GroupParticleSystem
	GroupPhysics
	GroupPlaceholder
	GroupPointPhysics
	GroupPreferencesNetworkGame
	GroupProjectile
	GroupScenario
	GroupScenarioStructureBSP
	GroupScenery
	GroupShader
	GroupShaderEnvironment
	GroupShaderModel
	GroupShaderTransparentChicago
	GroupShaderTransparentChicagoExtended
	GroupShaderTransparentGeneric
	GroupShaderTransparentGlass
	GroupShaderTransparentMeter
	GroupShaderTransparentPlasma
	GroupShaderTransparentWater
	GroupSky
	GroupSound
	GroupSoundEnvironment
	GroupSoundLooping
	GroupSoundScenery
	GroupSpheroid
	GroupStringList
	GroupTagCollection
	GroupUIWidgetCollection
	GroupUIWidgetDefinition
	GroupUnicodeStringList
	GroupUnit
	GroupUnitHUDInterface
	GroupVehicle
	GroupVirtualKeyboard
	GroupWeapon
	GroupWeaponHUDInterface
	GroupWeatherParticleSystem
	GroupWind

	groupCount

	// GroupNone is the group of an empty tag reference.
	GroupNone TagGroup = 0xFF
)

// FourCCNone is written for references whose group is GroupNone.
const FourCCNone FourCC = 0xFFFFFFFF

type groupInfo struct {
	name    string
	fourCC  FourCC
	group   TagGroup
	version uint16
}

// groups is sorted by name. The FourCC column is authoritative: light_volume
// and lightning carry each other's historical four-character codes.
var groups = [groupCount]groupInfo{
	{"actor", NewFourCC("actr"), GroupActor, 2},
	{"actor_variant", NewFourCC("actv"), GroupActorVariant, 1},
	{"antenna", NewFourCC("ant!"), GroupAntenna, 1},
	{"biped", NewFourCC("bipd"), GroupBiped, 3},
	{"bitmap", NewFourCC("bitm"), GroupBitmap, 7},
	{"camera_track", NewFourCC("trak"), GroupCameraTrack, 1},
	{"color_table", NewFourCC("colo"), GroupColorTable, 1},
	{"continuous_damage_effect", NewFourCC("cdmg"), GroupContinuousDamageEffect, 1},
	{"contrail", NewFourCC("cont"), GroupContrail, 3},
	{"damage_effect", NewFourCC("jpt!"), GroupDamageEffect, 6},
	{"decal", NewFourCC("deca"), GroupDecal, 1},
	{"detail_object_collection", NewFourCC("dobc"), GroupDetailObjectCollection, 1},
	{"device", NewFourCC("devi"), GroupDevice, 1},
	{"device_control", NewFourCC("ctrl"), GroupDeviceControl, 1},
	{"device_light_fixture", NewFourCC("lifi"), GroupDeviceLightFixture, 1},
	{"device_machine", NewFourCC("mach"), GroupDeviceMachine, 1},
	{"dialogue", NewFourCC("udlg"), GroupDialogue, 1},
	{"effect", NewFourCC("effe"), GroupEffect, 4},
	{"equipment", NewFourCC("eqip"), GroupEquipment, 1},
	{"flag", NewFourCC("flg!"), GroupFlag, 1},
	{"fog", NewFourCC("fog "), GroupFog, 1},
	{"font", NewFourCC("font"), GroupFont, 1},
	{"garbage", NewFourCC("garb"), GroupGarbage, 1},
	{"gbxmodel", NewFourCC("mod2"), GroupGBXModel, 5},
	{"globals", NewFourCC("matg"), GroupGlobals, 3},
	{"glow", NewFourCC("glw!"), GroupGlow, 1},
	{"grenade_hud_interface", NewFourCC("grhi"), GroupGrenadeHUDInterface, 1},
	{"hud_globals", NewFourCC("hudg"), GroupHUDGlobals, 1},
	{"hud_message_text", NewFourCC("hmt "), GroupHUDMessageText, 1},
	{"hud_number", NewFourCC("hud#"), GroupHUDNumber, 1},
	{"input_device_defaults", NewFourCC("devc"), GroupInputDeviceDefaults, 1},
	{"item", NewFourCC("item"), GroupItem, 1},
	{"item_collection", NewFourCC("itmc"), GroupItemCollection, 1},
	{"lens_flare", NewFourCC("lens"), GroupLensFlare, 1},
	{"light", NewFourCC("ligh"), GroupLight, 1},
	{"light_volume", NewFourCC("mgs2"), GroupLightVolume, 1},
	{"lightning", NewFourCC("elec"), GroupLightning, 1},
	{"material_effects", NewFourCC("foot"), GroupMaterialEffects, 1},
	{"meter", NewFourCC("metr"), GroupMeter, 1},
	{"model", NewFourCC("mode"), GroupModel, 4},
	{"model_animations", NewFourCC("antr"), GroupModelAnimations, 4},
	{"model_collision_geometry", NewFourCC("coll"), GroupModelCollisionGeometry, 10},
	{"multiplayer_scenario_description", NewFourCC("mply"), GroupMultiplayerScenarioDescription, 1},
	{"object", NewFourCC("obje"), GroupObject, 1},
	{"particle", NewFourCC("part"), GroupParticle, 2},
	{"particle_system", NewFourCC("pctl"), GroupParticleSystem, 4},
	{"physics", NewFourCC("phys"), GroupPhysics, 4},
	{"placeholder", NewFourCC("plac"), GroupPlaceholder, 1},
	{"point_physics", NewFourCC("pphy"), GroupPointPhysics, 1},
	{"preferences_network_game", NewFourCC("ngpr"), GroupPreferencesNetworkGame, 1},
	{"projectile", NewFourCC("proj"), GroupProjectile, 5},
	{"scenario", NewFourCC("scnr"), GroupScenario, 2},
	{"scenario_structure_bsp", NewFourCC("sbsp"), GroupScenarioStructureBSP, 5},
	{"scenery", NewFourCC("scen"), GroupScenery, 1},
	{"shader", NewFourCC("shdr"), GroupShader, 1},
	{"shader_environment", NewFourCC("senv"), GroupShaderEnvironment, 2},
	{"shader_model", NewFourCC("soso"), GroupShaderModel, 2},
	{"shader_transparent_chicago", NewFourCC("schi"), GroupShaderTransparentChicago, 1},
	{"shader_transparent_chicago_extended", NewFourCC("scex"), GroupShaderTransparentChicagoExtended, 1},
	{"shader_transparent_generic", NewFourCC("sotr"), GroupShaderTransparentGeneric, 1},
	{"shader_transparent_glass", NewFourCC("sgla"), GroupShaderTransparentGlass, 1},
	{"shader_transparent_meter", NewFourCC("smet"), GroupShaderTransparentMeter, 1},
	{"shader_transparent_plasma", NewFourCC("spla"), GroupShaderTransparentPlasma, 1},
	{"shader_transparent_water", NewFourCC("swat"), GroupShaderTransparentWater, 1},
	{"sky", NewFourCC("sky "), GroupSky, 1},
	{"sound", NewFourCC("snd!"), GroupSound, 4},
	{"sound_environment", NewFourCC("snde"), GroupSoundEnvironment, 1},
	{"sound_looping", NewFourCC("lsnd"), GroupSoundLooping, 1},
	{"sound_scenery", NewFourCC("ssce"), GroupSoundScenery, 1},
	{"spheroid", NewFourCC("boom"), GroupSpheroid, 1},
	{"string_list", NewFourCC("str#"), GroupStringList, 1},
	{"tag_collection", NewFourCC("tagc"), GroupTagCollection, 1},
	{"ui_widget_collection", NewFourCC("Soul"), GroupUIWidgetCollection, 1},
	{"ui_widget_definition", NewFourCC("DeLa"), GroupUIWidgetDefinition, 1},
	{"unicode_string_list", NewFourCC("ustr"), GroupUnicodeStringList, 1},
	{"unit", NewFourCC("unit"), GroupUnit, 1},
	{"unit_hud_interface", NewFourCC("unhi"), GroupUnitHUDInterface, 1},
	{"vehicle", NewFourCC("vehi"), GroupVehicle, 1},
	{"virtual_keyboard", NewFourCC("vcky"), GroupVirtualKeyboard, 1},
	{"weapon", NewFourCC("weap"), GroupWeapon, 2},
	{"weapon_hud_interface", NewFourCC("wphi"), GroupWeaponHUDInterface, 1},
	{"weather_particle_system", NewFourCC("rain"), GroupWeatherParticleSystem, 1},
	{"wind", NewFourCC("wind"), GroupWind, 1},
}

// AllGroups returns every group in table order.
func AllGroups() []TagGroup {
	out := make([]TagGroup, len(groups))
	for i := range groups {
		out[i] = groups[i].group
	}
	return out
}

func (g TagGroup) valid() bool { return g < groupCount }

// Extension returns the group's file extension, or "none".
func (g TagGroup) Extension() string {
	if !g.valid() {
		return "none"
	}
	return groups[g].name
}

// FourCC returns the group's four-character code; GroupNone yields
// FourCCNone.
func (g TagGroup) FourCC() FourCC {
	if !g.valid() {
		return FourCCNone
	}
	return groups[g].fourCC
}

// Version returns the only tag version accepted for the group.
func (g TagGroup) Version() uint16 {
	if !g.valid() {
		return 0
	}
	return groups[g].version
}

func (g TagGroup) String() string { return g.Extension() }

// GroupFromExtension finds a group by extension with a binary search.
func GroupFromExtension(ext string) (TagGroup, error) {
	if ext == "none" {
		return GroupNone, nil
	}
	i := sort.Search(len(groups), func(i int) bool { return groups[i].name >= ext })
	if i < len(groups) && groups[i].name == ext {
		return groups[i].group, nil
	}
	return GroupNone, errs.Invalidf("unknown tag group %q", ext)
}

// GroupFromFourCC finds a group by four-character code. FourCCNone maps to
// GroupNone.
func GroupFromFourCC(f FourCC) (TagGroup, error) {
	if f == FourCCNone {
		return GroupNone, nil
	}
	for i := range groups {
		if groups[i].fourCC == f {
			return groups[i].group, nil
		}
	}
	return GroupNone, errs.Malformedf("unknown tag group FourCC 0x%08X (%q)", uint32(f), f.String())
}
