package primitive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupTableSorted(t *testing.T) {
	for i := 1; i < len(groups); i++ {
		require.Less(t, groups[i-1].name, groups[i].name)
		require.Less(t, groups[i-1].group, groups[i].group)
	}
	for i, g := range groups {
		require.Equal(t, TagGroup(i), g.group)
	}
}

func TestGroupLookups(t *testing.T) {
	for _, g := range AllGroups() {
		byExt, err := GroupFromExtension(g.Extension())
		require.NoError(t, err)
		require.Equal(t, g, byExt)

		byFourCC, err := GroupFromFourCC(g.FourCC())
		require.NoError(t, err)
		require.Equal(t, g, byFourCC)
	}

	_, err := GroupFromExtension("gun")
	require.Error(t, err)
	_, err = GroupFromFourCC(NewFourCC("xxxx"))
	require.Error(t, err)

	none, err := GroupFromFourCC(FourCCNone)
	require.NoError(t, err)
	require.Equal(t, GroupNone, none)
}

func TestGroupVersions(t *testing.T) {
	versions := map[TagGroup]uint16{
		GroupActor: 2, GroupModelAnimations: 4, GroupBiped: 3, GroupBitmap: 7,
		GroupContrail: 3, GroupEffect: 4, GroupDamageEffect: 6, GroupGlobals: 3,
		GroupGBXModel: 5, GroupModel: 4, GroupModelCollisionGeometry: 10,
		GroupParticle: 2, GroupParticleSystem: 4, GroupPhysics: 4,
		GroupProjectile: 5, GroupScenario: 2, GroupScenarioStructureBSP: 5,
		GroupSound: 4, GroupShaderEnvironment: 2, GroupShaderModel: 2,
		GroupWeapon: 2, GroupUnicodeStringList: 1, GroupWind: 1,
	}
	for g, v := range versions {
		require.Equal(t, v, g.Version(), g.String())
	}
}

func TestSwappedFourCCs(t *testing.T) {
	require.Equal(t, "mgs2", GroupLightVolume.FourCC().String())
	require.Equal(t, "elec", GroupLightning.FourCC().String())
}
