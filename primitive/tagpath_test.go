package primitive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTagPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`weapons\pistol\pistol`, `weapons\pistol\pistol`},
		{`Weapons/Pistol/PISTOL`, `weapons\pistol\pistol`},
		{`\\weapons\\\pistol//pistol`, `weapons\pistol\pistol`},
		{`levels\a10\`, `levels\a10`},
		{`ui\shell//`, `ui\shell`},
		{`/`, ``},
		{``, ``},
		{`a.b\c..d`, `a.b\c..d`},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			p, err := NewTagPath(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, p.String())

			again, err := NewTagPath(p.String())
			require.NoError(t, err)
			require.Equal(t, p, again)
			require.NotContains(t, p.String(), `\\`)
			require.Equal(t, strings.ToLower(p.String()), p.String())
		})
	}
}

func TestNewTagPathRejects(t *testing.T) {
	for _, in := range []string{
		`weapons\pis<tol`, `a>b`, `c:\tags`, `"q"`, `a|b`, `what?`, `star*`,
		`caf` + "\xc3\xa9", `levels\..\secret`, `.\a`, "nul\x00",
	} {
		_, err := NewTagPath(in)
		require.Error(t, err, in)
	}
}

func TestMatch(t *testing.T) {
	require.True(t, Match(`weapons\pistol\pistol`, `weapons/*`))
	require.True(t, Match(`weapons\pistol\pistol`, `*\pistol`))
	require.True(t, Match(`weapons\pistol\pistol`, `weapons\p?stol\*`))
	require.True(t, Match(`abc`, `***`))
	require.False(t, Match(`weapons\pistol`, `weapons\rifle*`))
	require.False(t, Match(`ab`, `a?b`))
	require.True(t, Match(``, `*`))
}

func TestTagReference(t *testing.T) {
	ref, err := ParseTagReference(`Weapons/Pistol/Pistol.weapon`)
	require.NoError(t, err)
	require.Equal(t, GroupWeapon, ref.Group)
	require.Equal(t, `weapons\pistol\pistol.weapon`, ref.String())

	_, err = ParseTagReference(`weapons\pistol\pistol`)
	require.Error(t, err)
	_, err = ParseTagReference(`weapons\pistol\pistol.gun`)
	require.Error(t, err)

	require.True(t, NullReference.IsNull())
}
