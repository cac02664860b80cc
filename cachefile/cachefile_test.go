package cachefile

import (
	"bytes"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/32bitkid/blam/errs"
)

func testMap(t *testing.T, engine Engine) []byte {
	t.Helper()
	body := bytes.Repeat([]byte("tag data tag data 0123456789abcdef"), 512)
	h := Header{
		Engine:        engine,
		FileSize:      uint32(HeaderSize + len(body)),
		TagDataOffset: 0x40,
		TagDataSize:   0x100,
		ScenarioName:  "bloodgulch",
		Build:         "01.00.00.0609",
		MapType:       Multiplayer,
	}
	hb, err := h.Bytes()
	require.NoError(t, err)
	return append(hb, body...)
}

func TestHeaderRoundTrip(t *testing.T) {
	b := testMap(t, EngineCustomEdition)
	require.Equal(t, []byte("daeh"), b[:4])
	require.Equal(t, []byte("toof"), b[HeaderSize-4:HeaderSize])

	h, err := ParseHeader(b)
	require.NoError(t, err)
	require.Equal(t, EngineCustomEdition, h.Engine)
	require.Equal(t, "bloodgulch", h.ScenarioName)
	require.Equal(t, "01.00.00.0609", h.Build)
	require.Equal(t, Multiplayer, h.MapType)
	require.Equal(t, uint32(len(b)), h.FileSize)

	hb, err := h.Bytes()
	require.NoError(t, err)
	require.Equal(t, b[:HeaderSize], hb)

	_, err = Header{ScenarioName: "a scenario name that is far too long"}.Bytes()
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestParseHeaderRejects(t *testing.T) {
	b := testMap(t, EngineXbox)

	_, err := ParseHeader(b[:HeaderSize-1])
	require.ErrorIs(t, err, errs.ErrMalformedData)

	bad := bytes.Clone(b)
	copy(bad, "head")
	_, err = ParseHeader(bad)
	require.ErrorIs(t, err, errs.ErrMalformedData)

	bad = bytes.Clone(b)
	bad[HeaderSize-1] = 0
	_, err = ParseHeader(bad)
	require.ErrorIs(t, err, errs.ErrMalformedData)
}

func TestCompressRoundTrip(t *testing.T) {
	for _, engine := range []Engine{EngineXbox, EnginePC, EngineCustomEdition} {
		t.Run(engine.String(), func(t *testing.T) {
			plain := testMap(t, engine)
			packed, err := Compress(plain)
			require.NoError(t, err)
			require.Less(t, len(packed), len(plain))
			require.Equal(t, plain[:HeaderSize], packed[:HeaderSize])

			unpacked, err := Decompress(packed)
			require.NoError(t, err)
			require.Equal(t, plain, unpacked)

			_, err = Compress(packed)
			require.ErrorIs(t, err, errs.ErrMalformedData)
		})
	}
}

func TestCompressUnsupportedEngine(t *testing.T) {
	_, err := Compress(testMap(t, EngineDemo))
	require.ErrorIs(t, err, errs.ErrUnsupported)
	_, err = Decompress(testMap(t, Engine(42)))
	require.ErrorIs(t, err, errs.ErrUnsupported)
}

func TestDecompressChecksSize(t *testing.T) {
	plain := testMap(t, EngineXbox)
	packed, err := Compress(plain)
	require.NoError(t, err)

	h, err := ParseHeader(packed)
	require.NoError(t, err)
	h.FileSize -= 16
	hb, err := h.Bytes()
	require.NoError(t, err)
	_, err = Decompress(append(hb, packed[HeaderSize:]...))
	require.ErrorIs(t, err, errs.ErrMalformedData)

	_, err = Decompress(append(bytes.Clone(packed[:HeaderSize]), 1, 2, 3))
	require.ErrorIs(t, err, errs.ErrMalformedData)
}

func TestCRC32(t *testing.T) {
	b := testMap(t, EnginePC)
	want := crc32.ChecksumIEEE(b[HeaderSize:])
	got, err := CRC32(b)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, UpdateCRC32(b))
	h, err := ParseHeader(b)
	require.NoError(t, err)
	require.Equal(t, want, h.CRC32)
}
