// Package cachefile reads and rewrites the header of the engine's packed
// map files and converts them between their compressed and plain forms.
package cachefile

import (
	"fmt"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

// HeaderSize is the size of a cache file header. The body follows it.
const HeaderSize = 2048

const crcOffset = 100

var (
	headSignature = primitive.NewFourCC("head")
	footSignature = primitive.NewFourCC("foot")
)

// Engine is the build a cache file was made for.
type Engine uint32

const (
	EngineXbox          Engine = 5
	EngineDemo          Engine = 6
	EnginePC            Engine = 7
	EngineCustomEdition Engine = 609
)

func (e Engine) String() string {
	switch e {
	case EngineXbox:
		return "xbox"
	case EngineDemo:
		return "demo"
	case EnginePC:
		return "pc"
	case EngineCustomEdition:
		return "custom_edition"
	}
	return fmt.Sprintf("engine(%d)", uint32(e))
}

// MapType is what a map is played as.
type MapType uint16

const (
	Singleplayer MapType = iota
	Multiplayer
	UserInterface
)

func (t MapType) String() string {
	switch t {
	case Singleplayer:
		return "singleplayer"
	case Multiplayer:
		return "multiplayer"
	case UserInterface:
		return "user_interface"
	}
	return fmt.Sprintf("map_type(%d)", uint16(t))
}

// Header is the fixed block at the start of every cache file. It is stored
// little-endian.
type Header struct {
	Engine Engine
	// FileSize is the size of the whole map once decompressed.
	FileSize          uint32
	CompressedPadding uint32
	TagDataOffset     uint32
	TagDataSize       uint32
	ScenarioName      string
	Build             string
	MapType           MapType
	CRC32             uint32
}

// ParseHeader decodes the header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, errs.Malformedf("cache file is 0x%X bytes, shorter than its header", len(b))
	}
	e := primitive.LittleEndian
	if sig := primitive.FourCC(e.Uint32(b[0:])); sig != headSignature {
		return Header{}, errs.Malformedf("cache file starts with %q, not head", sig)
	}
	if sig := primitive.FourCC(e.Uint32(b[HeaderSize-4:])); sig != footSignature {
		return Header{}, errs.Malformedf("cache file header ends with %q, not foot", sig)
	}
	name, err := primitive.ParseString32(b[32:64])
	if err != nil {
		return Header{}, errs.Wrap(err, "scenario name")
	}
	build, err := primitive.ParseString32(b[64:96])
	if err != nil {
		return Header{}, errs.Wrap(err, "build")
	}
	return Header{
		Engine:            Engine(e.Uint32(b[4:])),
		FileSize:          e.Uint32(b[8:]),
		CompressedPadding: e.Uint32(b[12:]),
		TagDataOffset:     e.Uint32(b[16:]),
		TagDataSize:       e.Uint32(b[20:]),
		ScenarioName:      name.String(),
		Build:             build.String(),
		MapType:           MapType(e.Uint16(b[96:])),
		CRC32:             e.Uint32(b[crcOffset:]),
	}, nil
}

// Bytes encodes h as a full header block.
func (h Header) Bytes() ([]byte, error) {
	name, err := primitive.NewString32(h.ScenarioName)
	if err != nil {
		return nil, errs.Wrap(err, "scenario name")
	}
	build, err := primitive.NewString32(h.Build)
	if err != nil {
		return nil, errs.Wrap(err, "build")
	}

	b := make([]byte, HeaderSize)
	e := primitive.LittleEndian
	e.PutUint32(b[0:], uint32(headSignature))
	e.PutUint32(b[4:], uint32(h.Engine))
	e.PutUint32(b[8:], h.FileSize)
	e.PutUint32(b[12:], h.CompressedPadding)
	e.PutUint32(b[16:], h.TagDataOffset)
	e.PutUint32(b[20:], h.TagDataSize)
	copy(b[32:], name[:])
	copy(b[64:], build[:])
	e.PutUint16(b[96:], uint16(h.MapType))
	e.PutUint32(b[crcOffset:], h.CRC32)
	e.PutUint32(b[HeaderSize-4:], uint32(footSignature))
	return b, nil
}
