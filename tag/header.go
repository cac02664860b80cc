package tag

import (
	"encoding/binary"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

// HeaderSize is the length of a tag file header.
const HeaderSize = 0x40

const headerConstant = 0x00FF

var blamSignature = primitive.NewFourCC("blam")

// Header is the fixed header at the start of every tag file.
type Header struct {
	Group   primitive.TagGroup
	CRC32   uint32
	Version uint16
}

// ParseHeader validates the first HeaderSize bytes of b.
func ParseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, errs.Malformedf("tag header needs %d bytes, have %d", HeaderSize, len(b))
	}
	be := binary.BigEndian

	group, err := primitive.GroupFromFourCC(primitive.FourCC(be.Uint32(b[0x24:])))
	if err != nil {
		return h, errs.Wrap(err, "invalid tag header")
	}
	if group == primitive.GroupNone {
		return h, errs.Malformed("tag header has no group")
	}
	if n := be.Uint32(b[0x2C:]); n != HeaderSize {
		return h, errs.Malformedf("tag header length is 0x%X, expected 0x%X", n, HeaderSize)
	}
	if c := be.Uint16(b[0x3A:]); c != headerConstant {
		return h, errs.Malformedf("tag header constant is 0x%04X", c)
	}
	if sig := primitive.FourCC(be.Uint32(b[0x3C:])); sig != blamSignature {
		return h, errs.Malformedf("tag header signature is %q", sig.String())
	}

	h.Group = group
	h.CRC32 = be.Uint32(b[0x28:])
	h.Version = be.Uint16(b[0x38:])
	if h.Version != group.Version() {
		return h, errs.Malformedf("%s tag version %d, expected %d", group, h.Version, group.Version())
	}
	return h, nil
}

// Bytes encodes the header. The legacy id and name are always zero.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	h.put(b)
	return b
}

func (h Header) put(b []byte) {
	be := binary.BigEndian
	be.PutUint32(b[0x24:], uint32(h.Group.FourCC()))
	be.PutUint32(b[0x28:], h.CRC32)
	be.PutUint32(b[0x2C:], HeaderSize)
	be.PutUint16(b[0x38:], h.Version)
	be.PutUint16(b[0x3A:], headerConstant)
	be.PutUint32(b[0x3C:], uint32(blamSignature))
}
