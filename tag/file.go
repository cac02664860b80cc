package tag

import (
	"hash/crc32"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag/schema"
)

// File is a decoded tag file.
type File struct {
	Group primitive.TagGroup
	Root  *Struct

	// CRCMismatch is set when the stored checksum did not match the data.
	// Such tags are still read.
	CRCMismatch bool
}

// New default-constructs a tag of the given group.
func New(reg *schema.Registry, group primitive.TagGroup) (*File, error) {
	def, err := reg.Root(group)
	if err != nil {
		return nil, err
	}
	return &File{Group: group, Root: NewStruct(def)}, nil
}

// Read decodes a tag file using the shipped definitions.
func Read(b []byte) (*File, error) {
	return ReadWith(schema.Default(), b)
}

// ReadWith decodes a tag file. Every byte of b must be consumed.
func ReadWith(reg *schema.Registry, b []byte) (*File, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	def, err := reg.Root(h.Group)
	if err != nil {
		return nil, err
	}

	end := HeaderSize + def.Size()
	if len(b) < end {
		return nil, errs.Malformedf("%s tag is 0x%X bytes, root record needs 0x%X", h.Group, len(b), end)
	}
	cursor := end
	root, err := ReadStruct(def, b, HeaderSize, end, &cursor)
	if err != nil {
		return nil, errs.Wrapf(err, "read %s tag", h.Group)
	}
	if cursor != len(b) {
		return nil, errs.Malformedf("%s tag has 0x%X bytes of leftover data", h.Group, len(b)-cursor)
	}

	return &File{
		Group:       h.Group,
		Root:        root,
		CRCMismatch: crc32.ChecksumIEEE(b[HeaderSize:]) != h.CRC32,
	}, nil
}

// Write encodes f with the group's current version and a fresh checksum.
func Write(f *File) ([]byte, error) {
	if f.Root == nil {
		return nil, errs.Invalid("tag has no root record")
	}
	if f.Root.Def.Group != f.Group {
		return nil, errs.Invalidf("%s record cannot be the root of a %s tag", f.Root.Def.Name, f.Group)
	}

	end := HeaderSize + f.Root.Def.Size()
	out, err := WriteStruct(f.Root, make([]byte, end), HeaderSize, end)
	if err != nil {
		return nil, errs.Wrapf(err, "write %s tag", f.Group)
	}

	h := Header{
		Group:   f.Group,
		CRC32:   crc32.ChecksumIEEE(out[HeaderSize:]),
		Version: f.Group.Version(),
	}
	h.put(out)
	return out, nil
}
