package cachefile

import (
	"hash/crc32"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

// Compress packs a plain cache file. The header is kept as is and still
// records the plain size.
func Compress(b []byte) ([]byte, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	c, err := codecFor(h.Engine)
	if err != nil {
		return nil, err
	}
	if int(h.FileSize) != len(b) {
		return nil, errs.Malformedf("header records 0x%X bytes, the map is 0x%X; is it already compressed?", h.FileSize, len(b))
	}
	body, err := c.compress(b[HeaderSize:])
	if err != nil {
		return nil, errs.Wrapf(err, "compressing %s map", h.Engine)
	}
	return append(b[:HeaderSize:HeaderSize], body...), nil
}

// Decompress unpacks a compressed cache file.
func Decompress(b []byte) ([]byte, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	c, err := codecFor(h.Engine)
	if err != nil {
		return nil, err
	}
	if h.FileSize < HeaderSize {
		return nil, errs.Malformedf("header records a 0x%X byte map", h.FileSize)
	}
	size := int(h.FileSize) - HeaderSize
	body, err := c.decompress(b[HeaderSize:], size)
	if err != nil {
		return nil, errs.Wrapf(err, "decompressing %s map", h.Engine)
	}
	if len(body) != size {
		return nil, errs.Malformedf("map body decompressed to 0x%X bytes, header records 0x%X", len(body), size)
	}
	return append(b[:HeaderSize:HeaderSize], body...), nil
}

// CRC32 is the checksum of a plain cache file's body.
func CRC32(b []byte) (uint32, error) {
	if len(b) < HeaderSize {
		return 0, errs.Malformedf("cache file is 0x%X bytes, shorter than its header", len(b))
	}
	return crc32.ChecksumIEEE(b[HeaderSize:]), nil
}

// UpdateCRC32 stores the body checksum in the header of b.
func UpdateCRC32(b []byte) error {
	if _, err := ParseHeader(b); err != nil {
		return err
	}
	crc, err := CRC32(b)
	if err != nil {
		return err
	}
	primitive.LittleEndian.PutUint32(b[crcOffset:], crc)
	return nil
}
