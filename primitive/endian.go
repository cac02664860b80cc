package primitive

import "encoding/binary"

// Engine combines ByteOrder and AppendByteOrder so codecs can both patch
// fixed offsets and append trailing data with one value.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var (
	BigEndian    Engine = binary.BigEndian
	LittleEndian Engine = binary.LittleEndian
)

// EngineFor returns LittleEndian when little is set, else BigEndian.
func EngineFor(little bool) Engine {
	if little {
		return LittleEndian
	}
	return BigEndian
}
