package script

import (
	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

const (
	headerSize = 56
	nodeSize   = 20
)

var (
	tableName      = primitive.MustString32("script node")
	tableSignature = primitive.NewFourCC("d@t@")
)

// Node flags.
const (
	FlagPrimitive uint16 = 1 << iota
	FlagScriptCall
	FlagGlobal
	FlagGarbageCollectable
	FlagLocalVariable
)

var classFlags = [...]uint16{
	Primitive:  FlagPrimitive,
	Call:       0,
	ScriptCall: FlagScriptCall,
}

var scopeFlags = [...]uint16{
	Static: 0,
	Local:  FlagGlobal | FlagLocalVariable,
	Global: FlagGlobal,
}

// GenerateID is the datum ID of the node at index. Its high half is the
// node's salt.
func GenerateID(index int) uint32 {
	return uint32(0x6373+index)<<16 | uint32(index) | 0x80000000
}

// RawNode is one encoded node slot.
type RawNode struct {
	Salt       uint16
	IndexUnion uint16
	Type       uint16
	Flags      uint16
	Next       uint32
	// Data is the 4-byte value union read as a big-endian u32. Short values
	// sit in its high half.
	Data         uint32
	StringOffset uint32
}

func (n RawNode) Short() int16 { return int16(n.Data >> 16) }

func (n RawNode) append(b []byte) []byte {
	e := primitive.BigEndian
	b = e.AppendUint16(b, n.Salt)
	b = e.AppendUint16(b, n.IndexUnion)
	b = e.AppendUint16(b, n.Type)
	b = e.AppendUint16(b, n.Flags)
	b = e.AppendUint32(b, n.Next)
	b = e.AppendUint32(b, n.Data)
	return e.AppendUint32(b, n.StringOffset)
}

// NodeTable is a decoded script node table.
type NodeTable struct {
	Name         string
	MaximumCount int
	Count        int
	NextID       uint16
	Nodes        []RawNode
}

func appendHeader(b []byte, maximum, count int) []byte {
	e := primitive.BigEndian
	b = append(b, tableName[:]...)
	b = e.AppendUint16(b, uint16(maximum))
	b = e.AppendUint16(b, nodeSize)
	b = append(b, 1, 0, 0, 0)
	b = e.AppendUint32(b, uint32(tableSignature))
	b = e.AppendUint16(b, uint16(count))
	b = e.AppendUint16(b, uint16(count))
	b = e.AppendUint16(b, uint16(GenerateID(count)>>16))
	b = append(b, 0, 0)
	return e.AppendUint32(b, 0)
}

// DecodeNodeTable reads compiled script syntax data.
func DecodeNodeTable(b []byte) (*NodeTable, error) {
	if len(b) < headerSize {
		return nil, errs.Malformedf("script syntax data is 0x%X bytes, the header alone is 0x%X", len(b), headerSize)
	}
	e := primitive.BigEndian
	name, err := primitive.ParseString32(b[:32])
	if err != nil {
		return nil, errs.Wrap(err, "script node table name")
	}
	if sig := primitive.FourCC(e.Uint32(b[40:])); sig != tableSignature {
		return nil, errs.Malformedf("script node table signature is %s", sig)
	}
	if size := e.Uint16(b[34:]); size != nodeSize {
		return nil, errs.Unsupportedf("script nodes of 0x%X bytes", size)
	}

	t := &NodeTable{
		Name:         name.String(),
		MaximumCount: int(e.Uint16(b[32:])),
		Count:        int(e.Uint16(b[46:])),
		NextID:       e.Uint16(b[48:]),
	}
	if t.Count > t.MaximumCount {
		return nil, errs.Malformedf("script node table holds %d of at most %d nodes", t.Count, t.MaximumCount)
	}
	if want := headerSize + t.MaximumCount*nodeSize; len(b) < want {
		return nil, errs.Malformedf("script syntax data is 0x%X bytes, %d nodes need 0x%X", len(b), t.MaximumCount, want)
	}

	t.Nodes = make([]RawNode, t.Count)
	for i := range t.Nodes {
		p := b[headerSize+i*nodeSize:]
		t.Nodes[i] = RawNode{
			Salt:         e.Uint16(p[0:]),
			IndexUnion:   e.Uint16(p[2:]),
			Type:         e.Uint16(p[4:]),
			Flags:        e.Uint16(p[6:]),
			Next:         e.Uint32(p[8:]),
			Data:         e.Uint32(p[12:]),
			StringOffset: e.Uint32(p[16:]),
		}
	}
	return t, nil
}
