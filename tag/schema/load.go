package schema

import (
	"io/fs"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
)

type document struct {
	Enums     []enumDoc     `yaml:"enums"`
	Bitfields []bitfieldDoc `yaml:"bitfields"`
	Structs   []structDoc   `yaml:"structs"`
}

type enumDoc struct {
	Name    string   `yaml:"name"`
	Options []string `yaml:"options"`
}

type bitfieldDoc struct {
	Name   string   `yaml:"name"`
	Width  int      `yaml:"width"`
	Fields []bitDoc `yaml:"fields"`
}

type bitDoc struct {
	Name      string `yaml:"name"`
	CacheOnly bool   `yaml:"cache_only"`
}

// UnmarshalYAML accepts a bare name as shorthand for {name: ...}.
func (b *bitDoc) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		b.Name = n.Value
		return nil
	}
	type plain bitDoc
	return n.Decode((*plain)(b))
}

type structDoc struct {
	Name     string     `yaml:"name"`
	Size     int        `yaml:"size"`
	Inherits string     `yaml:"inherits"`
	Group    string     `yaml:"group"`
	Fields   []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name         string   `yaml:"name"`
	Type         string   `yaml:"type"`
	Count        int      `yaml:"count"`
	Struct       string   `yaml:"struct"`
	Enum         string   `yaml:"enum"`
	Bitfield     string   `yaml:"bitfield"`
	CacheOnly    bool     `yaml:"cache_only"`
	LittleEndian bool     `yaml:"little_endian"`
	Bounds       bool     `yaml:"bounds"`
	Groups       []string `yaml:"groups"`
	Size         int      `yaml:"size"`
}

// Load builds a registry from every *.yaml file at the root of fsys.
func Load(fsys fs.FS) (*Registry, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, errs.Wrap(err, "list schema files")
	}
	sort.Strings(names)

	var docs []document
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errs.Wrapf(err, "read %s", name)
		}
		var doc document
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, errs.Wrapf(errs.Invalid(err.Error()), "parse %s", path.Base(name))
		}
		docs = append(docs, doc)
	}
	return build(docs)
}

type builder struct {
	reg      *Registry
	docs     map[string]*structDoc
	declared map[string]int
	state    map[string]int
}

const (
	unvisited = iota
	visiting
	done
)

func build(docs []document) (*Registry, error) {
	b := &builder{
		reg: &Registry{
			structs:   map[string]*StructDef{},
			enums:     map[string]*EnumDef{},
			bitfields: map[string]*BitfieldDef{},
			roots:     map[primitive.TagGroup]*StructDef{},
		},
		docs:     map[string]*structDoc{},
		declared: map[string]int{},
		state:    map[string]int{},
	}

	for _, doc := range docs {
		for _, e := range doc.Enums {
			if err := b.addEnum(e); err != nil {
				return nil, err
			}
		}
		for _, bf := range doc.Bitfields {
			if err := b.addBitfield(bf); err != nil {
				return nil, err
			}
		}
		for i := range doc.Structs {
			s := &doc.Structs[i]
			if s.Name == "" {
				return nil, errs.Invalid("struct without a name")
			}
			if _, dup := b.docs[s.Name]; dup {
				return nil, errs.Invalidf("struct %s declared twice", s.Name)
			}
			b.docs[s.Name] = s
			b.reg.structs[s.Name] = &StructDef{Name: s.Name, Group: primitive.GroupNone}
		}
	}

	names := make([]string, 0, len(b.docs))
	for name := range b.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := b.resolve(name); err != nil {
			return nil, err
		}
	}
	return b.reg, nil
}

func (b *builder) addEnum(e enumDoc) error {
	if e.Name == "" || len(e.Options) == 0 {
		return errs.Invalidf("enum %q needs a name and options", e.Name)
	}
	if len(e.Options) > 0xFFFF {
		return errs.Limitf("enum %s has too many options", e.Name)
	}
	if _, dup := b.reg.enums[e.Name]; dup {
		return errs.Invalidf("enum %s declared twice", e.Name)
	}
	b.reg.enums[e.Name] = &EnumDef{Name: e.Name, Options: e.Options}
	return nil
}

func (b *builder) addBitfield(bf bitfieldDoc) error {
	switch bf.Width {
	case 8, 16, 32:
	default:
		return errs.Invalidf("bitfield %s has width %d", bf.Name, bf.Width)
	}
	if len(bf.Fields) > bf.Width {
		return errs.Invalidf("bitfield %s declares %d bits in %d", bf.Name, len(bf.Fields), bf.Width)
	}
	if _, dup := b.reg.bitfields[bf.Name]; dup {
		return errs.Invalidf("bitfield %s declared twice", bf.Name)
	}
	def := &BitfieldDef{Name: bf.Name, Width: bf.Width}
	for _, bit := range bf.Fields {
		def.Bits = append(def.Bits, Bit{Name: bit.Name, CacheOnly: bit.CacheOnly})
	}
	b.reg.bitfields[bf.Name] = def
	return nil
}

// resolve fills in a record's fields after the records it embeds by value,
// so that their sizes are known.
func (b *builder) resolve(name string) error {
	switch b.state[name] {
	case done:
		return nil
	case visiting:
		return errs.Invalidf("struct %s contains itself", name)
	}
	b.state[name] = visiting

	doc := b.docs[name]
	def := b.reg.structs[name]
	def.byName = map[string]*FieldDef{}

	if doc.Group != "" {
		g, err := primitive.GroupFromExtension(doc.Group)
		if err != nil || g == primitive.GroupNone {
			return errs.Invalidf("struct %s: unknown group %q", name, doc.Group)
		}
		if prev, dup := b.reg.roots[g]; dup {
			return errs.Invalidf("group %s has two roots: %s and %s", g, prev.Name, name)
		}
		def.Group = g
		b.reg.roots[g] = def
	}

	fields := doc.Fields
	if doc.Inherits != "" {
		fields = append([]fieldDoc{{Name: BaseFieldName, Type: "struct", Struct: doc.Inherits}}, fields...)
	}

	offset := 0
	for i, fd := range fields {
		f, err := b.field(fd)
		if err != nil {
			return errs.Wrapf(err, "struct %s field %d", name, i)
		}
		f.Offset = offset
		offset += f.Size()
		def.Fields = append(def.Fields, f)
		if f.Kind == KindPad {
			continue
		}
		if _, dup := def.byName[f.Name]; dup {
			return errs.Invalidf("struct %s: field %s declared twice", name, f.Name)
		}
		def.byName[f.Name] = f
	}
	def.size = offset
	if doc.Size != offset {
		return errs.Invalidf("struct %s: declared size %d, fields sum to %d", name, doc.Size, offset)
	}

	b.state[name] = done
	return nil
}

func (b *builder) field(fd fieldDoc) (*FieldDef, error) {
	f := &FieldDef{
		Name:         fd.Name,
		Type:         fd.Type,
		Count:        fd.Count,
		CacheOnly:    fd.CacheOnly,
		LittleEndian: fd.LittleEndian,
		Bounds:       fd.Bounds,
	}
	if f.Count == 0 {
		f.Count = 1
	}
	if f.Count < 0 {
		return nil, errs.Invalidf("%s: negative count", fd.Name)
	}

	if st, ok := scalarTypes[fd.Type]; ok {
		f.Kind = KindScalar
		f.Scalar = st.scalar
		f.Components = st.components
		if f.Bounds {
			f.Components *= 2
		}
	} else {
		switch fd.Type {
		case "enum":
			f.Kind = KindEnum
			if f.Enum = b.reg.enums[fd.Enum]; f.Enum == nil {
				return nil, errs.Invalidf("%s: unknown enum %q", fd.Name, fd.Enum)
			}
		case "bitfield":
			f.Kind = KindBitfield
			if f.Bitfield = b.reg.bitfields[fd.Bitfield]; f.Bitfield == nil {
				return nil, errs.Invalidf("%s: unknown bitfield %q", fd.Name, fd.Bitfield)
			}
		case "string32":
			f.Kind = KindString32
		case "tag_reference":
			f.Kind = KindReference
			for _, ext := range fd.Groups {
				g, err := primitive.GroupFromExtension(ext)
				if err != nil || g == primitive.GroupNone {
					return nil, errs.Invalidf("%s: unknown group %q", fd.Name, ext)
				}
				f.Groups = append(f.Groups, g)
			}
		case "data":
			f.Kind = KindData
		case "reflexive", "struct":
			f.Kind = KindStruct
			if fd.Type == "reflexive" {
				f.Kind = KindReflexive
			}
			if f.Struct = b.reg.structs[fd.Struct]; f.Struct == nil {
				return nil, errs.Invalidf("%s: unknown struct %q", fd.Name, fd.Struct)
			}
			if f.Kind == KindStruct {
				if err := b.resolve(fd.Struct); err != nil {
					return nil, err
				}
			}
		case "pad":
			f.Kind = KindPad
			if fd.Size <= 0 {
				return nil, errs.Invalid("pad needs a positive size")
			}
			f.padSize = fd.Size
		default:
			return nil, errs.Invalidf("%s: unknown type %q", fd.Name, fd.Type)
		}
	}

	if f.Kind != KindPad && f.Name == "" {
		return nil, errs.Invalid("field without a name")
	}
	if f.Bounds && f.Kind != KindScalar {
		return nil, errs.Invalidf("%s: bounds on a %s field", f.Name, f.Kind)
	}
	if f.LittleEndian && f.Kind != KindScalar && f.Kind != KindEnum && f.Kind != KindBitfield {
		return nil, errs.Invalidf("%s: little_endian on a %s field", f.Name, f.Kind)
	}
	if f.Count > 1 && (f.ConsumesExtra() || f.Kind == KindPad) {
		return nil, errs.Invalidf("%s: %s fields cannot be arrays", f.Name, f.Kind)
	}
	return f, nil
}
