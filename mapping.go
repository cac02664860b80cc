package blam

import (
	"errors"
	"image"
	"io/fs"
	"os"
	"sync"

	"github.com/32bitkid/blam/bitmap"
	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag"
	"github.com/32bitkid/blam/tag/schema"
)

// Mapping ties a tag reference to its file on disk. The file is read and
// parsed on the first call to Tag and the result is kept; later calls
// return the same *tag.File.
type Mapping struct {
	reference primitive.TagReference
	file      string
	registry  *schema.Registry

	mu    sync.Mutex
	cache *tag.File
}

func (m *Mapping) Reference() primitive.TagReference { return m.reference }
func (m *Mapping) File() string                      { return m.file }

// Bytes reads the raw tag file.
func (m *Mapping) Bytes() ([]byte, error) {
	b, err := os.ReadFile(m.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Invalidf("tag %s does not exist", m.reference)
	}
	if err != nil {
		return nil, errs.Wrapf(err, "read tag %s", m.reference)
	}
	return b, nil
}

// Tag parses the file. Failures are not cached.
func (m *Mapping) Tag() (*tag.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cache != nil {
		return m.cache, nil
	}

	b, err := m.Bytes()
	if err != nil {
		return nil, err
	}
	f, err := tag.ReadWith(m.registry, b)
	if err != nil {
		return nil, errs.Wrapf(err, "parse tag %s", m.reference)
	}
	if f.Group != m.reference.Group {
		return nil, errs.Malformedf("%s holds a %s tag", m.reference, f.Group)
	}

	m.cache = f
	return f, nil
}

// Open returns the parsed tag ref points at.
func (root *Root) Open(ref primitive.TagReference) (*tag.File, error) {
	m, err := root.Mapping(ref)
	if err != nil {
		return nil, err
	}
	return m.Tag()
}

// BitmapMapping is a mapping to a bitmap tag.
type BitmapMapping struct{ *Mapping }

// Render rebuilds the color plate the bitmap tag was compiled from.
func (bm BitmapMapping) Render() (*image.NRGBA, error) {
	if bm.reference.Group != primitive.GroupBitmap {
		return nil, errs.Invalidf("%s is not a bitmap", bm.reference)
	}
	f, err := bm.Tag()
	if err != nil {
		return nil, err
	}
	seqs, bitmaps, err := bitmap.ExtractFromTag(f.Root)
	if err != nil {
		return nil, errs.Wrapf(err, "extract %s", bm.reference)
	}
	return bitmap.RebuildColorPlate(seqs, bitmaps, bitmap.InputTypeOf(f.Root)).ToImage(), nil
}
