package primitive

import (
	"strings"

	"github.com/32bitkid/blam/errs"
)

// TagReference points at another tag by group and path.
type TagReference struct {
	Group TagGroup
	Path  TagPath
}

// NullReference is an empty reference with no group.
var NullReference = TagReference{Group: GroupNone}

func (r TagReference) IsNull() bool { return r.Path.IsEmpty() }

// ParseTagReference splits "path\to\tag.extension" into a reference.
func ParseTagReference(s string) (TagReference, error) {
	dot := strings.LastIndexByte(s, '.')
	if dot < 0 {
		return TagReference{}, errs.Invalidf("%q has no tag group extension", s)
	}
	group, err := GroupFromExtension(s[dot+1:])
	if err != nil {
		return TagReference{}, err
	}
	path, err := NewTagPath(s[:dot])
	if err != nil {
		return TagReference{}, err
	}
	return TagReference{Group: group, Path: path}, nil
}

// String returns the canonical "<path>.<extension>" form.
func (r TagReference) String() string {
	return r.Path.Canonical().String() + "." + r.Group.Extension()
}

// Native is String with the host's path separator.
func (r TagReference) Native() string {
	return r.Path.Canonical().Native() + "." + r.Group.Extension()
}

// Equal compares groups and canonical paths.
func (r TagReference) Equal(o TagReference) bool {
	return r.Group == o.Group && r.Path.Equal(o.Path)
}
