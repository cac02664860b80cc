// Package blam opens the tags of a Halo: Combat Evolved tags directory.
//
// A tags directory holds one file per tag. A tag reference names a file by
// its path below the directory and its group's extension, so
// weapons\pistol\pistol.weapon lives at tags/weapons/pistol/pistol.weapon.
//
// The packages below this one implement the pieces: primitive for the
// value model, tag for the file codec, bitmap and script for the two
// compilers and cachefile for packed maps.
package blam

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag/schema"
)

// Root is a reference to a tags directory.
type Root struct {
	Path     string
	Registry *schema.Registry

	mu       sync.Mutex
	mappings map[string]*Mapping
}

// NewRoot opens the tags directory at path with the shipped definitions.
func NewRoot(path string) *Root {
	return &Root{Path: path, Registry: schema.Default()}
}

// Resolve returns the file a reference points at.
func (root *Root) Resolve(ref primitive.TagReference) string {
	return filepath.Join(root.Path, ref.Native())
}

// Mapping returns the cached mapping for ref, creating it on first use.
// Nothing is read until the mapping's Tag is asked for.
func (root *Root) Mapping(ref primitive.TagReference) (*Mapping, error) {
	if ref.IsNull() || ref.Group == primitive.GroupNone {
		return nil, errs.Invalid("cannot open a null tag reference")
	}

	key := ref.String()
	root.mu.Lock()
	defer root.mu.Unlock()
	if m, ok := root.mappings[key]; ok {
		return m, nil
	}
	if root.mappings == nil {
		root.mappings = make(map[string]*Mapping)
	}

	reg := root.Registry
	if reg == nil {
		reg = schema.Default()
	}
	m := &Mapping{
		reference: primitive.TagReference{Group: ref.Group, Path: ref.Path.Canonical()},
		file:      root.Resolve(ref),
		registry:  reg,
	}
	root.mappings[key] = m
	return m, nil
}

// LoadMapping walks the directory and returns a mapping for every file
// with a tag group extension, in lexical order. Other files are skipped.
func (root *Root) LoadMapping() ([]*Mapping, error) {
	var out []*Mapping
	err := filepath.WalkDir(root.Path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		group, err := primitive.GroupFromExtension(strings.TrimPrefix(ext, "."))
		if err != nil || group == primitive.GroupNone {
			return nil
		}
		rel, err := filepath.Rel(root.Path, strings.TrimSuffix(p, ext))
		if err != nil {
			return err
		}
		path, err := primitive.NewTagPath(rel)
		if err != nil {
			return errs.Wrapf(err, "tag file %s", p)
		}
		m, err := root.Mapping(primitive.TagReference{Group: group, Path: path})
		if err != nil {
			return err
		}
		out = append(out, m)
		return nil
	})
	if err != nil {
		return nil, errs.Wrapf(err, "scan tags directory %s", root.Path)
	}
	return out, nil
}
