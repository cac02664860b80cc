package schema

import (
	"embed"
	"io/fs"
)

//go:embed definitions/*.yaml
var definitions embed.FS

var defaultRegistry = mustLoadDefault()

func mustLoadDefault() *Registry {
	sub, err := fs.Sub(definitions, "definitions")
	if err != nil {
		panic(err)
	}
	reg, err := Load(sub)
	if err != nil {
		panic("schema: embedded definitions: " + err.Error())
	}
	return reg
}

// Default returns the registry built from the definitions shipped with the
// package.
func Default() *Registry { return defaultRegistry }
