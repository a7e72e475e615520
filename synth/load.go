// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package synth

import (
	"bytes"
	"embed"
	"errors"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/UNO-SOFT/fixture"
)

//go:embed datasets/*.yaml
var datasets embed.FS

// LoadSpec decodes a YAML dataset specification.
// Unknown fields are rejected.
func LoadSpec(r io.Reader) (DatasetSpec, error) {
	var spec DatasetSpec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return spec, fixture.NewConfigError("", "empty dataset specification")
		}
		return spec, fixture.NewConfigError("", "%v", err)
	}
	return spec, nil
}

// LoadSpecFile reads a YAML dataset specification from fsys.
func LoadSpecFile(fsys fs.FS, name string) (DatasetSpec, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return DatasetSpec{}, err
	}
	return LoadSpec(bytes.NewReader(b))
}

// Builtin returns the named built-in dataset specification.
func Builtin(name string) (DatasetSpec, error) {
	spec, err := LoadSpecFile(datasets, path.Join("datasets", name+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return spec, fixture.NewConfigError("dataset", "unknown dataset %q", name)
	}
	return spec, err
}

// MustBuiltin is like Builtin but panics on error.
func MustBuiltin(name string) DatasetSpec {
	spec, err := Builtin(name)
	if err != nil {
		panic(err)
	}
	return spec
}

// Builtins lists the names of the built-in datasets.
func Builtins() []string {
	entries, _ := fs.ReadDir(datasets, "datasets")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names
}
