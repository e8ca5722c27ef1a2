package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&mf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	// Apply defaults and normalize
	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// Rename is one source -> target member rename directive.
type Rename struct {
	Source string
	Target string
}

// Renames returns the 121 shorthand as rename directives ordered by source
// member name, so diagnostics are reported deterministically.
func (tm *TypeMapping) Renames() []Rename {
	sources := make([]string, 0, len(tm.OneToOne))
	for s := range tm.OneToOne {
		sources = append(sources, s)
	}

	slices.Sort(sources)

	renames := make([]Rename, 0, len(sources))
	for _, s := range sources {
		renames = append(renames, Rename{Source: s, Target: tm.OneToOne[s]})
	}

	return renames
}
