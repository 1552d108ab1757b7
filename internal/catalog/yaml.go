package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/compass/pkg/types"
)

//go:embed builtin.yaml
var builtinYAML []byte

// document is the on-disk shape of a catalog YAML file. A file may hold
// several YAML documents.
type document struct {
	Frameworks []types.Framework `yaml:"frameworks"`
}

// ParseYAML decodes every document in data and returns the frameworks in
// file order. Unknown keys are ignored.
func ParseYAML(data []byte) ([]types.Framework, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []types.Framework
	for {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, doc.Frameworks...)
	}
}

// LoadYAML reads every *.yaml and *.yml file in dir, in name order, and
// builds a catalog from their combined frameworks.
func LoadYAML(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var frameworks []types.Framework
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		fws, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		frameworks = append(frameworks, fws...)
	}
	return New(frameworks)
}

// Builtin returns the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	fws, err := ParseYAML(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("parsing builtin catalog: %w", err)
	}
	return New(fws)
}
