// Package catalog loads and validates the questionnaire definitions used for scoring.
package catalog

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Definition is a single standardized self-assessment questionnaire.
// Definitions are read-only once loaded.
type Definition struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description" json:"description"`
	Version        int      `yaml:"version" json:"version"`
	Order          int      `yaml:"order" json:"-"`
	Options        []Option `yaml:"options" json:"options"`
	Questions      []string `yaml:"questions" json:"questions"`
	ReverseIndices []int    `yaml:"reverse_indices" json:"reverse_indices,omitempty"`
	Bands          []Band   `yaml:"bands" json:"bands"`
}

// Option is one selectable answer. The option set is shared by every question.
type Option struct {
	Label string `yaml:"label" json:"label"`
	Value int    `yaml:"value" json:"value"`
}

// Band maps an inclusive range of totals to a result label.
type Band struct {
	Min      int      `yaml:"min" json:"min"`
	Max      int      `yaml:"max" json:"max"`
	Label    string   `yaml:"label" json:"label"`
	Severity Severity `yaml:"severity" json:"severity"`
	Color    string   `yaml:"color" json:"color,omitempty"`
}

// Contains reports whether total falls inside the band.
func (b Band) Contains(total int) bool {
	return b.Min <= total && total <= b.Max
}

// MaxOptionValue returns the highest option value of the definition.
func (d *Definition) MaxOptionValue() int {
	hi := 0
	for i, o := range d.Options {
		if i == 0 || o.Value > hi {
			hi = o.Value
		}
	}
	return hi
}

// MaxTotal is the highest achievable total score.
func (d *Definition) MaxTotal() int {
	return len(d.Questions) * d.MaxOptionValue()
}

// IsReversed reports whether question i is reverse-scored.
func (d *Definition) IsReversed(i int) bool {
	for _, r := range d.ReverseIndices {
		if r == i {
			return true
		}
	}
	return false
}

// HasOption reports whether v is one of the definition's option values.
func (d *Definition) HasOption(v int) bool {
	_, ok := d.OptionLabel(v)
	return ok
}

// OptionLabel returns the label of the option with value v.
func (d *Definition) OptionLabel(v int) (string, bool) {
	for _, o := range d.Options {
		if o.Value == v {
			return o.Label, true
		}
	}
	return "", false
}

// Catalog is an immutable, validated set of definitions.
type Catalog struct {
	defs        map[string]*Definition
	ordered     []*Definition
	fingerprint string
}

// Builtin loads the definitions embedded in the binary.
func Builtin() (*Catalog, error) {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("catalog.Builtin: %w", err)
	}
	c, err := load(sub)
	if err != nil {
		return nil, fmt.Errorf("catalog.Builtin: %w", err)
	}
	return c, nil
}

// LoadDir loads every *.yaml definition found in dir.
func LoadDir(dir string) (*Catalog, error) {
	c, err := load(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadDir %s: %w", dir, err)
	}
	return c, nil
}

func load(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no questionnaire definitions found")
	}
	sort.Strings(names)

	h := sha256.New()
	c := &Catalog{defs: make(map[string]*Definition, len(names))}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		h.Write(data)

		def, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if errs := Validate(def); len(errs) > 0 {
			return nil, &InvalidDefinitionError{File: name, ID: def.ID, Violations: errs}
		}
		if _, dup := c.defs[def.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate questionnaire id %q", name, def.ID)
		}
		c.defs[def.ID] = def
		c.ordered = append(c.ordered, def)
	}

	sort.SliceStable(c.ordered, func(i, j int) bool {
		if c.ordered[i].Order != c.ordered[j].Order {
			return c.ordered[i].Order < c.ordered[j].Order
		}
		return c.ordered[i].ID < c.ordered[j].ID
	})
	c.fingerprint = fmt.Sprintf("sha256:%x", h.Sum(nil))
	return c, nil
}

// Parse decodes a single YAML definition without validating it.
func Parse(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	return &d, nil
}

// Get returns the definition with the given id (case-insensitive).
func (c *Catalog) Get(id string) (*Definition, error) {
	d, ok := c.defs[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("unknown questionnaire %q (available: %s)", id, strings.Join(c.IDs(), ", "))
	}
	return d, nil
}

// Definitions returns all definitions in display order.
func (c *Catalog) Definitions() []*Definition {
	out := make([]*Definition, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// IDs returns the questionnaire ids in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.ordered))
	for i, d := range c.ordered {
		ids[i] = d.ID
	}
	return ids
}

// Fingerprint identifies the catalog version as a hash over its source files.
func (c *Catalog) Fingerprint() string { return c.fingerprint }
