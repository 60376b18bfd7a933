// Package scenario loads YAML descriptions of an instance and a series of
// writes against it, runs them, and records every watch callback.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/delaneyj/depwatch/instance"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("scenario: invalid scenario")

type Scenario struct {
	Name      string         `yaml:"name"`
	Props     []Prop         `yaml:"props"`
	PropsData map[string]any `yaml:"propsData"`
	Data      map[string]any `yaml:"data"`
	Computed  []Computed     `yaml:"computed"`
	Watch     []Watch        `yaml:"watch"`
	Steps     []Step         `yaml:"steps"`
}

type Prop struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Default  any    `yaml:"default"`
	Required bool   `yaml:"required"`
}

// Computed reads one path and, when Scale is set, multiplies it.
type Computed struct {
	Name  string  `yaml:"name"`
	Path  string  `yaml:"path"`
	Scale float64 `yaml:"scale"`
}

type Watch struct {
	Path      string `yaml:"path"`
	Immediate bool   `yaml:"immediate"`
	Deep      bool   `yaml:"deep"`
}

// Step is applied as one batch: sets first, then pushes, then deletes and
// finally a props update.
type Step struct {
	Set    map[string]any   `yaml:"set"`
	Push   map[string][]any `yaml:"push"`
	Delete []string         `yaml:"delete"`
	Props  map[string]any   `yaml:"props"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = "scenario"
	}
	return s, nil
}

func (s *Scenario) validate() error {
	for i, p := range s.Props {
		if p.Name == "" {
			return fmt.Errorf("%w: prop %d has no name", ErrInvalidScenario, i)
		}
		if _, err := ParsePropType(p.Type); err != nil {
			return err
		}
	}
	for i, c := range s.Computed {
		if c.Name == "" || c.Path == "" {
			return fmt.Errorf("%w: computed %d needs a name and a path", ErrInvalidScenario, i)
		}
	}
	for i, w := range s.Watch {
		if w.Path == "" {
			return fmt.Errorf("%w: watch %d has no path", ErrInvalidScenario, i)
		}
	}
	return nil
}

// ParsePropType parses a "|" separated list of prop kinds such as
// "String|Number". An empty string is Any.
func ParsePropType(s string) (instance.PropType, error) {
	var t instance.PropType
	if s == "" {
		return instance.Any, nil
	}
	for _, name := range strings.Split(s, "|") {
		switch strings.TrimSpace(name) {
		case "String":
			t |= instance.String
		case "Number":
			t |= instance.Number
		case "Bool":
			t |= instance.Bool
		case "Object":
			t |= instance.Object
		case "List":
			t |= instance.List
		case "Func":
			t |= instance.Func
		case "Any":
			return instance.Any, nil
		default:
			return 0, fmt.Errorf("%w: unknown prop type %q", ErrInvalidScenario, name)
		}
	}
	return t, nil
}
