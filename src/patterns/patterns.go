//Package patterns provides the seeding templates for the universe
//templates are either built in or loaded from a YAML file
package patterns

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"torolife/src/universe"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrInvalidTemplate = errors.New("invalid template")
)

var builtin = []universe.Template{
	{Name: "block", Descr: "2x2 still life", Coordinates: [][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}},
	{Name: "blinker", Descr: "period 2 oscillator", Coordinates: [][]int{{2, 1}, {2, 2}, {2, 3}}},
	{Name: "toad", Descr: "period 2 oscillator", Coordinates: [][]int{{2, 2}, {3, 2}, {4, 2}, {1, 3}, {2, 3}, {3, 3}}},
	{Name: "beacon", Descr: "period 2 oscillator", Coordinates: [][]int{{1, 1}, {2, 1}, {1, 2}, {4, 3}, {3, 4}, {4, 4}}},
	{Name: "glider", Descr: "moves one cell diagonally every 4 generations", Coordinates: [][]int{{2, 1}, {3, 2}, {1, 3}, {2, 3}, {3, 3}}},
	{Name: "sample", Descr: "the test sample with 3 stable patterns", Coordinates: [][]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2},
		{4, 3},
		{5, 3},
	}},
}

//file is the YAML document layout
type file struct {
	Templates []struct {
		Name  string  `yaml:"name"`
		Descr string  `yaml:"descr"`
		Cells [][]int `yaml:"cells"`
	} `yaml:"templates"`
}

//Builtin returns the copy of the built in templates
func Builtin() []universe.Template {
	res := make([]universe.Template, len(builtin))
	copy(res, builtin)
	return res
}

//Names returns the sorted template names
func Names(templates []universe.Template) []string {
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

//Find returns the template with the name
func Find(templates []universe.Template, name string) (*universe.Template, error) {
	for i := range templates {
		if templates[i].Name == name {
			t := templates[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

//Load decodes the templates from the YAML document
func Load(r io.Reader) ([]universe.Template, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	res := make([]universe.Template, 0, len(f.Templates))
	seen := map[string]bool{}
	for i, t := range f.Templates {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: template #%d has no name", ErrInvalidTemplate, i)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("%w: duplicated template %q", ErrInvalidTemplate, t.Name)
		}
		seen[t.Name] = true
		for _, c := range t.Cells {
			if len(c) != 2 || c[0] < 0 || c[1] < 0 {
				return nil, fmt.Errorf("%w: template %q has bad coordinate %v", ErrInvalidTemplate, t.Name, c)
			}
		}
		res = append(res, universe.Template{Name: t.Name, Descr: t.Descr, Coordinates: t.Cells})
	}
	return res, nil
}

//LoadFile decodes the templates from the YAML file
func LoadFile(path string) ([]universe.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open templates file %s: %w", path, err)
	}
	defer f.Close()
	res, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates from %s: %w", path, err)
	}
	return res, nil
}

//Merge appends the templates to the base replacing the ones with the same name
func Merge(base []universe.Template, templates []universe.Template) []universe.Template {
	res := make([]universe.Template, 0, len(base)+len(templates))
	override := map[string]bool{}
	for _, t := range templates {
		override[t.Name] = true
	}
	for _, t := range base {
		if !override[t.Name] {
			res = append(res, t)
		}
	}
	return append(res, templates...)
}
