package registry

import (
	"fmt"
	"strings"

	"github.com/cecilvega/kverse-sub000/internal/adapter"
	"github.com/cecilvega/kverse-sub000/internal/domain"
)

// ComponentMapping ties a workshop main_component label to a subcomponent tag and a tracked component
type ComponentMapping struct {
	MainComponent    string `json:"main_component"`
	SubcomponentTag  string `json:"subcomponent_tag"`
	ComponentName    string `json:"component_name"`
	SubcomponentName string `json:"subcomponent_name"`
}

// ComponentMappingData represents the structure of the component mapping file
type ComponentMappingData struct {
	Mappings []ComponentMapping `json:"mappings"`
}

// ComponentRegistry resolves workshop component labels
//
//go:generate mockgen -source=components.go -destination=../mocks/component_registry.go -package=mocks -mock_names=ComponentRegistry=MockComponentRegistry
type ComponentRegistry interface {
	// Lookup returns the mapping for a main_component label
	Lookup(mainComponent string) (ComponentMapping, bool)

	// Mappings returns every known mapping in file order
	Mappings() []ComponentMapping
}

// ComponentRegistryLoader loads a component registry from a file
type ComponentRegistryLoader interface {
	Load(filePath string) (ComponentRegistry, error)
}

type componentRegistryLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewComponentRegistryLoader creates a loader reading through the given adapters
func NewComponentRegistryLoader(fs adapter.FileSystem, json adapter.JSON) ComponentRegistryLoader {
	return &componentRegistryLoader{fs: fs, json: json}
}

// Load reads and indexes the component mapping file
func (l *componentRegistryLoader) Load(filePath string) (ComponentRegistry, error) {
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read component mapping file: %w", err)
	}

	var mappingData ComponentMappingData
	if err := l.json.Unmarshal(data, &mappingData); err != nil {
		return nil, fmt.Errorf("failed to parse component mapping JSON: %w", err)
	}

	return NewComponentRegistry(mappingData.Mappings)
}

type componentRegistry struct {
	mappings []ComponentMapping
	// Fast lookup map: normalized main_component -> index into mappings
	byMainComponent map[string]int
}

// NewComponentRegistry builds a registry from in-memory mappings
func NewComponentRegistry(mappings []ComponentMapping) (ComponentRegistry, error) {
	reg := &componentRegistry{
		mappings:        make([]ComponentMapping, 0, len(mappings)),
		byMainComponent: make(map[string]int, len(mappings)),
	}

	for _, m := range mappings {
		if m.MainComponent == "" || m.SubcomponentTag == "" || m.ComponentName == "" || m.SubcomponentName == "" {
			return nil, fmt.Errorf("incomplete component mapping %q: %w", m.MainComponent, domain.ErrComponentMappingNotFound)
		}

		key := normalizeLabel(m.MainComponent)
		if _, exists := reg.byMainComponent[key]; exists {
			return nil, fmt.Errorf("duplicate component mapping for %q", m.MainComponent)
		}
		reg.byMainComponent[key] = len(reg.mappings)
		reg.mappings = append(reg.mappings, m)
	}

	return reg, nil
}

// Lookup returns the mapping for a main_component label, ignoring case and surrounding spaces
func (r *componentRegistry) Lookup(mainComponent string) (ComponentMapping, bool) {
	if r == nil {
		return ComponentMapping{}, false
	}
	i, ok := r.byMainComponent[normalizeLabel(mainComponent)]
	if !ok {
		return ComponentMapping{}, false
	}
	return r.mappings[i], true
}

// Mappings returns every known mapping in file order
func (r *componentRegistry) Mappings() []ComponentMapping {
	if r == nil {
		return nil
	}
	out := make([]ComponentMapping, len(r.mappings))
	copy(out, r.mappings)
	return out
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
