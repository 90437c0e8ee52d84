package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store holds SMS message templates grouped by activity, plus pleasantry
// lists used by the {random:...} expansion. The backing YAML maps activity
// names ("prayer", "appointments") to template name/text pairs; a reserved
// "pleasantries" section holds the random phrase lists.
type Store struct {
	activities   map[string]map[string]string
	pleasantries map[string][]string
}

// Load reads message templates from a YAML file. A missing file yields an
// empty store so message drafting degrades to empty templates rather than
// failing the whole command.
func Load(path string) (*Store, error) {
	store := &Store{
		activities:   make(map[string]map[string]string),
		pleasantries: make(map[string][]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read message templates: %w", err)
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse message templates: %w", err)
	}

	for activity, node := range doc {
		if activity == "pleasantries" {
			if err := node.Decode(&store.pleasantries); err != nil {
				return nil, fmt.Errorf("failed to parse pleasantries: %w", err)
			}
			continue
		}
		var tmpls map[string]string
		if err := node.Decode(&tmpls); err != nil {
			return nil, fmt.Errorf("failed to parse %s templates: %w", activity, err)
		}
		store.activities[activity] = tmpls
	}

	return store, nil
}

// Get returns the raw template text, or "" when not defined
func (s *Store) Get(activity, name string) string {
	return s.activities[activity][name]
}

// GetWithFallback returns the named template, falling back to fallbackName
// when the specific one is not defined. Appointment templates use this so a
// per-type template ("temple_recommend_invite") can shadow "default_invite".
func (s *Store) GetWithFallback(activity, name, fallbackName string) string {
	if t := s.Get(activity, name); t != "" {
		return t
	}
	return s.Get(activity, fallbackName)
}

// Pleasantries returns the named random phrase list
func (s *Store) Pleasantries(list string) []string {
	return s.pleasantries[list]
}
