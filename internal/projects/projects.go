// Package projects holds the static metadata shown alongside the activity
// digest. The registry is loaded from a YAML file at boot and passed to the
// rendering layer explicitly.
package projects

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project describes one project in the registry.
type Project struct {
	Name          string `yaml:"name" json:"name"`
	Tagline       string `yaml:"tagline" json:"tagline"`
	Description   string `yaml:"description" json:"description"`
	Homepage      string `yaml:"homepage,omitempty" json:"homepage,omitempty"`
	Repository    string `yaml:"repository" json:"repository"`
	Documentation string `yaml:"documentation,omitempty" json:"documentation,omitempty"`
}

// Registry is a lookup table of projects keyed by lowercased name.
type Registry struct {
	projects map[string]Project
}

// Load reads the registry from a YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects file: %w", err)
	}
	return Parse(data)
}

// Parse builds the registry from YAML bytes.
func Parse(data []byte) (*Registry, error) {
	var file struct {
		Projects []Project `yaml:"projects"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse projects file: %w", err)
	}

	projects := make(map[string]Project, len(file.Projects))
	for _, project := range file.Projects {
		if project.Name == "" {
			return nil, fmt.Errorf("project entry missing name")
		}
		projects[strings.ToLower(project.Name)] = project
	}

	return &Registry{projects: projects}, nil
}

// Lookup returns the project registered under name, case-insensitively.
func (r *Registry) Lookup(name string) (Project, bool) {
	project, ok := r.projects[strings.ToLower(name)]
	return project, ok
}

// All returns every project ordered by name.
func (r *Registry) All() []Project {
	all := make([]Project, 0, len(r.projects))
	for _, project := range r.projects {
		all = append(all, project)
	}
	sort.Slice(all, func(i, j int) bool {
		return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name)
	})
	return all
}

// Len returns how many projects are registered.
func (r *Registry) Len() int {
	return len(r.projects)
}
