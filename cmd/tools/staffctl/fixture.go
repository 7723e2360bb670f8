package main

import (
	"fmt"
	"os"

	"staffing-workers/internal/models"
	"staffing-workers/internal/staffing/ranking"

	"gopkg.in/yaml.v3"
)

// fixture is the on-disk shape of an offline employee pool.
type fixture struct {
	Employees []models.Employee `yaml:"employees"`
	Projects  []models.Project  `yaml:"projects"`
	// Recent maps an employee id to the colleagues they worked with last.
	Recent map[string][]string `yaml:"recentCollaborators"`
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

func (f *fixture) repository() *ranking.MemoryRepository {
	return ranking.NewMemoryRepository(f.Employees, f.Projects)
}
