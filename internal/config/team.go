package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/worktime/internal/model"
)

// LoadTeam reads team overrides from a YAML file such as:
//
//	team: field-service
//	passenger_compensation_percent: 80
//	default_work_hours: 7.5
func LoadTeam(path string) (*model.TeamOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading team file %s: %w", path, err)
	}
	var team model.TeamOverrides
	if err := yaml.Unmarshal(data, &team); err != nil {
		return nil, fmt.Errorf("parsing team file %s: %w", path, err)
	}
	return &team, nil
}
