package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Scenarios []yamlScenario `yaml:"scenarios"`
}

type yamlScenario struct {
	Description string   `yaml:"description"`
	Documents   []string `yaml:"documents"`
}

// loadYAML reads a scenario table of the form:
//
//	scenarios:
//	  - description: divorce filing
//	    documents: [ID proof, Marriage certificate]
func loadYAML(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseYAML(data)
}

func parseYAML(data []byte) ([]Scenario, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	rows := make([]Scenario, 0, len(f.Scenarios))
	for i, ys := range f.Scenarios {
		if len(ys.Documents) > MaxDocuments {
			return nil, fmt.Errorf("scenario %d: %d documents, at most %d allowed", i+1, len(ys.Documents), MaxDocuments)
		}
		sc := Scenario{Description: cleanCell(ys.Description)}
		for slot, d := range ys.Documents {
			sc.Documents[slot] = cleanCell(d)
		}
		rows = append(rows, sc)
	}
	return rows, nil
}
