package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// patternFile is the on-disk shape of a custom pattern list.
type patternFile struct {
	Patterns []CustomPattern `yaml:"patterns"`
}

// LoadCustomPatterns reads operator-supplied detector patterns from a YAML
// file of the form:
//
//	patterns:
//	  - name: EmployeeID
//	    pattern: 'EMP-\d{6}'
//	    severity: HIGH
//
// Patterns are validated when the matcher is built, not here.
func LoadCustomPatterns(path string) ([]CustomPattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}

	var file patternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pattern file %s: %w", path, err)
	}

	for i, p := range file.Patterns {
		if p.Name == "" {
			return nil, fmt.Errorf("pattern %d in %s has no name", i, path)
		}
		if p.Pattern == "" {
			return nil, fmt.Errorf("pattern %q in %s has no pattern", p.Name, path)
		}
	}

	return file.Patterns, nil
}
