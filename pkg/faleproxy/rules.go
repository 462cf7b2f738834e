package faleproxy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules overrides the built-in substitution chain and passthrough schemes.
//
//	substitutions:
//	  - match: YALE
//	    replace: FALE
//	passthroughSchemes: [http, https, mailto, data]
type Rules struct {
	Substitutions      Chain    `yaml:"substitutions,omitempty"`
	PassthroughSchemes []string `yaml:"passthroughSchemes,omitempty"`
}

// LoadRules reads every .yml/.yaml file under the ';'-separated list of files
// and directories in rulePaths. Substitutions are concatenated in load order
// and schemes are merged. An empty rulePaths yields empty Rules.
func LoadRules(rulePaths string) (Rules, error) {
	var rules Rules
	var errs []error

	for _, rulePath := range strings.Split(rulePaths, ";") {
		trimmedPath := strings.TrimSpace(rulePath)
		if trimmedPath == "" {
			continue
		}

		err := filepath.WalkDir(trimmedPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !(strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml")) {
				return nil
			}
			yamlFile, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read rules file '%s': %w", path, err)
			}
			var r Rules
			if err := yaml.Unmarshal(yamlFile, &r); err != nil {
				return fmt.Errorf("syntax error in rules file '%s': %w", path, err)
			}
			if err := r.validate(); err != nil {
				return fmt.Errorf("invalid rules file '%s': %w", path, err)
			}
			rules.merge(r)
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to load rules from '%s': %w", trimmedPath, err))
		}
	}

	if len(errs) > 0 {
		return Rules{}, errors.Join(errs...)
	}
	return rules, nil
}

// Chain returns the configured substitutions, or DefaultChain when none are set.
func (r Rules) Chain() Chain {
	if len(r.Substitutions) == 0 {
		return DefaultChain()
	}
	return r.Substitutions
}

// Schemes returns the configured passthrough schemes, or the defaults.
func (r Rules) Schemes() []string {
	if len(r.PassthroughSchemes) == 0 {
		return DefaultPassthroughSchemes
	}
	return r.PassthroughSchemes
}

func (r Rules) validate() error {
	for i, sub := range r.Substitutions {
		if sub.Match == "" {
			return fmt.Errorf("substitution %d has an empty match", i)
		}
	}
	return nil
}

func (r *Rules) merge(other Rules) {
	r.Substitutions = append(r.Substitutions, other.Substitutions...)
	for _, scheme := range other.PassthroughSchemes {
		scheme = normalizeScheme(scheme)
		if scheme == "" || containsString(r.PassthroughSchemes, scheme) {
			continue
		}
		r.PassthroughSchemes = append(r.PassthroughSchemes, scheme)
	}
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
