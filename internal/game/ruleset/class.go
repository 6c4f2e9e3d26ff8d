// Package ruleset holds the static character rules: class attribute tables,
// per-level attribute gains, and the experience curve.
package ruleset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Attributes is a strength/dexterity/intelligence triple.
type Attributes struct {
	Strength     int `yaml:"strength" json:"strength"`
	Dexterity    int `yaml:"dexterity" json:"dexterity"`
	Intelligence int `yaml:"intelligence" json:"intelligence"`
}

// Add returns the component-wise sum of a and b.
func (a Attributes) Add(b Attributes) Attributes {
	return Attributes{
		Strength:     a.Strength + b.Strength,
		Dexterity:    a.Dexterity + b.Dexterity,
		Intelligence: a.Intelligence + b.Intelligence,
	}
}

// Scale returns a with every component multiplied by n.
func (a Attributes) Scale(n int) Attributes {
	return Attributes{
		Strength:     a.Strength * n,
		Dexterity:    a.Dexterity * n,
		Intelligence: a.Intelligence * n,
	}
}

// Class defines a playable archetype: its level-1 attributes, the attributes
// gained on each subsequent level, and its resource pool sizes.
//
// Precondition: ID and Name must be non-empty after loading.
type Class struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	Base         Attributes `yaml:"base"`
	Gain         Attributes `yaml:"gain"`
	BaseMana     int        `yaml:"base_mana"`
	BaseReliance int        `yaml:"base_reliance"`
}

// AttributesAt returns the class attributes at level, before any modifier layer.
// Levels below 1 are treated as level 1.
//
// Postcondition: Returns Base + Gain × (level-1).
func (c *Class) AttributesAt(level int) Attributes {
	if level < 1 {
		level = 1
	}
	return c.Base.Add(c.Gain.Scale(level - 1))
}

// Validate reports an error if the class is missing required fields.
//
// Postcondition: Returns nil iff the class is well-formed.
func (c *Class) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if c.Base.Strength < 0 || c.Base.Dexterity < 0 || c.Base.Intelligence < 0 {
		errs = append(errs, errors.New("base attributes must be >= 0"))
	}
	if c.Gain.Strength < 0 || c.Gain.Dexterity < 0 || c.Gain.Intelligence < 0 {
		errs = append(errs, errors.New("gain attributes must be >= 0"))
	}
	if c.BaseMana < 0 || c.BaseReliance < 0 {
		errs = append(errs, errors.New("resource pools must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("class validation failed: %v", errs)
	}
	return nil
}

// LoadClasses reads all .yaml files in dir and parses each as a Class.
// Missing pool sizes default to DefaultMana and DefaultReliance.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed classes (may be empty slice) or a non-nil error.
func LoadClasses(dir string) ([]*Class, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	classes := make([]*Class, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		c := Class{BaseMana: DefaultMana, BaseReliance: DefaultReliance}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing class file %s: %w", path, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid class in %s: %w", path, err)
		}
		classes = append(classes, &c)
	}
	return classes, nil
}
