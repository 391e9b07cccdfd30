package ziptree

import "fmt"

// ArchiveOptions is the plain-data form of the Pack options, for callers
// that decode options from JSON, YAML or environment configuration.
type ArchiveOptions struct {
	// Level is the deflate level. Nil means DefaultLevel.
	Level *int `json:"level,omitempty" mapstructure:"level" yaml:"level,omitempty"`

	// Exclude holds glob patterns for entries to leave out.
	Exclude []string `json:"exclude,omitempty" mapstructure:"exclude" yaml:"exclude,omitempty"`
}

// ResolvedLevel returns Level, or DefaultLevel when Level is nil.
func (o ArchiveOptions) ResolvedLevel() int {
	if o.Level == nil {
		return DefaultLevel
	}
	return *o.Level
}

// Validate checks the resolved level.
func (o ArchiveOptions) Validate() error {
	if err := ValidateLevel(o.ResolvedLevel()); err != nil {
		return fmt.Errorf("archive options: %w", err)
	}
	return nil
}
