package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hbollon/go-edlib"

	searcherrors "github.com/standardbeagle/searcher/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates cfg and fills in empty fields. Every
// problem found is returned, wrapped in a MultiError when there are several.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	v.setSmartDefaults(cfg)

	var errs []error
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		errs = append(errs, searcherrors.NewConfigError("project.root", cfg.Project.Root, err))
	}

	if err := v.validateSearchConfig(&cfg.Search); err != nil {
		errs = append(errs, searcherrors.NewConfigError("search.color", cfg.Search.Color, err))
	}

	errs = append(errs, v.validatePatterns("include", cfg.Include)...)
	errs = append(errs, v.validatePatterns("exclude", cfg.Exclude)...)

	return searcherrors.NewMultiError(errs).ErrorOrNil()
}

// validateProjectConfig only checks that a root is named. Whether it can be
// listed is the walker's concern, reported like any other directory.
func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("search root cannot be empty")
	}
	return nil
}

func (v *Validator) validateSearchConfig(search *Search) error {
	switch search.Color {
	case ColorAlways, ColorAuto, ColorNever:
		return nil
	default:
		err := fmt.Errorf("must be one of %s, %s or %s", ColorAlways, ColorAuto, ColorNever)
		if suggestion, ok := closestColor(search.Color); ok {
			err = fmt.Errorf("%w (did you mean %q?)", err, suggestion)
		}
		return err
	}
}

// maxSuggestDistance bounds how far a typo may be from a known mode
const maxSuggestDistance = 2

// closestColor finds the color mode with the smallest Levenshtein distance
func closestColor(input string) (string, bool) {
	best, bestDistance := "", maxSuggestDistance+1
	for _, mode := range []string{ColorAlways, ColorAuto, ColorNever} {
		if d := edlib.LevenshteinDistance(input, mode); d < bestDistance {
			best, bestDistance = mode, d
		}
	}
	return best, best != ""
}

func (v *Validator) validatePatterns(field string, patterns []string) []error {
	var errs []error
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			errs = append(errs, searcherrors.NewConfigError(field, pattern, errors.New("empty glob pattern")))
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, searcherrors.NewConfigError(field, pattern, doublestar.ErrBadPattern))
		}
	}
	return errs
}

func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if cfg.Search.Color == "" {
		cfg.Search.Color = ColorAlways
	}
	cfg.Search.Color = strings.ToLower(strings.TrimSpace(cfg.Search.Color))

	cfg.Include = DeduplicatePatterns(cfg.Include)
	cfg.Exclude = DeduplicatePatterns(cfg.Exclude)
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
