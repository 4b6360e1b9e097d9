package catalog

import (
	"strings"
)

// ValidationResult is a non-blocking warning about a slug's naming. Execution
// proceeds regardless; the suggestion is surfaced to the user.
type ValidationResult struct {
	Valid      bool
	Suggestion string
	Reason     string
}

// Validate flags slugs matching known-bad naming patterns. It never blocks:
// an unrecognized slug simply validates clean.
func (c *Catalog) Validate(slug, toolkit string) ValidationResult {
	for _, bp := range c.reg.BadPatterns {
		if strings.HasSuffix(slug, bp.Suffix) {
			suggestion := strings.TrimSuffix(slug, bp.Suffix) + bp.Suggestion
			if c.isKnown(toolkit, slug) {
				// The static table vouches for it; the pattern rule loses.
				continue
			}
			c.logger.Debug("slug matches known-bad pattern",
				"slug", slug,
				"suggestion", suggestion,
				"reason", bp.Reason,
			)
			return ValidationResult{
				Valid:      false,
				Suggestion: suggestion,
				Reason:     bp.Reason,
			}
		}
	}
	return ValidationResult{Valid: true}
}

func (c *Catalog) isKnown(toolkit, slug string) bool {
	for _, s := range c.reg.KnownSlugs[normalizeToolkit(toolkit)] {
		if s == slug {
			return true
		}
	}
	return false
}
