// Package catalog resolves free-text step names to callable tool slugs.
// Resolution is total: an ordered chain of resolvers is tried first-match-
// wins, and the last link always produces a synthetic slug.
package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/skybridge-ai/flowkit/internal/domain"
)

type Catalog struct {
	reg    *Registry
	logger *slog.Logger
}

func New(logger *slog.Logger) *Catalog {
	return FromRegistry(DefaultRegistry(), logger)
}

func FromRegistry(reg *Registry, logger *slog.Logger) *Catalog {
	return &Catalog{
		reg:    reg,
		logger: logger.With("component", "catalog"),
	}
}

// resolverFunc is one link in the fallback chain. A false second return
// passes resolution to the next link.
type resolverFunc func(name, toolkit string, kind domain.NodeKind) (string, bool)

// Resolve maps a node name and toolkit to a slug. It never fails: the chain
// ends in a generic synthesized identifier.
func (c *Catalog) Resolve(name, toolkit string, kind domain.NodeKind) string {
	chain := []resolverFunc{
		c.resolveStatic,
		c.resolveDynamic,
		c.resolveDefault,
		c.resolveGeneric,
	}

	for _, resolve := range chain {
		if slug, ok := resolve(name, toolkit, kind); ok {
			c.logger.Debug("slug resolved",
				"node_name", name,
				"toolkit", toolkit,
				"slug", slug,
			)
			return slug
		}
	}

	// Unreachable: resolveGeneric always matches.
	return c.genericSlug(toolkit)
}

func (c *Catalog) resolveStatic(name, toolkit string, _ domain.NodeKind) (string, bool) {
	entries, ok := c.reg.Static[normalizeToolkit(toolkit)]
	if !ok {
		return "", false
	}

	lower := strings.ToLower(name)
	for _, entry := range entries {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return entry.Slug, true
			}
		}
	}
	return "", false
}

func (c *Catalog) resolveDynamic(name, toolkit string, kind domain.NodeKind) (string, bool) {
	lower := strings.ToLower(name)
	prefix := slugPrefix(toolkit)

	if kind == domain.NodeKindTrigger || looksLikeTrigger(lower) {
		if noun, ok := matchNoun(c.reg.Nouns, lower); ok {
			return fmt.Sprintf("%s_NEW_%s_TRIGGER", prefix, noun), true
		}
		return prefix + "_NEW_TRIGGER", true
	}

	verb, ok := matchVerb(c.reg.Verbs, lower)
	if !ok {
		return "", false
	}

	if noun, ok := matchNoun(c.reg.Nouns, lower); ok {
		return fmt.Sprintf("%s_%s_%s", prefix, verb, noun), true
	}
	return fmt.Sprintf("%s_%s", prefix, verb), true
}

func (c *Catalog) resolveDefault(_, toolkit string, _ domain.NodeKind) (string, bool) {
	slug, ok := c.reg.Defaults[normalizeToolkit(toolkit)]
	return slug, ok
}

func (c *Catalog) resolveGeneric(_, toolkit string, _ domain.NodeKind) (string, bool) {
	return c.genericSlug(toolkit), true
}

func (c *Catalog) genericSlug(toolkit string) string {
	return slugPrefix(toolkit) + "_EXECUTE"
}

// KnownToolkit reports whether the toolkit has any curated table entry.
// Unknown toolkits are candidates for discovery-based resolution.
func (c *Catalog) KnownToolkit(toolkit string) bool {
	norm := normalizeToolkit(toolkit)
	if _, ok := c.reg.Static[norm]; ok {
		return true
	}
	_, ok := c.reg.Defaults[norm]
	return ok
}

// KnownSlugs returns the slugs the static table vouches for on a toolkit.
func (c *Catalog) KnownSlugs(toolkit string) []string {
	return c.reg.KnownSlugs[normalizeToolkit(toolkit)]
}

// SuggestFallbacks ranks the toolkit's known slugs as alternatives for a slug
// the backend rejected. Node names hinting at persistence pull upload/create
// tools to the front.
func (c *Catalog) SuggestFallbacks(nodeName, toolkit, rejected string) []string {
	known := c.KnownSlugs(toolkit)
	if len(known) == 0 {
		return nil
	}

	lower := strings.ToLower(nodeName)
	wantsStore := strings.Contains(lower, "save") || strings.Contains(lower, "store") ||
		strings.Contains(lower, "log") || strings.Contains(lower, "backup")

	var preferred, rest []string
	for _, slug := range known {
		if slug == rejected {
			continue
		}
		if wantsStore && (strings.Contains(slug, "UPLOAD") || strings.Contains(slug, "CREATE") || strings.Contains(slug, "ADD")) {
			preferred = append(preferred, slug)
			continue
		}
		rest = append(rest, slug)
	}
	return append(preferred, rest...)
}

func matchVerb(verbs []VerbEntry, lower string) (string, bool) {
	for _, v := range verbs {
		for _, p := range v.Patterns {
			if containsWord(lower, p) {
				return v.Verb, true
			}
		}
	}
	return "", false
}

func matchNoun(nouns []NounEntry, lower string) (string, bool) {
	for _, n := range nouns {
		for _, p := range n.Patterns {
			if strings.Contains(lower, p) {
				return n.Noun, true
			}
		}
	}
	return "", false
}

func looksLikeTrigger(lower string) bool {
	for _, p := range []string{"monitor", "watch", "listen", "receive", "capture", "when ", "on new"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// containsWord matches a pattern on word boundaries so "set" does not fire
// inside "setup" or "reset".
func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isAlnum(s[start-1])
		afterOK := end == len(s) || !isAlnum(s[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func normalizeToolkit(toolkit string) string {
	return strings.ToLower(strings.TrimSpace(toolkit))
}

func slugPrefix(toolkit string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 32
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, strings.TrimSpace(toolkit))
	if cleaned == "" {
		cleaned = "UNKNOWN"
	}
	return cleaned
}
