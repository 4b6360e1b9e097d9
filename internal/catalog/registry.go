package catalog

// Registry holds the lookup tables driving slug resolution. It is built once
// and passed by reference; resolvers never consult package-level state.
type Registry struct {
	// Static maps a toolkit to a priority-ordered list of keyword entries.
	// Earlier entries win, so read/fetch verbs sit above generic nouns.
	Static map[string][]StaticEntry

	// Defaults maps a toolkit to the slug used when a node name carries no
	// recognizable verb at all.
	Defaults map[string]string

	// Verbs is the ordered action-verb classification table.
	Verbs []VerbEntry

	// Nouns is the ordered object-noun classification table.
	Nouns []NounEntry

	// BadPatterns flags known-bad synthesized slugs with a suggested fix.
	BadPatterns []BadPattern

	// KnownSlugs lists slugs the platform is known to serve, per toolkit,
	// used for fallback suggestions when a slug turns out not to exist.
	KnownSlugs map[string][]string
}

type StaticEntry struct {
	Keywords []string
	Slug     string
}

type VerbEntry struct {
	Verb     string
	Patterns []string
}

type NounEntry struct {
	Noun     string
	Patterns []string
}

type BadPattern struct {
	Suffix     string
	Suggestion string
	Reason     string
}

// DefaultRegistry returns the built-in tables.
func DefaultRegistry() *Registry {
	return &Registry{
		Static:      staticActions(),
		Defaults:    toolkitDefaults(),
		Verbs:       actionVerbs(),
		Nouns:       objectNouns(),
		BadPatterns: badPatterns(),
		KnownSlugs:  knownSlugs(),
	}
}
