// Package effect defines the closed side-effect vocabulary of the Ion
// language. Effect names are reserved words: the lexer resolves them here,
// the parser attaches them to function declarations, and each backend
// declares the subset it can meaningfully honor.
package effect

// Effect is one declared side-effect category.
type Effect string

const (
	Database     Effect = "Database"
	Network      Effect = "Network"
	Logging      Effect = "Logging"
	FileSystem   Effect = "FileSystem"
	Memory       Effect = "Memory"
	IO           Effect = "IO"
	DOM          Effect = "DOM"
	LocalStorage Effect = "LocalStorage"
	Analytics    Effect = "Analytics"
	Payment      Effect = "Payment"
)

// all lists every effect in declaration order. Order is stable so generated
// documentation and error messages are deterministic.
var all = []Effect{
	Database,
	Network,
	Logging,
	FileSystem,
	Memory,
	IO,
	DOM,
	LocalStorage,
	Analytics,
	Payment,
}

// Parse resolves name against the closed vocabulary. The second result is
// false for any name outside it; unknown effects are never accepted.
func Parse(name string) (Effect, bool) {
	for _, e := range all {
		if string(e) == name {
			return e, true
		}
	}
	return "", false
}

// IsKnown reports whether name is a member of the vocabulary.
func IsKnown(name string) bool {
	_, ok := Parse(name)
	return ok
}

// Known returns the full vocabulary in declaration order. The returned slice
// is a copy; callers may not grow the vocabulary.
func Known() []Effect {
	out := make([]Effect, len(all))
	copy(out, all)
	return out
}

// Names returns the vocabulary as plain strings, for diagnostics and
// suggestion matching.
func Names() []string {
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = string(e)
	}
	return out
}

// Contains reports whether set includes e.
func Contains(set []Effect, e Effect) bool {
	for _, s := range set {
		if s == e {
			return true
		}
	}
	return false
}

// Subset reports whether every effect in sub is present in super.
func Subset(sub, super []Effect) bool {
	for _, e := range sub {
		if !Contains(super, e) {
			return false
		}
	}
	return true
}

func (e Effect) String() string {
	return string(e)
}
