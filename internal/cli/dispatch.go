package cli

import (
	"fmt"
	"regexp"
	"strconv"
)

// Kind discriminates the request variants.
type Kind int

const (
	// KindHelp prints usage and exits successfully.
	KindHelp Kind = iota
	// KindConnect runs the connection orchestration for a profile.
	KindConnect
	// KindRestart restarts a profile via the network manager.
	KindRestart
	// KindShowPassword displays a cached password by rotation index.
	KindShowPassword
	// KindUpdateProfiles rescans the profile store and rewrites the config.
	KindUpdateProfiles
	// KindVersion prints build information.
	KindVersion
	// KindInvalid rejects the invocation with a reason.
	KindInvalid
)

// Request is the single typed command decided from the argument vector
// before any side effect occurs.
type Request struct {
	Kind Kind
	// Profile is set for KindConnect and KindRestart.
	Profile string
	// Index is set for KindShowPassword.
	Index int
	// Reason is set for KindInvalid.
	Reason string
}

// indexPattern accepts one or more digits. The historic behavior matched a
// single digit only; multi-digit indices are accepted deliberately.
var indexPattern = regexp.MustCompile(`^[0-9]+$`)

// KnownProfiles answers membership queries for bare profile tokens.
type KnownProfiles interface {
	IsKnown(name string) bool
}

// Dispatch consumes the full argument vector once and produces exactly one
// Request. The first malformed token short-circuits into KindInvalid; no
// side effect has occurred by then.
func Dispatch(args []string, known KnownProfiles) Request {
	if len(args) == 0 {
		return Request{Kind: KindHelp}
	}

	invalid := func(format string, a ...any) Request {
		return Request{Kind: KindInvalid, Reason: fmt.Sprintf(format, a...)}
	}

	switch args[0] {
	case "-h", "--help":
		return Request{Kind: KindHelp}

	case "--version":
		return Request{Kind: KindVersion}

	case "-u", "--update":
		if len(args) > 1 {
			return invalid("unexpected argument %q after %s", args[1], args[0])
		}
		return Request{Kind: KindUpdateProfiles}

	case "-s", "--show":
		if len(args) < 2 {
			return invalid("%s requires an index, 'today' or 'tomorrow'", args[0])
		}
		if len(args) > 2 {
			return invalid("unexpected argument %q after %s", args[2], args[0])
		}
		index, err := parseShowIndex(args[1])
		if err != nil {
			return invalid("%v", err)
		}
		return Request{Kind: KindShowPassword, Index: index}

	case "-r", "--restart":
		if len(args) < 2 {
			return invalid("%s requires a profile name", args[0])
		}
		if len(args) > 2 {
			return invalid("unexpected argument %q after %s", args[2], args[0])
		}
		name := args[1]
		if !isAlphanumeric(name) {
			return invalid("invalid profile name %q: must be non-empty and alphanumeric", name)
		}
		return Request{Kind: KindRestart, Profile: name}
	}

	// A bare token is a connect request for a known profile.
	name := args[0]
	if len(args) > 1 {
		return invalid("unexpected argument %q after profile name", args[1])
	}
	if name == "" || name[0] == '-' {
		return invalid("unknown flag %q", name)
	}
	if known == nil || !known.IsKnown(name) {
		return invalid("unknown profile %q", name)
	}
	return Request{Kind: KindConnect, Profile: name}
}

// parseShowIndex maps a show argument to a rotation index: the keywords
// 'today' and 'tomorrow', or a literal digit string.
func parseShowIndex(token string) (int, error) {
	switch token {
	case "today":
		return 0, nil
	case "tomorrow":
		return 1, nil
	}
	if !indexPattern.MatchString(token) {
		return 0, fmt.Errorf("invalid password index %q: expected digits, 'today' or 'tomorrow'", token)
	}
	index, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid password index %q: %v", token, err)
	}
	return index, nil
}

// isAlphanumeric reports whether s is non-empty ASCII letters and digits.
func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
