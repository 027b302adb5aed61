// SPDX-License-Identifier: MPL-2.0

package task

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"
)

// ErrMissingOption is the sentinel error wrapped by MissingOptionError.
var ErrMissingOption = errors.New("missing option")

// placeholderRe matches {name} placeholders inside template fragments.
var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

type (
	// Options is a mapping of named values used to fill a Template.
	// It is treated as immutable: With and Merge return copies, so a
	// per-call override never aliases into another composition.
	Options map[string]string

	// Template is the fixed, ordered set of fragments defining one
	// external invocation. Each fragment holds one or more space-separated
	// words, each word containing zero or more {name} placeholders.
	// Templates are immutable once defined per task type; conditional
	// fragments (e.g., a qualifier) are appended at construction time.
	Template []string

	// MissingOptionError is returned when a fragment references an option
	// that is absent at composition time. It wraps ErrMissingOption for
	// errors.Is() compatibility.
	MissingOptionError struct {
		Name string
	}
)

// Error returns the error message for MissingOptionError.
func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("missing option %q", e.Name)
}

// Unwrap returns the sentinel for errors.Is matching.
func (e *MissingOptionError) Unwrap() error {
	return ErrMissingOption
}

// With returns a copy of the options with key set to value.
func (o Options) With(key, value string) Options {
	out := make(Options, len(o)+1)
	maps.Copy(out, o)
	out[key] = value
	return out
}

// Merge returns a copy of the options with all entries of other applied
// on top.
func (o Options) Merge(other Options) Options {
	out := make(Options, len(o)+len(other))
	maps.Copy(out, o)
	maps.Copy(out, other)
	return out
}

// Append returns a new template with extra fragments added. The receiver
// is never modified in place.
func (t Template) Append(fragments ...string) Template {
	out := make(Template, 0, len(t)+len(fragments))
	out = append(out, t...)
	return append(out, fragments...)
}

// Compose fills the template with opts and returns the ordered argument
// vector. Fragments are split into words before substitution, so option
// values containing spaces stay single arguments. A placeholder without a
// matching option yields a MissingOptionError and no arguments.
func (t Template) Compose(opts Options) ([]string, error) {
	var args []string
	for _, fragment := range t {
		for _, word := range strings.Fields(fragment) {
			expanded, err := expand(word, opts)
			if err != nil {
				return nil, err
			}
			args = append(args, expanded)
		}
	}
	return args, nil
}

// expand substitutes every {name} placeholder in word.
func expand(word string, opts Options) (string, error) {
	var missing *MissingOptionError
	expanded := placeholderRe.ReplaceAllStringFunc(word, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := opts[name]
		if !ok {
			if missing == nil {
				missing = &MissingOptionError{Name: name}
			}
			return match
		}
		return value
	})
	if missing != nil {
		return "", missing
	}
	return expanded, nil
}
