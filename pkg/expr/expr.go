// Package expr parses the zed expression language.
//
// An expression selects one of six forms:
//
//	''                      Cat
//	s/PATTERN/REPLACEMENT/[g]  Substitute
//	/PATTERN/d              DeleteMatching
//	/PATTERN/p              PrintMatching
//	{print $N}              PrintField
//	/PATTERN/ {print $N}    PrintFieldMatching
//
// Patterns are literal strings, not regular expressions. A line matches when
// it contains the pattern anywhere, for every form that filters. Inside a
// pattern or replacement, \/ stands for a literal slash.
package expr

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the form of a parsed expression.
type Kind int

const (
	Cat Kind = iota
	Substitute
	DeleteMatching
	PrintMatching
	PrintField
	PrintFieldMatching
)

var kindNames = [...]string{
	Cat:                "cat",
	Substitute:         "substitute",
	DeleteMatching:     "delete-matching",
	PrintMatching:      "print-matching",
	PrintField:         "print-field",
	PrintFieldMatching: "print-field-matching",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

var (
	// ErrUnrecognized means the string matches none of the forms.
	ErrUnrecognized = errors.New("unrecognized expression")

	// ErrEmptyPattern means a form that needs a pattern was given an empty one.
	ErrEmptyPattern = errors.New("empty pattern")
)

// Error is returned for any expression that cannot be parsed.
type Error struct {
	Expr string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Expr)
}

func (e *Error) Unwrap() error { return e.Err }

// Expression is a parsed, immutable expression.
type Expression struct {
	Kind        Kind
	Pattern     string
	Replacement string
	Global      bool
	Field       int
}

// Matches reports whether line contains the pattern.
func (e *Expression) Matches(line []byte) bool {
	return bytes.Contains(line, []byte(e.Pattern))
}

// String renders the expression in canonical syntax.
func (e *Expression) String() string {
	switch e.Kind {
	case Substitute:
		s := "s/" + escape(e.Pattern) + "/" + escape(e.Replacement) + "/"
		if e.Global {
			s += "g"
		}
		return s
	case DeleteMatching:
		return "/" + escape(e.Pattern) + "/d"
	case PrintMatching:
		return "/" + escape(e.Pattern) + "/p"
	case PrintField:
		return fieldClause(e.Field)
	case PrintFieldMatching:
		return "/" + escape(e.Pattern) + "/ " + fieldClause(e.Field)
	}
	return ""
}

// Validate checks the invariants Parse guarantees, for expressions built
// directly by callers.
func (e *Expression) Validate() error {
	switch e.Kind {
	case Cat:
	case Substitute, DeleteMatching, PrintMatching, PrintFieldMatching:
		if e.Pattern == "" {
			return &Error{Expr: e.String(), Err: ErrEmptyPattern}
		}
	case PrintField:
	default:
		return &Error{Expr: e.String(), Err: ErrUnrecognized}
	}
	if e.Field < 0 {
		return &Error{Expr: e.String(), Err: ErrUnrecognized}
	}
	return nil
}

const (
	printPrefix = "{print $"
	printSuffix = "}"
)

func fieldClause(n int) string {
	return printPrefix + strconv.Itoa(n) + printSuffix
}

// Parse classifies s. Rules are tried in order and the first match wins.
func Parse(s string) (*Expression, error) {
	switch {
	case s == "":
		return &Expression{Kind: Cat}, nil
	case strings.HasPrefix(s, "s/"):
		return parseSubstitute(s)
	case strings.HasPrefix(s, "/"):
		return parseAddressed(s)
	case strings.HasPrefix(s, printPrefix):
		n, ok := parseFieldClause(s)
		if !ok {
			return nil, &Error{Expr: s, Err: ErrUnrecognized}
		}
		return &Expression{Kind: PrintField, Field: n}, nil
	}
	return nil, &Error{Expr: s, Err: ErrUnrecognized}
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Expression {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func parseSubstitute(s string) (*Expression, error) {
	pattern, rest, ok := cutDelimited(s[len("s/"):])
	if !ok {
		return nil, &Error{Expr: s, Err: ErrUnrecognized}
	}
	if pattern == "" {
		return nil, &Error{Expr: s, Err: ErrEmptyPattern}
	}
	replacement, flags, closed := cutDelimited(rest)
	if !closed {
		// s/a/b is accepted with no flags.
		replacement, flags = unescape(rest), ""
	}
	return &Expression{
		Kind:        Substitute,
		Pattern:     pattern,
		Replacement: replacement,
		Global:      flags == "g",
	}, nil
}

func parseAddressed(s string) (*Expression, error) {
	pattern, rest, ok := cutDelimited(s[1:])
	if !ok {
		return nil, &Error{Expr: s, Err: ErrUnrecognized}
	}
	if pattern == "" {
		return nil, &Error{Expr: s, Err: ErrEmptyPattern}
	}
	switch rest {
	case "d":
		return &Expression{Kind: DeleteMatching, Pattern: pattern}, nil
	case "p":
		return &Expression{Kind: PrintMatching, Pattern: pattern}, nil
	}
	clause := strings.TrimLeft(rest, " \t")
	if len(clause) == len(rest) {
		return nil, &Error{Expr: s, Err: ErrUnrecognized}
	}
	n, ok := parseFieldClause(clause)
	if !ok {
		return nil, &Error{Expr: s, Err: ErrUnrecognized}
	}
	return &Expression{Kind: PrintFieldMatching, Pattern: pattern, Field: n}, nil
}

// parseFieldClause accepts exactly "{print $N}" with N a non-negative decimal.
func parseFieldClause(s string) (int, bool) {
	if !strings.HasPrefix(s, printPrefix) || !strings.HasSuffix(s, printSuffix) {
		return 0, false
	}
	digits := s[len(printPrefix) : len(s)-len(printSuffix)]
	if digits == "" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// cutDelimited returns the text before the first unescaped '/', with \/
// unescaped, and the text after it. ok is false when there is no delimiter.
func cutDelimited(s string) (before, after string, ok bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && s[i+1] == '/' {
			b.WriteByte('/')
			i++
			continue
		}
		if c == '/' {
			return b.String(), s[i+1:], true
		}
		b.WriteByte(c)
	}
	return "", "", false
}

func unescape(s string) string {
	return strings.ReplaceAll(s, `\/`, "/")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "/", `\/`)
}
