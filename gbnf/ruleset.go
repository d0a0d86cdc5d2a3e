package gbnf

import (
	"encoding/json"
	"strings"
)

// ruleSet is an insertion-ordered mapping from rule name to production body.
// Re-registering an identical rule is a silent no-op; claiming a name that
// already carries a different rule is a collision the caller must surface,
// never a silent overwrite.
type ruleSet struct {
	names  []string
	bodies map[string]string
}

func newRuleSet() *ruleSet {
	rs := &ruleSet{bodies: make(map[string]string)}
	// Base primitives and the document root are serialized separately;
	// seeding them here makes any synthesized rule claiming one of their
	// names a detectable collision.
	for _, r := range basePrimitives {
		rs.bodies[r.name] = r.body
	}
	rs.bodies[rootRuleName] = rootRuleName
	return rs
}

// reserve claims name for a rule whose body is filled in later. Used by
// object translation so a model's rule precedes its field rules even though
// the fields are resolved first. Reports whether the claim succeeded; a
// name already claimed by any rule is a collision.
func (rs *ruleSet) reserve(name string) bool {
	if _, ok := rs.bodies[name]; ok {
		return false
	}
	rs.bodies[name] = ""
	rs.names = append(rs.names, name)
	return true
}

// fill defines the body of a rule previously claimed with reserve.
func (rs *ruleSet) fill(name, body string) {
	rs.bodies[name] = body
}

// add registers a rule and reports whether the name was free (or already
// held this exact rule). A name holding a different body, or reserved by an
// object still being translated, is a collision.
func (rs *ruleSet) add(name, body string) bool {
	if existing, ok := rs.bodies[name]; ok {
		return existing == body
	}
	rs.names = append(rs.names, name)
	rs.bodies[name] = body
	return true
}

// rootRuleName is the entry rule of every generated grammar.
const rootRuleName = "root"

type baseRule struct {
	name string
	body string
}

// basePrimitives are the fixed JSON value rules every grammar carries, in
// serialization order. ws is the shared flexible-whitespace rule inserted
// between structural tokens.
var basePrimitives = []baseRule{
	{"ws", `[ \t\n]*`},
	{"string", `"\"" ( [^"\\] | "\\" (["\\/bfnrt] | "u" [0-9a-fA-F] [0-9a-fA-F] [0-9a-fA-F] [0-9a-fA-F]) )* "\""`},
	{"integer", `"-"? ([0-9] | [1-9] [0-9]*)`},
	{"float", `"-"? ([0-9] | [1-9] [0-9]*) ("." [0-9]+)? ([eE] [-+]? [0-9]+)?`},
	{"boolean", `"true" | "false"`},
	{"null", `"null"`},
}

// reservedRuleNames are names a model may not claim for itself.
var reservedRuleNames = map[string]bool{
	rootRuleName: true,
	"ws":         true,
	"string":     true,
	"integer":    true,
	"float":      true,
	"boolean":    true,
	"null":       true,
}

// sanitizeName turns a model, field or enum name into a GBNF rule name:
// lowercase alphanumerics with single dashes at word boundaries. Initialisms
// stay together (HTMLPage becomes html-page). Names that would collide with
// a base rule get a "-model" suffix.
func sanitizeName(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	lastDash := true // trim leading dashes
	for i, r := range runes {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			if !lastDash && startsWord(runes, i) {
				sb.WriteByte('-')
			}
			sb.WriteRune(r + ('a' - 'A'))
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	name := strings.TrimSuffix(sb.String(), "-")
	if reservedRuleNames[name] {
		name += "-model"
	}
	return name
}

// startsWord reports whether the uppercase rune at i begins a new word: it
// follows a lowercase letter or digit, or it is the last letter of an
// initialism followed by a lowercase letter (the P in HTMLPage).
func startsWord(runes []rune, i int) bool {
	prev := runes[i-1]
	if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
		return true
	}
	return i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
}

// gbnfLiteral escapes s for use as a quoted GBNF terminal.
func gbnfLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// jsonStringLiteral returns a GBNF terminal matching the JSON string
// encoding of v, quotes included.
func jsonStringLiteral(v string) string {
	b, _ := json.Marshal(v)
	return gbnfLiteral(string(b))
}
