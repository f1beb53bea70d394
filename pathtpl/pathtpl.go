// Package pathtpl parses Express style route templates such as
// "/users/:id(\\d+)?" and renders them as OpenAPI path templates.
//
// Supported syntax:
//
//	:name         named parameter matching any non-slash sequence
//	:name(regex)  named parameter with a custom pattern
//	(regex)       unnamed parameter, named by position: 0, 1, ...
//	?  *  +       modifiers: optional, zero or more, one or more
//	{pre:name}?   group with explicit prefix and suffix text
//	\x            escaped literal character
//
// A "/" or "." directly before a parameter becomes its prefix.
package pathtpl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is matched by every parse error.
var ErrMalformed = errors.New("pathtpl: malformed template")

// Error describes a template that could not be parsed.
type Error struct {
	Template string
	Offset   int
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pathtpl: %s at %d in %q", e.Message, e.Offset, e.Template)
}

// Is reports whether target is ErrMalformed.
func (e *Error) Is(target error) bool {
	return target == ErrMalformed
}

// Modifier is the repetition suffix of a key.
type Modifier string

const (
	ModifierNone       Modifier = ""
	ModifierOptional   Modifier = "?"
	ModifierZeroOrMore Modifier = "*"
	ModifierOneOrMore  Modifier = "+"
)

// Key is a parameter of a template. Pattern is empty when the key matches
// the default "any non-slash sequence".
type Key struct {
	Name     string
	Prefix   string
	Suffix   string
	Pattern  string
	Modifier Modifier
}

// Optional reports whether the key may be absent from a matching path.
func (k Key) Optional() bool {
	return k.Modifier == ModifierOptional || k.Modifier == ModifierZeroOrMore
}

// Token is either literal text or a key.
type Token struct {
	Text string
	Key  *Key
}

// prefixes lists the characters that attach to a following parameter.
const prefixes = "./"

// Parse splits tpl into literal and key tokens.
func Parse(tpl string) ([]Token, error) {
	lexed, err := lex(tpl)
	if err != nil {
		return nil, err
	}

	p := &parser{tpl: tpl, tokens: lexed}
	return p.parse()
}

// Keys returns the named keys of tpl in order of appearance.
func Keys(tpl string) ([]Key, error) {
	tokens, err := Parse(tpl)
	if err != nil {
		return nil, err
	}

	var keys []Key
	for _, tok := range tokens {
		if tok.Key != nil && tok.Key.Name != "" {
			keys = append(keys, *tok.Key)
		}
	}
	return keys, nil
}

// ToOpenAPI renders tpl with every key written as <prefix>{<name>}<suffix>.
func ToOpenAPI(tpl string) (string, error) {
	tokens, err := Parse(tpl)
	if err != nil {
		return "", err
	}
	return Render(tokens), nil
}

// Render writes tokens back as an OpenAPI path template.
func Render(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Key == nil {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(tok.Key.Prefix)
		if tok.Key.Name != "" {
			b.WriteByte('{')
			b.WriteString(tok.Key.Name)
			b.WriteByte('}')
		}
		b.WriteString(tok.Key.Suffix)
	}
	return b.String()
}

type parser struct {
	tpl    string
	tokens []lexToken
	pos    int
	key    int
}

func (p *parser) parse() ([]Token, error) {
	var (
		out  []Token
		path strings.Builder
	)
	flush := func() {
		if path.Len() > 0 {
			out = append(out, Token{Text: path.String()})
			path.Reset()
		}
	}

	for p.pos < len(p.tokens) {
		char, hasChar := p.try(lexChar)
		name, hasName := p.try(lexName)
		pattern, hasPattern := p.try(lexPattern)

		if hasName || hasPattern {
			prefix := char
			if prefix != "" && !strings.Contains(prefixes, prefix) {
				path.WriteString(prefix)
				prefix = ""
			}
			flush()

			if !hasName {
				name = p.nextIndex()
			}
			modifier, _ := p.try(lexModifier)
			out = append(out, Token{Key: &Key{
				Name:     name,
				Prefix:   prefix,
				Pattern:  pattern,
				Modifier: Modifier(modifier),
			}})
			continue
		}

		if hasChar {
			path.WriteString(char)
			continue
		}
		if escaped, ok := p.try(lexEscaped); ok {
			path.WriteString(escaped)
			continue
		}

		flush()

		if _, ok := p.try(lexOpen); ok {
			prefix := p.text()
			name, hasName := p.try(lexName)
			pattern, hasPattern := p.try(lexPattern)
			suffix := p.text()
			if err := p.must(lexClose); err != nil {
				return nil, err
			}
			modifier, _ := p.try(lexModifier)

			if !hasName && hasPattern {
				name = p.nextIndex()
			}
			out = append(out, Token{Key: &Key{
				Name:     name,
				Prefix:   prefix,
				Suffix:   suffix,
				Pattern:  pattern,
				Modifier: Modifier(modifier),
			}})
			continue
		}

		if err := p.must(lexEnd); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (p *parser) nextIndex() string {
	name := strconv.Itoa(p.key)
	p.key++
	return name
}

func (p *parser) try(kind lexKind) (string, bool) {
	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind {
		value := p.tokens[p.pos].value
		p.pos++
		return value, true
	}
	return "", false
}

func (p *parser) must(kind lexKind) error {
	if _, ok := p.try(kind); ok {
		return nil
	}
	tok := p.tokens[p.pos]
	return &Error{
		Template: p.tpl,
		Offset:   tok.index,
		Message:  fmt.Sprintf("unexpected %s, expected %s", tok.kind, kind),
	}
}

// text consumes a run of plain and escaped characters.
func (p *parser) text() string {
	var b strings.Builder
	for {
		if v, ok := p.try(lexChar); ok {
			b.WriteString(v)
			continue
		}
		if v, ok := p.try(lexEscaped); ok {
			b.WriteString(v)
			continue
		}
		return b.String()
	}
}
