package pathtpl

type lexKind int

const (
	lexOpen lexKind = iota
	lexClose
	lexPattern
	lexName
	lexChar
	lexEscaped
	lexModifier
	lexEnd
)

func (k lexKind) String() string {
	switch k {
	case lexOpen:
		return `"{"`
	case lexClose:
		return `"}"`
	case lexPattern:
		return "pattern"
	case lexName:
		return "name"
	case lexChar:
		return "character"
	case lexEscaped:
		return "escaped character"
	case lexModifier:
		return "modifier"
	default:
		return "end of template"
	}
}

type lexToken struct {
	kind  lexKind
	index int
	value string
}

// lex splits tpl into tokens. Offsets are rune indices.
func lex(tpl string) ([]lexToken, error) {
	src := []rune(tpl)
	tokens := make([]lexToken, 0, len(src)+1)

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case c == '*' || c == '+' || c == '?':
			tokens = append(tokens, lexToken{kind: lexModifier, index: i, value: string(c)})
			i++

		case c == '\\':
			if i+1 >= len(src) {
				return nil, &Error{Template: tpl, Offset: i, Message: "trailing escape"}
			}
			tokens = append(tokens, lexToken{kind: lexEscaped, index: i, value: string(src[i+1])})
			i += 2

		case c == '{':
			tokens = append(tokens, lexToken{kind: lexOpen, index: i, value: "{"})
			i++

		case c == '}':
			tokens = append(tokens, lexToken{kind: lexClose, index: i, value: "}"})
			i++

		case c == ':':
			j := i + 1
			for j < len(src) && isNameRune(src[j]) {
				j++
			}
			if j == i+1 {
				return nil, &Error{Template: tpl, Offset: i, Message: "missing parameter name"}
			}
			tokens = append(tokens, lexToken{kind: lexName, index: i, value: string(src[i+1 : j])})
			i = j

		case c == '(':
			pattern, next, err := scanPattern(tpl, src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, lexToken{kind: lexPattern, index: i, value: pattern})
			i = next

		default:
			tokens = append(tokens, lexToken{kind: lexChar, index: i, value: string(c)})
			i++
		}
	}

	tokens = append(tokens, lexToken{kind: lexEnd, index: len(src)})
	return tokens, nil
}

// scanPattern reads a balanced "(...)" group starting at src[start] and
// returns its body and the index after the closing parenthesis. Nested
// groups must be non-capturing.
func scanPattern(tpl string, src []rune, start int) (string, int, error) {
	count := 1
	j := start + 1

	if j < len(src) && src[j] == '?' {
		return "", 0, &Error{Template: tpl, Offset: j, Message: `pattern cannot start with "?"`}
	}

	var body []rune
	for j < len(src) {
		c := src[j]

		if c == '\\' {
			if j+1 >= len(src) {
				return "", 0, &Error{Template: tpl, Offset: j, Message: "trailing escape"}
			}
			body = append(body, c, src[j+1])
			j += 2
			continue
		}

		if c == ')' {
			count--
			if count == 0 {
				j++
				break
			}
		} else if c == '(' {
			count++
			if j+1 >= len(src) || src[j+1] != '?' {
				return "", 0, &Error{Template: tpl, Offset: j, Message: "capturing groups are not allowed"}
			}
		}

		body = append(body, c)
		j++
	}

	if count > 0 {
		return "", 0, &Error{Template: tpl, Offset: start, Message: "unbalanced pattern"}
	}
	if len(body) == 0 {
		return "", 0, &Error{Template: tpl, Offset: start, Message: "missing pattern"}
	}
	return string(body), j, nil
}

func isNameRune(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}
