package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// SchemaValidator checks a decoded reply. A non-nil error rejects it.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object found in raw model output into T.
// Code fences, surrounding prose, comments and ".5"-style numbers are
// tolerated. validator may be nil.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	jsonStr, err := cleanJSON(raw)
	if err != nil {
		return zero, err
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// ExtractJSONObject cleans raw output like ExtractJSON and returns the object
// unparsed. Iterating the result with ForEach keeps the key order the model
// produced, which a map would lose.
func ExtractJSONObject(raw string) (gjson.Result, error) {
	jsonStr, err := cleanJSON(raw)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.Valid(jsonStr) {
		return gjson.Result{}, fmt.Errorf("%w: response is not valid JSON", ErrInvalidOutput)
	}
	return gjson.Parse(jsonStr), nil
}

func cleanJSON(raw string) (string, error) {
	block := extractJSONBlock(stripCodeFences(raw))
	if block == "" {
		return "", fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	return normalizeLeadingDecimalNumbers(stripJSONComments(block)), nil
}

// stripCodeFences drops every ``` fence line and keeps everything else.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// lexer walks text byte by byte and tracks whether the cursor is inside a
// JSON string literal.
type lexer struct {
	s        string
	pos      int
	inString bool
	escaped  bool
}

func (l *lexer) done() bool { return l.pos >= len(l.s) }

func (l *lexer) peek() byte {
	if l.done() {
		return 0
	}
	return l.s[l.pos]
}

// step consumes one byte and reports whether it is structural. Bytes inside
// string literals and the quotes themselves are not.
func (l *lexer) step() (byte, bool) {
	c := l.s[l.pos]
	l.pos++
	switch {
	case l.escaped:
		l.escaped = false
		return c, false
	case l.inString && c == '\\':
		l.escaped = true
		return c, false
	case c == '"':
		l.inString = !l.inString
		return c, false
	}
	return c, !l.inString
}

// extractJSONBlock returns the first balanced {...} block, or "".
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	l := lexer{s: s, pos: start}
	depth := 0
	for !l.done() {
		c, structural := l.step()
		if !structural {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start:l.pos]
			}
		}
	}
	return ""
}

// stripJSONComments removes // and /* */ comments outside string values.
// Models emit them despite being told not to.
func stripJSONComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	l := lexer{s: s}
	for !l.done() {
		c, structural := l.step()
		if structural && c == '/' {
			switch l.peek() {
			case '/':
				for !l.done() && l.peek() != '\n' {
					l.pos++
				}
				continue
			case '*':
				l.pos++
				if end := strings.Index(s[l.pos:], "*/"); end >= 0 {
					l.pos += end + 2
				} else {
					l.pos = len(s)
				}
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// normalizeLeadingDecimalNumbers rewrites ".8" and "-.3" outside strings to
// "0.8" and "-0.3".
func normalizeLeadingDecimalNumbers(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	l := lexer{s: s}
	for !l.done() {
		c, structural := l.step()
		if structural && c == '.' && isDigit(l.peek()) && isNumericBoundary(prevNonSpace(s[:l.pos-1])) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func prevNonSpace(s string) byte {
	s = strings.TrimRight(s, " \t\r\n")
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

func isNumericBoundary(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
