package sqltext

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenWord tokenKind = iota + 1
	tokenQuoted
	tokenSymbol
)

type token struct {
	kind  tokenKind
	text  string
	start int // byte offset of the first character
	end   int // byte offset just past the last character
	depth int // parenthesis nesting level the token appears at
}

func (t token) isWord(words ...string) bool {
	if t.kind != tokenWord {
		return false
	}
	for _, w := range words {
		if strings.EqualFold(t.text, w) {
			return true
		}
	}
	return false
}

// scanner splits a SQL statement into words, quoted runs and symbols. It
// knows just enough lexical rules (string literals, quoted identifiers and
// comments) to never mistake text inside them for keywords.
type scanner struct {
	sql              string
	i                int
	depth            int
	backslashEscapes bool
}

func newScanner(sql string, syntax Syntax) *scanner {
	return &scanner{sql: sql, backslashEscapes: syntax.BackslashEscapes}
}

func tokenize(sql string, syntax Syntax) []token {
	var (
		s      = newScanner(sql, syntax)
		tokens []token
	)
	for {
		tok, ok := s.next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (s *scanner) next() (token, bool) {
	s.skipWhitespaceAndComments()
	if s.i >= len(s.sql) {
		return token{}, false
	}

	start := s.i
	c := s.sql[s.i]
	switch {
	case c == '\'':
		s.i = s.quotedEnd('\'')
		return token{kind: tokenQuoted, text: s.sql[start:s.i], start: start, end: s.i, depth: s.depth}, true
	case c == '"':
		s.i = s.quotedEnd('"')
		return token{kind: tokenQuoted, text: s.sql[start:s.i], start: start, end: s.i, depth: s.depth}, true
	case c == '`':
		s.i = s.quotedEnd('`')
		return token{kind: tokenQuoted, text: s.sql[start:s.i], start: start, end: s.i, depth: s.depth}, true
	case c == '[':
		s.i = s.quotedEnd(']')
		return token{kind: tokenQuoted, text: s.sql[start:s.i], start: start, end: s.i, depth: s.depth}, true
	case isWordByte(c):
		for s.i < len(s.sql) && isWordByte(s.sql[s.i]) {
			s.i++
		}
		return token{kind: tokenWord, text: s.sql[start:s.i], start: start, end: s.i, depth: s.depth}, true
	case c == '(':
		s.i++
		tok := token{kind: tokenSymbol, text: "(", start: start, end: s.i, depth: s.depth}
		s.depth++
		return tok, true
	case c == ')':
		s.i++
		if s.depth > 0 {
			s.depth--
		}
		return token{kind: tokenSymbol, text: ")", start: start, end: s.i, depth: s.depth}, true
	default:
		s.i++
		return token{kind: tokenSymbol, text: s.sql[start:s.i], start: start, end: s.i, depth: s.depth}, true
	}
}

func (s *scanner) skipWhitespaceAndComments() {
	for s.i < len(s.sql) {
		switch {
		case unicode.IsSpace(rune(s.sql[s.i])):
			s.i++
		case strings.HasPrefix(s.sql[s.i:], "--"):
			end := strings.IndexByte(s.sql[s.i:], '\n')
			if end < 0 {
				s.i = len(s.sql)
				return
			}
			s.i += end + 1
		case strings.HasPrefix(s.sql[s.i:], "/*"):
			end := strings.Index(s.sql[s.i+2:], "*/")
			if end < 0 {
				s.i = len(s.sql)
				return
			}
			s.i += end + 4
		default:
			return
		}
	}
}

// quotedEnd returns the offset just past the closing quote of the run that
// starts at s.i. Doubled closing quotes are treated as escapes. A backslash
// escapes the next character inside quoted strings only when the syntax
// says so. An unterminated run ends the statement.
func (s *scanner) quotedEnd(closing byte) int {
	escapes := s.backslashEscapes && (closing == '\'' || closing == '"')
	for i := s.i + 1; i < len(s.sql); i++ {
		switch s.sql[i] {
		case '\\':
			if escapes {
				i++
			}
		case closing:
			if i+1 < len(s.sql) && s.sql[i+1] == closing {
				i++
				continue
			}
			return i + 1
		}
	}
	return len(s.sql)
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c == '@' || c == '#' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c >= 0x80
}
