// Package sqltext performs targeted textual inspection of already bound SQL
// statements: finding the statement kind, a closing ORDER BY clause or an
// existing row limit. It deliberately stops short of parsing; everything it
// reports is about top level tokens only, text nested in parentheses,
// literals, quoted identifiers and comments is skipped.
package sqltext

import (
	"strings"
)

// Syntax holds the lexical rules that differ between databases.
type Syntax struct {
	// BackslashEscapes makes a backslash escape the next character inside
	// quoted strings, as MySQL does unless NO_BACKSLASH_ESCAPES is set.
	BackslashEscapes bool
}

var (
	// Standard follows the SQL standard: a backslash is an ordinary
	// character. SQLite, Postgres, Oracle and SQL Server behave this way.
	Standard = Syntax{}
	MySQL    = Syntax{BackslashEscapes: true}
)

// boundingWords are top level keywords that restrict how many rows a
// statement returns in at least one supported database.
var boundingWords = []string{"LIMIT", "OFFSET", "FETCH", "TOP", "ROWNUM"}

// Trim removes surrounding whitespace, trailing comments and trailing
// statement terminators so clauses can be appended safely.
func (syntax Syntax) Trim(sql string) string {
	tokens := tokenize(sql, syntax)
	for len(tokens) > 0 && isTerminator(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return ""
	}
	return strings.TrimSpace(sql[:tokens[len(tokens)-1].end])
}

// IsSelect reports whether the statement is a query: it starts with SELECT,
// or with a WITH clause whose main statement is a SELECT.
func (syntax Syntax) IsSelect(sql string) bool {
	tokens := tokenize(sql, syntax)
	if len(tokens) == 0 {
		return false
	}

	first := tokens[0]
	if first.isWord("SELECT") {
		return true
	}
	if !first.isWord("WITH") {
		return false
	}
	for _, tok := range tokens[1:] {
		if tok.depth != 0 {
			continue
		}
		if tok.isWord("SELECT") {
			return true
		}
		if tok.isWord("INSERT", "UPDATE", "DELETE", "MERGE") {
			return false
		}
	}
	return false
}

// HasRowLimit reports whether the statement already bounds its rows at the
// top level with LIMIT, OFFSET, FETCH, TOP or ROWNUM.
func (syntax Syntax) HasRowLimit(sql string) bool {
	for _, tok := range tokenize(sql, syntax) {
		if tok.depth == 0 && tok.isWord(boundingWords...) {
			return true
		}
	}
	return false
}

// lockingWords may follow a top level FOR in a clause that has to stay last
// in the statement: row locks and SQL Server's FOR XML / FOR JSON / FOR BROWSE.
var lockingWords = []string{"UPDATE", "SHARE", "NO", "KEY", "XML", "JSON", "BROWSE", "READ"}

// HasLockingClause reports whether the statement ends in a top level
// locking or result shaping clause such as FOR UPDATE or LOCK IN SHARE MODE.
// Nothing can be appended after such a clause.
func (syntax Syntax) HasLockingClause(sql string) bool {
	tokens := tokenize(sql, syntax)
	for i := 0; i+1 < len(tokens); i++ {
		tok, next := tokens[i], tokens[i+1]
		if tok.depth != 0 {
			continue
		}
		if tok.isWord("FOR") && next.isWord(lockingWords...) {
			return true
		}
		if tok.isWord("LOCK") && next.isWord("IN") {
			return true
		}
	}
	return false
}

// TrailingOrderBy returns the byte offset at which a top level ORDER BY
// clause closing the statement starts. A clause followed by a row limit or
// a locking clause is not considered trailing.
func (syntax Syntax) TrailingOrderBy(sql string) (int, bool) {
	var (
		tokens = tokenize(sql, syntax)
		pos    = -1
	)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.depth != 0 {
			continue
		}
		if tok.isWord("ORDER") && i+1 < len(tokens) && tokens[i+1].isWord("BY") {
			pos = tok.start
			i++
			continue
		}
		if pos >= 0 && (tok.isWord(boundingWords...) || tok.isWord("FOR", "UNION", "INTERSECT", "EXCEPT")) {
			pos = -1
		}
	}
	if pos < 0 {
		return 0, false
	}
	return pos, true
}

// StripOrderBy returns the trimmed statement without its trailing ORDER BY
// clause, if it has one.
func (syntax Syntax) StripOrderBy(sql string) string {
	sql = syntax.Trim(sql)
	if pos, ok := syntax.TrailingOrderBy(sql); ok {
		return strings.TrimSpace(sql[:pos])
	}
	return sql
}

// IsSafeIdentifier reports whether name can be spliced into a statement as
// a column reference: one or more dot separated words, each either bare or
// wrapped in double quotes, backticks or brackets.
func (syntax Syntax) IsSafeIdentifier(name string) bool {
	if strings.TrimSpace(name) != name || name == "" {
		return false
	}
	tokens := tokenize(name, syntax)
	if len(tokens) == 0 {
		return false
	}
	expectPart := true
	for _, tok := range tokens {
		if expectPart {
			if tok.kind == tokenWord {
				expectPart = false
				continue
			}
			if tok.kind == tokenQuoted && tok.text[0] != '\'' && isClosed(tok) {
				expectPart = false
				continue
			}
			return false
		}
		if tok.kind != tokenSymbol || tok.text != "." {
			return false
		}
		expectPart = true
	}
	if expectPart {
		return false
	}
	// Whitespace and comments are dropped by the scanner, so make sure the
	// tokens cover the whole name.
	covered := 0
	for _, tok := range tokens {
		covered += tok.end - tok.start
	}
	return covered == len(name)
}

func isTerminator(tok token) bool {
	return tok.kind == tokenSymbol && tok.text == ";" && tok.depth == 0
}

func isClosed(tok token) bool {
	if len(tok.text) < 2 {
		return false
	}
	closing := tok.text[0]
	if closing == '[' {
		closing = ']'
	}
	return tok.text[len(tok.text)-1] == closing
}
