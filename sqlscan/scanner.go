package sqlscan

import (
	"bytes"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/smasher164/xid"
)

// The tokenizer works on a mutable copy of the input. Each pass extracts the
// tokens it is responsible for and blanks them out of the working buffer, so
// later passes cannot re-claim characters inside strings, comments or quoted
// names. The passes run in a fixed order:
//
//	1. string-like sections: comments, hints, quoted names, string literals
//	2. bind variables
//	3. identifiers and keywords
//	4. numeric literals
//	5. reconciliation of binds whose name is separated by whitespace
//	6. connector fill for everything left over
//
// Two sentinel spaces are appended before scanning and trimmed from the
// result, so every forward scan for the end of an identifier or number
// terminates on a non-token character before the end of the buffer.
const sentinel = "  "

// Tokenize splits stmt into an ordered token stream covering every character
// of the input. It is total: malformed or truncated statements never fail,
// and unterminated strings, quoted names and comments extend to the end of
// the input.
func Tokenize(stmt string) []Token {
	if stmt == "" {
		return nil
	}
	src := strings.ReplaceAll(stmt, "\r", " ") + sentinel
	t := &tokenizer{
		src:     src,
		work:    []byte(src),
		claimed: make([]bool, len(src)),
	}
	t.scanStringLike()
	t.scanBinds()
	t.scanIdentifiers()
	t.scanNumbers()
	t.sortByStart()
	t.reconcileBinds()
	t.fillConnectors()
	t.trimSentinel()
	return t.tokens
}

type tokenizer struct {
	src     string
	work    []byte
	claimed []bool
	tokens  []Token

	// keyword spans, consulted when deciding whether a sign belongs to a
	// numeric literal
	keywords []span
}

type span struct {
	start, end int
}

func (t *tokenizer) emit(start, end int, kind TokenKind) {
	t.tokens = append(t.tokens, Token{Start: start, Text: t.src[start:end], Kind: kind})
	for i := start; i < end; i++ {
		t.work[i] = ' '
		t.claimed[i] = true
	}
}

func (t *tokenizer) byteAt(i int) byte {
	if i < 0 || i >= len(t.work) {
		return 0
	}
	return t.work[i]
}

// scanStringLike repeatedly finds the earliest remaining opener among
// /* -- " ' and extracts the section it starts. Comment sections whose body
// begins with '+' are hints.
func (t *tokenizer) scanStringLike() {
	pos := 0
	for {
		idx, opener := t.nextOpener(pos)
		if idx < 0 {
			return
		}
		var end int
		kind := CommentToken
		switch opener {
		case "/*":
			if t.work[idx+2] == '+' {
				kind = HintToken
			}
			if e := indexFrom(t.work, "*/", idx+2); e >= 0 {
				end = e + 2
			} else {
				end = len(t.work)
			}
		case "--":
			if t.work[idx+2] == '+' {
				kind = HintToken
			}
			if e := bytes.IndexByte(t.work[idx+2:], '\n'); e >= 0 {
				end = idx + 2 + e + 1
			} else {
				end = len(t.work)
			}
		case `"`:
			kind = IdentToken
			if e := bytes.IndexByte(t.work[idx+1:], '"'); e >= 0 {
				end = idx + 1 + e + 1
			} else {
				end = len(t.work)
			}
		case "'":
			kind = StringToken
			end = t.stringEnd(idx + 1)
		}
		t.emit(idx, end, kind)
		pos = end
	}
}

func (t *tokenizer) nextOpener(pos int) (int, string) {
	best, opener := -1, ""
	for _, cand := range []string{"/*", "--", `"`, "'"} {
		if i := indexFrom(t.work, cand, pos); i >= 0 && (best < 0 || i < best) {
			best, opener = i, cand
		}
	}
	return best, opener
}

// stringEnd finds the first unpaired closing quote; a doubled '' inside the
// literal does not terminate it.
func (t *tokenizer) stringEnd(pos int) int {
	for {
		e := bytes.IndexByte(t.work[pos:], '\'')
		if e < 0 {
			return len(t.work)
		}
		e += pos
		if t.byteAt(e+1) == '\'' {
			pos = e + 2
			continue
		}
		return e + 1
	}
}

// scanBinds extracts : plus the immediately following identifier run, and an
// optional :indicator suffix. := is the assignment operator and is left to
// the connector pass. A lone : may pick up a whitespace-separated name later,
// in reconcileBinds.
func (t *tokenizer) scanBinds() {
	pos := 0
	for {
		i := bytes.IndexByte(t.work[pos:], ':')
		if i < 0 {
			return
		}
		i += pos
		if t.byteAt(i+1) == '=' {
			pos = i + 2
			continue
		}
		j := t.identRunEnd(i + 1)
		if j > i+1 && t.byteAt(j) == ':' {
			if k := t.identRunEnd(j + 1); k > j+1 {
				j = k
			}
		}
		t.emit(i, j, BindToken)
		pos = j
	}
}

// scanIdentifiers claims every remaining letter-initial run. An e/E that sits
// in the exponent position of a numeric literal is skipped so the number pass
// can absorb it.
func (t *tokenizer) scanIdentifiers() {
	pos := 0
	for pos < len(t.work) {
		r, w := utf8.DecodeRune(t.work[pos:])
		if !xid.Start(r) {
			pos += w
			continue
		}
		if (r == 'e' || r == 'E') && t.isExponentMarker(pos) {
			pos += w
			continue
		}
		j := t.identRunEnd(pos)
		if j >= len(t.work) {
			panic("sqlscan: no non-alphanumeric character found")
		}
		kind := IdentToken
		if IsKeyword(t.src[pos:j]) {
			kind = KeywordToken
			t.keywords = append(t.keywords, span{pos, j})
		}
		t.emit(pos, j, kind)
		pos = j
	}
}

// isExponentMarker reports whether the e/E at pos is the exponent marker of a
// numeric literal: the next character is a digit, or a sign followed by a
// digit, and the previous character is a digit, or a '.' preceded by a digit.
// Out-of-range positions read as a non-digit.
func (t *tokenizer) isExponentMarker(pos int) bool {
	next1, next2 := t.byteAt(pos+1), t.byteAt(pos+2)
	prev1, prev2 := t.byteAt(pos-1), t.byteAt(pos-2)
	after := isDigit(next1) || ((next1 == '+' || next1 == '-') && isDigit(next2))
	before := isDigit(prev1) || (prev1 == '.' && isDigit(prev2))
	return after && before
}

// scanNumbers claims numeric literals, deciding per occurrence whether a
// preceding sign belongs to the number or to the surrounding connector.
func (t *tokenizer) scanNumbers() {
	pos := 0
	for pos < len(t.work) {
		c := t.work[pos]
		if !isDigit(c) && c != '.' {
			pos++
			continue
		}
		if c == '.' && !isDigit(t.byteAt(pos+1)) {
			pos++
			continue
		}
		start := t.adoptSign(pos)
		end := t.numberEnd(pos)
		if end >= len(t.work) {
			panic("sqlscan: no non-num-period character found")
		}
		t.emit(start, end, NumberToken)
		pos = end
	}
}

// adoptSign walks back from the first digit over unclaimed whitespace to a
// candidate +/-. The sign is part of the number only when the previous
// non-whitespace character of the original statement is an operator or lies
// inside a keyword; anywhere else (after an identifier or another number) it
// is a binary operator and stays with the connector. A sign with nothing at
// all before it is adopted too.
func (t *tokenizer) adoptSign(pos int) int {
	k := pos - 1
	for k >= 0 && !t.claimed[k] && isSpace(t.src[k]) {
		k--
	}
	if k < 0 || t.claimed[k] || (t.src[k] != '+' && t.src[k] != '-') {
		return pos
	}
	m := k - 1
	for m >= 0 && isSpace(t.src[m]) {
		m--
	}
	if m < 0 {
		return k
	}
	if strings.IndexByte("+-*/(=<>|,[", t.src[m]) >= 0 || t.inKeyword(m) {
		return k
	}
	return pos
}

func (t *tokenizer) inKeyword(pos int) bool {
	for _, s := range t.keywords {
		if pos >= s.start && pos < s.end {
			return true
		}
	}
	return false
}

func (t *tokenizer) numberEnd(pos int) int {
	j := pos
	if t.work[j] == '.' {
		j++
		j = t.digitRunEnd(j)
	} else {
		j = t.digitRunEnd(j)
		if t.byteAt(j) == '.' {
			j++
			j = t.digitRunEnd(j)
		}
	}
	if c := t.byteAt(j); c == 'e' || c == 'E' {
		k := j + 1
		if c := t.byteAt(k); c == '+' || c == '-' {
			k++
		}
		if isDigit(t.byteAt(k)) {
			j = t.digitRunEnd(k)
		}
	}
	return j
}

func (t *tokenizer) digitRunEnd(pos int) int {
	for pos < len(t.work) && isDigit(t.work[pos]) {
		pos++
	}
	return pos
}

func (t *tokenizer) identRunEnd(pos int) int {
	j := pos
	for j < len(t.work) {
		r, w := utf8.DecodeRune(t.work[j:])
		if !(xid.Continue(r) || r == '$' || r == '#') {
			break
		}
		j += w
	}
	return j
}

func (t *tokenizer) sortByStart() {
	// tokens are appended per pass, so the stream is ordered within each
	// pass but not across passes
	sort.Slice(t.tokens, func(i, j int) bool {
		return t.tokens[i].Start < t.tokens[j].Start
	})
}

// reconcileBinds merges a bare : with the identifier that follows it across
// whitespace only, keeping the exact whitespace inside the bind payload.
// This covers both ": name" and `: "Name"` spellings.
func (t *tokenizer) reconcileBinds() {
	for i := 0; i+1 < len(t.tokens); i++ {
		cur, next := t.tokens[i], t.tokens[i+1]
		if cur.Kind != BindToken || cur.Text != ":" || next.Kind != IdentToken {
			continue
		}
		if !allSpace(t.src[cur.End():next.Start]) {
			continue
		}
		t.tokens[i] = Token{Start: cur.Start, Text: t.src[cur.Start:next.End()], Kind: BindToken}
		t.tokens = append(t.tokens[:i+1], t.tokens[i+2:]...)
	}
}

func (t *tokenizer) fillConnectors() {
	out := make([]Token, 0, 2*len(t.tokens)+1)
	pos := 0
	for _, tok := range t.tokens {
		if tok.Start > pos {
			out = append(out, Token{Start: pos, Text: t.src[pos:tok.Start], Kind: ConnToken})
		}
		out = append(out, tok)
		pos = tok.End()
	}
	if pos < len(t.src) {
		out = append(out, Token{Start: pos, Text: t.src[pos:], Kind: ConnToken})
	}
	t.tokens = out
}

// trimSentinel removes the two appended spaces from the observable stream.
func (t *tokenizer) trimSentinel() {
	drop := len(sentinel)
	for drop > 0 && len(t.tokens) > 0 {
		last := &t.tokens[len(t.tokens)-1]
		if n := len(last.Text); n > drop {
			last.Text = last.Text[:n-drop]
			return
		} else {
			drop -= n
			t.tokens = t.tokens[:len(t.tokens)-1]
		}
	}
}

func indexFrom(b []byte, sub string, from int) int {
	i := bytes.Index(b[from:], []byte(sub))
	if i < 0 {
		return -1
	}
	return from + i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

func allSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}
