// Package sqlshape canonicalizes SQL statements so that statements differing
// only in literal values or cosmetic detail (case, whitespace, comments,
// partition names, numeric suffixes embedded in identifiers) collapse to the
// same "bound statement" string. Grouping cursor-cache contents by that
// string exposes client patterns that flood the shared cache with
// near-duplicate cursors.
package sqlshape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vippsas/sqlshape/sqlscan"
)

// TooLong is returned instead of a truncated canonical form when the bound
// statement would exceed MaxBoundLen. Callers branch on this value; it is not
// an error.
const TooLong = "**bound statement too long**"

// MaxBoundLen caps the bound statement so downstream fixed-buffer consumers
// are never handed an oversized string.
const MaxBoundLen = 32767

// Options selects the normalizations applied while binding.
type Options struct {
	// NormalizeNumbersInIdents replaces each digit run inside an identifier
	// with {k}, where k is assigned to that exact run on first occurrence.
	NormalizeNumbersInIdents bool

	// NormalizePartitionNames replaces identifiers naming a partition with
	// #k, assigned on first occurrence of that exact identifier.
	NormalizePartitionNames bool

	// StripHints replaces hints with a single space instead of keeping them.
	StripHints bool
}

// DefaultOptions normalizes identifier numbers and partition names and keeps
// hints.
func DefaultOptions() Options {
	return Options{
		NormalizeNumbersInIdents: true,
		NormalizePartitionNames:  true,
	}
}

// BoundStmt canonicalizes stmt with DefaultOptions.
func BoundStmt(stmt string) string {
	return BoundStmtOpts(stmt, DefaultOptions())
}

// BoundStmtOpts canonicalizes stmt: literals become :n/:s placeholders, binds
// become :b, keywords and connectors are lowercased, comments collapse to a
// space and whitespace is squeezed. The result depends only on stmt, opts and
// the keyword table, so concurrent calls are safe.
func BoundStmtOpts(stmt string, opts Options) string {
	s, _, _, _ := BoundStmtVerbose(stmt, opts)
	return s
}

// BoundStmtVerbose is BoundStmtOpts plus the replaced-literal bookkeeping:
// the number of replaced numbers and strings (binds excluded), and the
// original payloads of all replaced tokens with their kinds, in statement
// order. On a TooLong result the bookkeeping is discarded.
func BoundStmtVerbose(stmt string, opts Options) (canonical string, numLiterals int, values []string, kinds []sqlscan.TokenKind) {
	if stmt == "" {
		return "", 0, nil, nil
	}
	tokens := sqlscan.Tokenize(stmt)
	partitions := sqlscan.PartitionRefs(tokens)

	b := binding{
		opts:      opts,
		digitIdx:  make(map[string]int),
		partIdx:   make(map[string]int),
		partition: partitions,
	}
	for _, tok := range tokens {
		b.emit(tok)
		if b.out.Len() > MaxBoundLen {
			return TooLong, 0, nil, nil
		}
	}
	if logEnabled() {
		logger.WithField("tokens", len(tokens)).
			WithField("literals", b.numLiterals).
			Debug("bound statement")
	}
	return squeeze(b.out.String()), b.numLiterals, b.values, b.kinds
}

// binding holds the per-invocation state: the output buffer and the
// first-seen index maps. Nothing here outlives the call.
type binding struct {
	opts      Options
	out       strings.Builder
	digitIdx  map[string]int
	partIdx   map[string]int
	partition map[int]bool

	numLiterals int
	values      []string
	kinds       []sqlscan.TokenKind
}

func (b *binding) emit(tok sqlscan.Token) {
	switch tok.Kind {
	case sqlscan.ConnToken, sqlscan.KeywordToken:
		b.out.WriteString(strings.ToLower(tok.Text))
	case sqlscan.CommentToken:
		b.out.WriteByte(' ')
	case sqlscan.HintToken:
		switch {
		case b.opts.StripHints:
			b.out.WriteByte(' ')
		case b.opts.NormalizeNumbersInIdents:
			b.out.WriteString(b.mapDigitRuns(tok.Text))
		default:
			b.out.WriteString(tok.Text)
		}
	case sqlscan.BindToken:
		b.out.WriteString(":b")
		b.record(tok, false)
	case sqlscan.NumberToken:
		b.out.WriteString(":n")
		b.record(tok, true)
	case sqlscan.StringToken:
		b.out.WriteString(":s")
		b.record(tok, true)
	case sqlscan.IdentToken:
		if b.opts.NormalizePartitionNames && b.partition[tok.Start] {
			b.out.WriteByte('#')
			b.out.WriteString(strconv.Itoa(firstSeen(b.partIdx, tok.Text)))
		} else {
			b.out.WriteString(b.normalizeIdent(tok.Text))
		}
	default:
		panic(fmt.Sprintf("sqlshape: unknown token kind %d for token %q", tok.Kind, tok.Text))
	}
}

func (b *binding) record(tok sqlscan.Token, literal bool) {
	if literal {
		b.numLiterals++
	}
	b.values = append(b.values, tok.Text)
	b.kinds = append(b.kinds, tok.Kind)
}

// normalizeIdent maps digit runs, then lowercases bare identifiers. Quoted
// identifiers keep their case.
func (b *binding) normalizeIdent(text string) string {
	if b.opts.NormalizeNumbersInIdents {
		text = b.mapDigitRuns(text)
	}
	if strings.HasPrefix(text, `"`) {
		return text
	}
	return strings.ToLower(text)
}

// mapDigitRuns replaces each maximal digit run with {k}. The index map is
// shared across identifiers and hints of the statement, so the same run gets
// the same index everywhere it occurs.
func (b *binding) mapDigitRuns(text string) string {
	var sb strings.Builder
	for i := 0; i < len(text); {
		c := text[i]
		if c < '0' || c > '9' {
			sb.WriteByte(c)
			i++
			continue
		}
		j := i
		for j < len(text) && text[j] >= '0' && text[j] <= '9' {
			j++
		}
		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(firstSeen(b.digitIdx, text[i:j])))
		sb.WriteByte('}')
		i = j
	}
	return sb.String()
}

func firstSeen(idx map[string]int, key string) int {
	k, ok := idx[key]
	if !ok {
		k = len(idx)
		idx[key] = k
	}
	return k
}

var separators = []string{
	"=", "<", ">", "!", "+", "-", "*", "/", "(", ")", ",", ";", "|", ":",
	"[", "]", ".", "@",
}

// squeeze is the final, lossy whitespace normalization: newlines and tabs
// become spaces, space runs collapse, and single spaces next to a separator
// are dropped.
func squeeze(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	for _, sep := range separators {
		s = strings.ReplaceAll(s, " "+sep, sep)
		s = strings.ReplaceAll(s, sep+" ", sep)
	}
	return strings.TrimSpace(s)
}
