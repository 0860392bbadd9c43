package sqlscan

import "strings"

// PartitionRefs walks a token stream and returns the start offsets of the
// identifiers that name a partition, in either of the two local shapes
//
//	partition PNAME
//	partition ( PNAME )
//
// with any amount of whitespace inside the connectors. `partition by` and
// other keyword continuations are not partition-name references. The result
// is a side table: token kinds are never changed.
func PartitionRefs(tokens []Token) map[int]bool {
	refs := make(map[int]bool)
	for i, tok := range tokens {
		if tok.Kind != KeywordToken || strings.ToLower(tok.Text) != "partition" {
			continue
		}
		if i+2 >= len(tokens) {
			continue
		}
		conn, next := tokens[i+1], tokens[i+2]
		if conn.Kind != ConnToken || next.Kind != IdentToken {
			continue
		}
		switch strings.TrimSpace(conn.Text) {
		case "":
			// bare form, separated by whitespace
			refs[next.Start] = true
		case "(":
			if i+3 < len(tokens) && closesParen(tokens[i+3]) {
				refs[next.Start] = true
			}
		}
	}
	return refs
}

func closesParen(tok Token) bool {
	if tok.Kind != ConnToken {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(tok.Text, " \t\n"), ")")
}
