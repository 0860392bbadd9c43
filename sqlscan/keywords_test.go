package sqlscan

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordTable(t *testing.T) {
	InitKeywords()
	InitKeywords() // idempotent

	assert.True(t, sort.StringsAreSorted(keywords))
	for i := 1; i < len(keywords); i++ {
		assert.NotEqual(t, keywords[i-1], keywords[i])
	}

	assert.True(t, IsKeyword("select"))
	assert.True(t, IsKeyword("SELECT"))
	assert.True(t, IsKeyword("PaRtItIoN"))
	assert.True(t, IsKeyword("by"))
	assert.True(t, IsKeyword("move"))

	// pseudo-columns and common column names are not keywords
	for _, word := range []string{
		"sysdate", "rowid", "rownum", "level", "uid", "sid", "oid",
		"systimestamp", "localtimestamp", "id", "name", "no", "test", "null",
	} {
		assert.False(t, IsKeyword(word), word)
	}

	assert.False(t, IsKeyword(""))
	assert.False(t, IsKeyword("t103"))
}
