package sqlshape

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugPrintTokens(t *testing.T) {
	var buf bytes.Buffer
	DebugPrintTokens(&buf, "select 'x' from t103")

	assert.Equal(t, ` keyword "select"
    conn " "
  string "'x'"
    conn " "
 keyword "from"
    conn " "
   ident "t103"
`, buf.String())
}

func TestDebugPrintTokensEmpty(t *testing.T) {
	var buf bytes.Buffer
	DebugPrintTokens(&buf, "")
	assert.Zero(t, buf.Len())
}

func TestSetLog(t *testing.T) {
	SetLog(true)
	assert.True(t, logEnabled())
	SetLog(false)
	assert.False(t, logEnabled())
}
