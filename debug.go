package sqlshape

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/vippsas/sqlshape/sqlscan"
)

var (
	logger   = logrus.StandardLogger()
	logDebug atomic.Bool
)

// SetLog toggles diagnostic logging. The flag is process-wide and advisory:
// it only gates debug output, never behavior.
func SetLog(enabled bool) {
	logDebug.Store(enabled)
	if enabled {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

func logEnabled() bool {
	return logDebug.Load()
}

// DebugPrintTokens writes one line per token of stmt: the kind right-aligned,
// then the quoted payload.
func DebugPrintTokens(w io.Writer, stmt string) {
	for _, tok := range sqlscan.Tokenize(stmt) {
		fmt.Fprintf(w, "%8s %q\n", tok.Kind, tok.Text)
	}
}
