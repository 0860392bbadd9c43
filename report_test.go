package sqlshape

import (
	"strings"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupStatements(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()

	report := GroupStatements([]Statement{
		{Text: "select * from t where x = 1", Executions: 3},
		{Text: "select * from t where x = 2", Executions: 2},
		{Text: "SELECT * FROM t WHERE x = +3", Executions: 1},
		{Text: "select a from q", Executions: 9},
		{Text: "update t set a = 1 where k = 2", Executions: 1},
		{Text: "update t set a = 9 where k = 8", Executions: 1},
	}, 2, logger)

	require.Len(t, report.Groups, 2)
	assert.NotEqual(t, uuid.Nil, report.RunID)
	assert.Zero(t, report.TooLong)
	assert.Empty(t, hook.Entries)

	// biggest group first
	assert.Equal(t, "select*from t where x=:n", report.Groups[0].Canonical)
	assert.Len(t, report.Groups[0].Statements, 3)
	assert.Equal(t, int64(6), report.Groups[0].Executions())

	assert.Equal(t, "update t set a=:n where k=:n", report.Groups[1].Canonical)
	assert.Len(t, report.Groups[1].Statements, 2)
}

func TestGroupStatementsMinGroup(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()

	stmts := []Statement{
		{Text: "select * from t where x = 1"},
		{Text: "select * from t where x = 2"},
		{Text: "select * from t where x = 3"},
		{Text: "delete from q where k = 1"},
		{Text: "delete from q where k = 2"},
	}

	report := GroupStatements(stmts, 3, logger)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, "select*from t where x=:n", report.Groups[0].Canonical)

	// a group of one is never a duplicate, whatever the caller passes
	report = GroupStatements(stmts, 0, logger)
	assert.Len(t, report.Groups, 2)
}

func TestGroupStatementsTooLong(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()

	report := GroupStatements([]Statement{
		{Text: strings.Repeat("a", 2*MaxStmtLen)},
		{Text: "select 1 from dual"},
	}, 2, logger)

	assert.Equal(t, 1, report.TooLong)
	assert.Empty(t, report.Groups)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.Entries[0].Level)
}
