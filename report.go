package sqlshape

import (
	"context"
	"errors"
	"sort"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/sirupsen/logrus"
)

// MaxStmtLen is the driver-side truncation cap. Statements longer than this
// are truncated before binding; canonical forms of truncated statements may
// collide or split spuriously, which is accepted.
const MaxStmtLen = 32 * 1024

// Statement is one cursor-cache row: the raw SQL text and how often it was
// executed.
type Statement struct {
	Text       string
	Executions int64
}

// Group collects the statements that share one canonical form.
type Group struct {
	Canonical  string
	Statements []Statement
}

// Executions sums the execution counts of the group's statements.
func (g Group) Executions() int64 {
	var n int64
	for _, s := range g.Statements {
		n += s.Executions
	}
	return n
}

// Report is the result of a cursor-cache scan. Groups holds every canonical
// form shared by at least minGroup statements, largest group first; TooLong
// counts statements skipped because binding hit the output cap.
type Report struct {
	RunID   uuid.UUID
	Groups  []Group
	TooLong int
}

// ScanCursorCache enumerates the backend's statement cache and groups the
// statements by canonical form. Statements are truncated to MaxStmtLen before
// binding; see GroupStatements for the grouping rules.
func ScanCursorCache(ctx context.Context, dbc DB, minGroup int, logger logrus.FieldLogger) (Report, error) {
	query, err := cursorCacheQuery(dbc)
	if err != nil {
		return Report{}, err
	}
	rows, err := dbc.QueryContext(ctx, query)
	if err != nil {
		return Report{}, err
	}
	defer rows.Close()

	var stmts []Statement
	for rows.Next() {
		var s Statement
		if err := rows.Scan(&s.Text, &s.Executions); err != nil {
			return Report{}, err
		}
		stmts = append(stmts, s)
	}
	if err := rows.Err(); err != nil {
		return Report{}, err
	}
	return GroupStatements(stmts, minGroup, logger), nil
}

// cursorCacheQuery picks the catalog query for the connected backend. Both
// return (statement text, execution count) rows.
func cursorCacheQuery(dbc DB) (string, error) {
	switch dbc.Driver().(type) {
	case *mssql.Driver:
		return `select st.text, qs.execution_count
from sys.dm_exec_query_stats qs
cross apply sys.dm_exec_sql_text(qs.sql_handle) st
where st.text is not null`, nil
	case *stdlib.Driver:
		return `select query, calls from pg_stat_statements`, nil
	}
	return "", errors.New("sqlshape: no cursor cache query for this driver")
}

// GroupStatements binds every statement with DefaultOptions and groups the
// results by canonical form. Only canonical forms shared by at least minGroup
// statements (minimum 2: a group of one is not a duplicate) are reported.
// Statements that bind to the TooLong sentinel are counted, logged and
// skipped rather than grouped: the sentinel would otherwise collect unrelated
// statements into one bogus group.
func GroupStatements(stmts []Statement, minGroup int, logger logrus.FieldLogger) Report {
	if minGroup < 2 {
		minGroup = 2
	}
	report := Report{RunID: uuid.Must(uuid.NewV4())}

	groups := make(map[string][]Statement)
	for _, s := range stmts {
		text := s.Text
		if len(text) > MaxStmtLen {
			text = text[:MaxStmtLen]
		}
		canonical := BoundStmt(text)
		if canonical == TooLong {
			report.TooLong++
			logger.WithField("bytes", len(s.Text)).
				Warn("statement produced an oversized canonical form, skipping")
			continue
		}
		if canonical == "" {
			continue
		}
		groups[canonical] = append(groups[canonical], s)
	}

	for canonical, members := range groups {
		if len(members) < minGroup {
			continue
		}
		report.Groups = append(report.Groups, Group{Canonical: canonical, Statements: members})
	}
	sort.Slice(report.Groups, func(i, j int) bool {
		a, b := report.Groups[i], report.Groups[j]
		if len(a.Statements) != len(b.Statements) {
			return len(a.Statements) > len(b.Statements)
		}
		return a.Canonical < b.Canonical
	})
	return report
}
