package sqlshape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/sqlshape/sqlscan"
)

func TestBoundStmt(t *testing.T) {
	test := func(input, expected string) func(*testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, expected, BoundStmt(input))
		}
	}

	t.Run("", test(
		"select * from t where x = 2",
		"select*from t where x=:n"))

	t.Run("", test(
		"SELECT * FROM T WHERE ID = +1.2e+1 AND Y = 'PIPPO' AND Z = :B1",
		"select*from t where id=:n and y=:s and z=:b"))

	t.Run("", test(
		`select /*+hint*/ /*co*/ x , C, "AA" FROM t t103 where 1  =  'pippo' and  :ph3= "t103"`,
		`select/*+hint*/x,c,"AA" from t t{0} where:n=:s and:b="t{0}"`))

	t.Run("", test(
		"insert into t partition ( SYS_P32596 )  select sum(x) over( partition by x) from t partition(SYS_P32596)",
		"insert into t partition(#0)select sum(x)over(partition by x)from t partition(#0)"))

	t.Run("", test(
		"alter table t move partition SYS_P32596",
		"alter table t move partition #0"))

	// same digit run, same index, across identifiers
	t.Run("", test(
		"select t103 , u103 , c4 , c4 from x",
		"select t{0},u{0},c{1},c{1} from x"))

	// quoted identifiers keep their case, bare ones are lowercased
	t.Run("", test(
		`select "MiXed" , BARE from t`,
		`select "MiXed",bare from t`))

	// digit runs inside a kept hint share the identifier index map
	t.Run("", test(
		"select /*+ full_99 */ a99 from t",
		"select/*+full_{0}*/a{0} from t"))

	// comments collapse to whitespace
	t.Run("", test(
		"select /* first */ x /* second */ from t",
		"select x from t"))

	t.Run("", test("", ""))
	t.Run("", test("   \t  ", ""))
}

func TestBoundStmtOpts(t *testing.T) {
	t.Run("keep identifier numbers", func(t *testing.T) {
		opts := Options{NormalizePartitionNames: true}
		assert.Equal(t, "select t103 from t",
			BoundStmtOpts("select t103 from t", opts))
	})

	t.Run("keep partition names", func(t *testing.T) {
		opts := Options{NormalizeNumbersInIdents: true}
		assert.Equal(t, "alter table t move partition sys_p{0}",
			BoundStmtOpts("alter table t move partition SYS_P32596", opts))
	})

	t.Run("keep everything", func(t *testing.T) {
		assert.Equal(t, "alter table t move partition sys_p32596",
			BoundStmtOpts("alter table t move partition SYS_P32596", Options{}))
	})

	t.Run("strip hints", func(t *testing.T) {
		opts := DefaultOptions()
		opts.StripHints = true
		assert.Equal(t, "select a from t",
			BoundStmtOpts("select /*+ first_rows */ a from t", opts))
	})
}

func TestBoundStmtVerbose(t *testing.T) {
	canonical, numLiterals, values, kinds := BoundStmtVerbose(
		"SELECT * FROM T WHERE ID = +1.2e+1 AND Y = 'PIPPO' AND Z = :B1",
		DefaultOptions())

	assert.Equal(t, "select*from t where id=:n and y=:s and z=:b", canonical)
	assert.Equal(t, 2, numLiterals) // binds are not literals
	assert.Equal(t, []string{"+1.2e+1", "'PIPPO'", ":B1"}, values)
	assert.Equal(t, []sqlscan.TokenKind{
		sqlscan.NumberToken, sqlscan.StringToken, sqlscan.BindToken,
	}, kinds)
}

func TestBoundStmtIdempotent(t *testing.T) {
	// literal-free statements are a fixed point under re-binding
	for _, stmt := range []string{
		"select a , b from t where x = y",
		"SELECT a FROM t_tab WHERE x LIKE y ESCAPE z",
	} {
		once := BoundStmt(stmt)
		assert.Equal(t, once, BoundStmt(once))
	}
}

func TestBoundStmtDeterministic(t *testing.T) {
	stmt := `select /*+hint*/ x , C, "AA" FROM t t103 where 1  =  'pippo'`
	first := BoundStmt(stmt)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, BoundStmt(stmt))
	}
}

func TestBoundStmtTooLong(t *testing.T) {
	atCap := strings.Repeat("a", MaxBoundLen)
	assert.Equal(t, atCap, BoundStmt(atCap))

	overCap := strings.Repeat("a", MaxBoundLen+1)
	assert.Equal(t, TooLong, BoundStmt(overCap))

	canonical, numLiterals, values, kinds := BoundStmtVerbose(overCap, DefaultOptions())
	assert.Equal(t, TooLong, canonical)
	assert.Zero(t, numLiterals)
	assert.Nil(t, values)
	assert.Nil(t, kinds)
}
