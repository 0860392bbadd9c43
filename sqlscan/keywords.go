package sqlscan

import (
	"sort"
	"strings"
	"sync"
)

// InitKeywords builds the sorted keyword table. It is idempotent and safe to
// call from multiple goroutines; IsKeyword calls it on demand, so explicit
// initialization is only needed by callers that want the one-time cost up
// front.
func InitKeywords() {
	keywordOnce.Do(func() {
		keywords = append([]string(nil), keywordSource...)
		sort.Strings(keywords)
		// collapse duplicates between the category groups below
		w := 0
		for i, kw := range keywords {
			if i == 0 || kw != keywords[w-1] {
				keywords[w] = kw
				w++
			}
		}
		keywords = keywords[:w]
	})
}

// IsKeyword reports whether word is a reserved SQL keyword, matched
// case-insensitively. The table is immutable after InitKeywords, so
// concurrent lookups need no locking.
func IsKeyword(word string) bool {
	InitKeywords()
	lower := strings.ToLower(word)
	i := sort.SearchStrings(keywords, lower)
	return i < len(keywords) && keywords[i] == lower
}

var (
	keywordOnce sync.Once
	keywords    []string
)

// keywordSource lists strict SQL keywords only. Pseudo-columns (sysdate,
// rowid, rownum, level, uid, sid, oid, systimestamp, localtimestamp) and
// words that show up as ordinary column names all the time (id, name, no,
// test, null) are intentionally absent so they scan as plain identifiers.
var keywordSource = []string{
	// queries
	"select", "from", "where", "group", "by", "having", "order", "distinct",
	"all", "as", "union", "intersect", "minus", "exists", "in", "between",
	"like", "and", "or", "not", "is", "any", "some", "asc", "desc", "nulls",
	"first", "last", "siblings", "start", "connect", "prior", "nocycle",
	"for", "of", "with", "fetch", "only", "offset", "rows", "row", "next",
	"over", "sample", "seed", "pivot", "unpivot", "lateral",

	// joins
	"join", "inner", "outer", "left", "right", "full", "cross", "natural",
	"on", "using",

	// DML
	"insert", "into", "values", "update", "set", "delete", "merge",
	"matched", "returning", "multiset", "nowait", "wait", "skip", "locked",
	"error", "log", "reject", "limit",

	// transaction control
	"commit", "rollback", "savepoint", "transaction", "work", "read",
	"write", "isolation", "serializable",

	// DDL verbs
	"create", "alter", "drop", "rename", "truncate", "comment", "audit",
	"noaudit", "grant", "revoke", "analyze", "associate", "disassociate",
	"flashback", "purge", "replace", "force",

	// DDL objects
	"table", "view", "index", "sequence", "synonym", "trigger", "procedure",
	"function", "package", "body", "type", "cluster", "database", "schema",
	"tablespace", "user", "role", "profile", "materialized", "directory",
	"library", "operator", "outline", "context", "dimension",

	// ALTER TABLE and storage clauses
	"add", "modify", "move", "split", "exchange", "coalesce", "shrink",
	"space", "compact", "cascade", "constraints", "enable", "disable",
	"validate", "novalidate", "compile", "rebuild", "unusable", "online",
	"offline", "storage", "initial", "minextents", "maxextents", "pctfree",
	"pctused", "pctincrease", "initrans", "maxtrans", "logging", "nologging",
	"compress", "nocompress", "cache", "nocache", "parallel", "noparallel",
	"monitoring", "nomonitoring", "freelist", "freelists", "extent",
	"segment", "tempfile", "datafile", "autoextend", "maxsize", "reuse",

	// partitioning
	"partition", "subpartition", "partitions", "subpartitions", "hash",
	"range", "list", "local", "global", "interval", "store", "overflow",
	"template", "exceptions",

	// constraints
	"constraint", "primary", "key", "foreign", "references", "unique",
	"check", "default", "deferrable", "deferred", "immediate", "initially",
	"norely", "rely", "exclude", "including",

	// access and session control
	"session", "system", "identified", "externally", "password", "expire",
	"account", "lock", "unlock", "quota", "unlimited", "privileges",
	"public", "admin", "option", "container", "current", "authorization",

	// types
	"number", "integer", "int", "smallint", "decimal", "dec", "numeric",
	"float", "real", "double", "precision", "char", "character", "nchar",
	"varchar", "varchar2", "nvarchar2", "long", "raw", "clob", "nclob",
	"blob", "bfile", "date", "timestamp", "year", "month", "day", "hour",
	"minute", "second", "zone", "boolean", "binary_float", "binary_double",
	"national", "varying", "byte",

	// expressions
	"case", "when", "then", "else", "end", "cast", "treat", "escape",
	"nullif", "true", "false", "unknown", "mod", "new", "old",

	// procedural blocks
	"begin", "declare", "exception", "elsif", "loop", "while", "exit",
	"continue", "return", "goto", "raise", "pragma", "cursor", "open",
	"close", "bulk", "collect", "forall", "record", "subtype", "constant",
	"out", "inout", "nocopy", "authid", "definer", "deterministic",
	"pipelined", "pipe", "result_cache", "exec", "execute", "call",
	"language", "java", "external", "wrapped",

	// analytic and aggregate framing
	"within", "keep", "dense_rank", "ignore", "respect", "preceding",
	"following", "unbounded", "exclusive", "share", "mode",

	// hierarchy of MERGE/model clauses
	"model", "measures", "dimensions", "rules", "iterate", "until",
	"automatic", "sequential", "upsert", "main", "reference",

	// misc reserved words
	"access", "file", "increment", "maxvalue", "minvalue", "cycle",
	"nomaxvalue", "nominvalue", "noorder", "restrict", "each",
	"before", "after", "instead", "statement", "referencing", "resolve",
	"compound", "crossedition", "disallow", "attribute", "member",
	"static", "map", "final", "instantiable", "under", "overriding",
	"object", "varray", "nested", "organization", "heap", "temporary",
	"preserve", "definition", "backup", "recover", "standby", "archive",
	"archivelog", "noarchivelog", "controlfile", "resetlogs", "switch",
	"checkpoint", "mount", "dismount", "explain", "plan",
}
