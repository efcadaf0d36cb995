// Package query implements the SOQL object query language: a tokenizer,
// a recursive descent parser producing an expression tree, constant
// folding, cross-type value comparison and a row evaluator.
//
// The language supports:
//   - SELECT with TOP, DISTINCT and aliased select items
//   - FROM lists with table aliases
//   - WHERE, GROUP BY, HAVING and ORDER BY with ASC/DESC
//   - path expressions (a.b.c), a.*, a.Items.count and soodaclass
//   - collection predicates: a.Items.contains(condition)
//   - EXISTS (subquery) and the Name WHERE condition shorthand
//   - positional parameters {0}, {1}, ...
//   - rawquery(...) passthrough of backend text
//
// # Parsing
//
// Parse a full query, a condition or a single expression:
//
//	q, err := query.ParseQuery("select top 10 name from Contact where age > {0} order by name")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	where, err := query.ParseWhereClause("Lines.contains(Price > 100) and not Closed = true")
//
// Errors are *ParseError values carrying the byte offset of the offending
// token. Use errors.Is with the sentinel errors to classify them:
//
//	if errors.Is(err, query.ErrUnexpectedToken) {
//	    ...
//	}
//
// # Simplification
//
// Simplify folds constant int32 and string sub-expressions and prunes
// boolean operators with constant operands. A node with nothing to fold
// returns itself:
//
//	e, _ := query.ParseExpression("x > 2 + 3 and 1 = 1")
//	s, _ := e.Simplify() // (x > 5)
//
// # Comparison
//
// Compare relates runtime values of different Go types by converting
// both to the widest bucket either belongs to. A nil operand makes every
// comparison false, and string comparison ignores case.
//
// # Evaluation
//
// Evaluate, ApplyFilter, ApplyOrderBy and ExecuteQuery run expressions
// against rows represented as map[string]interface{}:
//
//	rows := []query.Row{
//	    {"name": "alice", "age": int32(30)},
//	    {"name": "bob", "age": int32(25)},
//	}
//	filtered, err := query.ApplyFilter(rows, where, 28)
//
// Sub-queries, collection predicates, rawquery and soodaclass need a
// storage engine and fail with ErrNotSupported during evaluation.
//
// # Collections
//
// Select lists, IN lists and ORDER BY lists are ExpressionCollection
// values. Synchronized and ReadOnly wrap a collection for concurrent and
// immutable use.
package query
