package query

import "fmt"

// Result holds the rows of an executed query and the order of its columns
type Result struct {
	Columns []string
	Rows    []Row
}

// ExecuteQuery runs q over rows already read from its single source.
// columns lists the source columns in schema order, for *.
//
// Evaluation order: WHERE, ORDER BY, TOP, select list, DISTINCT.
// GROUP BY and HAVING belong to the storage engine and are rejected.
func ExecuteQuery(q *QueryExpression, rows []Row, columns []string, params ...interface{}) (*Result, error) {
	if q.GroupBy.Len() > 0 || q.Having != nil {
		return nil, fmt.Errorf("%w: GROUP BY and HAVING", ErrNotSupported)
	}
	if len(q.From) > 1 {
		return nil, fmt.Errorf("%w: more than one source in FROM", ErrNotSupported)
	}
	if columns == nil {
		columns = GetColumnNames(rows)
	}

	filtered, err := ApplyFilter(rows, q.Where, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to apply WHERE: %w", err)
	}

	sorted, err := ApplyOrderBy(filtered, q, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to apply ORDER BY: %w", err)
	}

	// DISTINCT must see every row before TOP cuts the result
	limited := sorted
	if !q.Distinct {
		limited = ApplyTop(sorted, q.TopCount)
	}

	projected, names, err := ApplySelectList(limited, columns, q, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to apply SELECT list: %w", err)
	}

	if q.Distinct {
		projected = ApplyTop(ApplyDistinct(projected), q.TopCount)
	}

	return &Result{Columns: names, Rows: projected}, nil
}
