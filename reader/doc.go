// Package reader loads Apache Parquet files as rows for the query
// evaluator.
//
// Rows are query.Row values: maps keyed by column name, with nested
// groups as nested maps. Column order follows the file schema.
//
// # Basic Usage
//
// Reading a single parquet file:
//
//	r, err := reader.NewReader("contacts.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	rows, err := r.ReadAll()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Multi-file Operations
//
// ReadTable expands glob patterns and tags every row with its source
// file in the _file column:
//
//	table, err := reader.ReadTable("data/*.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := query.ExecuteQuery(q, table.Rows, table.Columns)
//
// # Schema Introspection
//
// Describe lists leaf columns with dotted names and the comparison Kind
// of their values:
//
//	columns, err := reader.Describe("contacts.parquet")
//	for _, c := range columns {
//	    fmt.Printf("%s %s %s\n", c.Name, c.Type, c.Kind)
//	}
package reader
