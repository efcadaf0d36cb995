package reader

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/soql/query"
)

// ColumnInfo describes one leaf column of a parquet file
type ColumnInfo struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	PhysicalType string     `json:"physical_type"`
	LogicalType  string     `json:"logical_type,omitempty"`
	Kind         query.Kind `json:"-"`
	Optional     bool       `json:"optional"`
	Repeated     bool       `json:"repeated"`
}

// Describe lists the leaf columns of the parquet file at path.
//
// Nested fields use dot notation (address.city), which is also the path
// a query uses to reach them. Kind is the comparison bucket values of
// the column fall into.
func Describe(path string) ([]ColumnInfo, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = r.Close() }()

	var columns []ColumnInfo
	for _, field := range r.Schema().Fields() {
		columns = append(columns, describeField(field, "", false)...)
	}
	return columns, nil
}

// describeField walks a field, carrying the repeated flag of its parents
func describeField(field parquet.Field, prefix string, parentRepeated bool) []ColumnInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		var infos []ColumnInfo
		for _, child := range children {
			infos = append(infos, describeField(child, name, repeated)...)
		}
		return infos
	}

	info := ColumnInfo{
		Name:         name,
		PhysicalType: physicalType(field.Type().Kind()),
		Optional:     field.Optional(),
		Repeated:     repeated,
	}
	if lt := field.Type().LogicalType(); lt != nil {
		info.LogicalType = lt.String()
	}
	info.Type, info.Kind = columnType(field.Type().Kind(), info.LogicalType)
	return []ColumnInfo{info}
}

func physicalType(kind parquet.Kind) string {
	switch kind {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// columnType maps a column to a user-facing type name and the Kind of
// the values read from it. The logical type wins over the physical one.
func columnType(kind parquet.Kind, logical string) (string, query.Kind) {
	logical, _, _ = strings.Cut(logical, "(")
	switch logical {
	case "STRING", "UTF8", "ENUM", "JSON", "UUID":
		return logical, query.KindString
	case "DATE", "TIMESTAMP", "TIME":
		return logical, query.KindTime
	case "DECIMAL":
		return logical, query.KindDecimal
	}

	switch kind {
	case parquet.Boolean:
		return "BOOLEAN", query.KindBool
	case parquet.Int32:
		return "INT32", query.KindInt32
	case parquet.Int64:
		return "INT64", query.KindInt64
	case parquet.Int96:
		return "INT96", query.KindInvalid
	case parquet.Float:
		return "FLOAT32", query.KindFloat
	case parquet.Double:
		return "FLOAT64", query.KindFloat
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return "BYTE_ARRAY", query.KindInvalid
	default:
		return "UNKNOWN", query.KindInvalid
	}
}
