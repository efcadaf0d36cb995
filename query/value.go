package query

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the runtime type of a scalar value, as seen by comparison
// and constant folding
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindTime    // time.Time
	KindFloat   // float64, float32
	KindDecimal // decimal.Decimal
	KindInt32   // int8, int16, int32
	KindBool    // bool
	KindString  // string
	KindUint32  // uint8, uint16, uint32
	KindInt64   // int64, int
	KindUint64  // uint64, uint
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindTime:
		return "datetime"
	case KindFloat:
		return "double"
	case KindDecimal:
		return "decimal"
	case KindInt32:
		return "int32"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindUint32:
		return "uint32"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindOf classifies a Go value into its comparison Kind.
// Values of any other Go type are KindInvalid.
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case time.Time:
		return KindTime
	case float64, float32:
		return KindFloat
	case decimal.Decimal:
		return KindDecimal
	case int8, int16, int32:
		return KindInt32
	case bool:
		return KindBool
	case string:
		return KindString
	case uint8, uint16, uint32:
		return KindUint32
	case int64, int:
		return KindInt64
	case uint64, uint:
		return KindUint64
	default:
		return KindInvalid
	}
}

// bucketOrder lists the comparison buckets from widest to narrowest
var bucketOrder = []Kind{
	KindTime,
	KindFloat,
	KindDecimal,
	KindInt32,
	KindBool,
	KindString,
	KindUint32,
	KindInt64,
	KindUint64,
}

// bucketOf picks the widest bucket that either kind belongs to
func bucketOf(k1, k2 Kind) Kind {
	for _, b := range bucketOrder {
		if k1 == b || k2 == b {
			return b
		}
	}
	return KindInvalid
}
