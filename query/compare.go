package query

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Compare relates two runtime values with op.
//
// A nil operand makes the comparison false. Otherwise both values are
// converted to the widest bucket either of them belongs to, in the order
// time, float, decimal, int32, bool, string, uint32, int64, uint64, and
// compared there. Strings compared with times are parsed as dates, in
// UTC when they carry no zone. String comparison ignores case. Like is
// only supported between strings; booleans only support = and <>.
func Compare(v1, v2 interface{}, op RelationalOperator) (bool, error) {
	if v1 == nil || v2 == nil {
		return false, nil
	}

	bucket := bucketOf(KindOf(v1), KindOf(v2))
	switch bucket {
	case KindTime:
		a, b, err := convertPair(v1, v2, toTime)
		if err != nil {
			return false, err
		}
		return compareOrdered(bucket, op, a.Compare(b))
	case KindFloat:
		a, b, err := convertPair(v1, v2, toFloat)
		if err != nil {
			return false, err
		}
		return compareFloats(op, a, b)
	case KindDecimal:
		a, b, err := convertPair(v1, v2, toDecimal)
		if err != nil {
			return false, err
		}
		return compareOrdered(bucket, op, a.Cmp(b))
	case KindInt32:
		a, b, err := convertPair(v1, v2, toInt32)
		if err != nil {
			return false, err
		}
		return compareOrdered(bucket, op, cmpOrdered(a, b))
	case KindBool:
		a, b, err := convertPair(v1, v2, toBool)
		if err != nil {
			return false, err
		}
		switch op {
		case Equal:
			return a == b, nil
		case NotEqual:
			return a != b, nil
		}
		return false, fmt.Errorf("%w: operator %s on %s", ErrNotSupported, op, bucket)
	case KindString:
		a, b, err := convertPair(v1, v2, toString)
		if err != nil {
			return false, err
		}
		if op == Like {
			return matchLike(a, b)
		}
		return compareOrdered(bucket, op, strings.Compare(foldCase(a), foldCase(b)))
	case KindUint32:
		a, b, err := convertPair(v1, v2, toUint32)
		if err != nil {
			return false, err
		}
		return compareOrdered(bucket, op, cmpOrdered(a, b))
	case KindInt64:
		a, b, err := convertPair(v1, v2, toInt64)
		if err != nil {
			return false, err
		}
		return compareOrdered(bucket, op, cmpOrdered(a, b))
	case KindUint64:
		a, b, err := convertPair(v1, v2, toUint64)
		if err != nil {
			return false, err
		}
		return compareOrdered(bucket, op, cmpOrdered(a, b))
	}
	return false, fmt.Errorf("%w: %T and %T", ErrUnsupportedTypes, v1, v2)
}

func convertPair[T any](v1, v2 interface{}, conv func(interface{}) (T, error)) (T, T, error) {
	a, err := conv(v1)
	if err != nil {
		var zero T
		return zero, zero, err
	}
	b, err := conv(v2)
	if err != nil {
		var zero T
		return zero, zero, err
	}
	return a, b, nil
}

func cmpOrdered[T int32 | uint32 | int64 | uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareFloats applies op to the floats themselves, so NaN is unequal
// to everything and unordered
func compareFloats(op RelationalOperator, a, b float64) (bool, error) {
	switch op {
	case Equal:
		return a == b, nil
	case NotEqual:
		return a != b, nil
	case Less:
		return a < b, nil
	case LessEqual:
		return a <= b, nil
	case Greater:
		return a > b, nil
	case GreaterEqual:
		return a >= b, nil
	}
	return false, fmt.Errorf("%w: operator %s on %s", ErrNotSupported, op, KindFloat)
}

func compareOrdered(bucket Kind, op RelationalOperator, c int) (bool, error) {
	if op == Like {
		return false, fmt.Errorf("%w: like on %s", ErrNotSupported, bucket)
	}
	return applyOrdering(op, c)
}

func foldCase(s string) string {
	return cases.Fold().String(s)
}

func conversionError(v interface{}, target Kind) error {
	return fmt.Errorf("%w: %v (%T) to %s", ErrConversion, v, v, target)
}

func toTime(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		t, err := dateparse.ParseIn(x, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q to datetime: %v", ErrConversion, x, err)
		}
		return t, nil
	}
	return time.Time{}, conversionError(v, KindTime)
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case decimal.Decimal:
		return x.InexactFloat64(), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, conversionError(v, KindFloat)
		}
		return f, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	if i, ok := asInt64(v); ok {
		return float64(i), nil
	}
	if u, ok := asUint64(v); ok {
		return float64(u), nil
	}
	return 0, conversionError(v, KindFloat)
}

func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, conversionError(v, KindDecimal)
		}
		return d, nil
	case bool:
		if x {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	}
	if i, ok := asInt64(v); ok {
		return decimal.NewFromInt(i), nil
	}
	if u, ok := asUint64(v); ok {
		return decimal.NewFromString(strconv.FormatUint(u, 10))
	}
	return decimal.Zero, conversionError(v, KindDecimal)
}

func toInt32(v interface{}) (int32, error) {
	i, err := toInt64(v)
	if err != nil || i < math.MinInt32 || i > math.MaxInt32 {
		return 0, conversionError(v, KindInt32)
	}
	return int32(i), nil
}

func toUint32(v interface{}) (uint32, error) {
	u, err := toUint64(v)
	if err != nil || u > math.MaxUint32 {
		return 0, conversionError(v, KindUint32)
	}
	return uint32(u), nil
}

func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, conversionError(v, KindInt64)
		}
		return i, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	if i, ok := asInt64(v); ok {
		return i, nil
	}
	if u, ok := asUint64(v); ok && u <= math.MaxInt64 {
		return int64(u), nil
	}
	return 0, conversionError(v, KindInt64)
}

func toUint64(v interface{}) (uint64, error) {
	switch x := v.(type) {
	case string:
		u, err := strconv.ParseUint(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, conversionError(v, KindUint64)
		}
		return u, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	if u, ok := asUint64(v); ok {
		return u, nil
	}
	if i, ok := asInt64(v); ok && i >= 0 {
		return uint64(i), nil
	}
	return 0, conversionError(v, KindUint64)
}

func toBool(v interface{}) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, conversionError(v, KindBool)
		}
		return b, nil
	}
	if i, ok := asInt64(v); ok {
		return i != 0, nil
	}
	if u, ok := asUint64(v); ok {
		return u != 0, nil
	}
	return false, conversionError(v, KindBool)
}

func toString(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	}
	if i, ok := asInt64(v); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if u, ok := asUint64(v); ok {
		return strconv.FormatUint(u, 10), nil
	}
	return "", conversionError(v, KindString)
}

// asInt64 widens signed integer types
func asInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return 0, false
}

// asUint64 widens unsigned integer types
func asUint64(v interface{}) (uint64, bool) {
	switch x := v.(type) {
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case uint:
		return uint64(x), true
	}
	return 0, false
}

// matchLike matches s against a like pattern, where % stands for any
// run of characters and _ for exactly one. Case is ignored.
func matchLike(s, pattern string) (bool, error) {
	re, err := likePattern(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

func likePattern(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteByte('.')
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteByte('$')
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("%w: like pattern %q: %v", ErrConversion, pattern, err)
	}
	return re, nil
}
