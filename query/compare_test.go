package query

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		v1   interface{}
		v2   interface{}
		op   RelationalOperator
		want bool
	}{
		{"int and double share the double bucket", 1, 1.0, Equal, true},
		{"strings ignore case", "A", "a", Equal, true},
		{"strings order ignoring case", "abc", "ABD", Less, true},
		{"unicode case folding", "STRASSE", "strasse", Equal, true},
		{"null left", nil, 5, Equal, false},
		{"null right", 5, nil, NotEqual, false},
		{"null both", nil, nil, Equal, false},
		{"like without match", "x", "y", Like, false},
		{"like prefix", "Hello World", "hello%", Like, true},
		{"like single char", "hat", "h_t", Like, true},
		{"like metacharacters are literal", "abc", "a.c", Like, false},
		{"like underscore matches dot", "a.c", "a_c", Like, true},
		{"int32 and int64 use int32", int32(5), int64(5), Equal, true},
		{"int32 bucket parses strings", "10", int32(9), Greater, true},
		{"string bucket before int64", "10", 9, Greater, false},
		{"bool equality", true, true, Equal, true},
		{"bool from string", true, "false", NotEqual, true},
		{"decimal against int32", decimal.RequireFromString("1.50"), int32(1), Greater, true},
		{"decimal against double", decimal.RequireFromString("1.5"), 1.5, Equal, true},
		{"decimal against string", decimal.RequireFromString("2"), "2.00", Equal, true},
		{"uint32 against uint64", uint32(3), uint64(3), Equal, true},
		{"uint64 bucket", uint64(1 << 63), uint(1), Greater, true},
		{"int64 against uint64", int64(-1), uint64(1), Less, true},
		{"time against time", day, day.Add(time.Hour), Less, true},
		{"time against string", day, "2024-01-01", Greater, true},
		{"time equality", day, "2024-01-02", Equal, true},
		{"float32 and float64", float32(0.5), 0.5, GreaterEqual, true},
		{"int8 and int16", int8(-3), int16(-3), LessEqual, true},
		{"NaN is not equal", math.NaN(), 5.0, Equal, false},
		{"NaN is unequal", math.NaN(), 5.0, NotEqual, true},
		{"NaN not less or equal", math.NaN(), 5.0, LessEqual, false},
		{"NaN not greater or equal", 5.0, math.NaN(), GreaterEqual, false},
		{"NaN not less", math.NaN(), 5.0, Less, false},
		{"NaN not greater", math.NaN(), int32(5), Greater, false},
		{"NaN against itself", math.NaN(), math.NaN(), Equal, false},
		{"infinity orders above doubles", math.Inf(1), 1e308, Greater, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.v1, tt.v2, tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare_Errors(t *testing.T) {
	tests := []struct {
		name    string
		v1      interface{}
		v2      interface{}
		op      RelationalOperator
		wantErr error
	}{
		{"like on integers", 1, 2, Like, ErrNotSupported},
		{"like on doubles", 1.5, 2, Like, ErrNotSupported},
		{"like on times", time.Now(), time.Now(), Like, ErrNotSupported},
		{"ordering booleans", true, false, Less, ErrNotSupported},
		{"int64 out of int32 range", int32(1), int64(1 << 40), Less, ErrConversion},
		{"uint64 out of int64 range", uint64(1 << 63), int64(-1), Greater, ErrConversion},
		{"negative into uint32", uint32(1), int64(-1), Equal, ErrConversion},
		{"bad number string", "abc", int32(1), Equal, ErrConversion},
		{"bad date string", time.Now(), "not a date", Equal, ErrConversion},
		{"time against number", time.Now(), 5, Equal, ErrConversion},
		{"unknown pair", struct{}{}, []int{1}, Equal, ErrUnsupportedTypes},
		{"unknown against string", []byte("a"), "a", Equal, ErrConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compare(tt.v1, tt.v2, tt.op)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		v    interface{}
		want Kind
	}{
		{nil, KindNull},
		{time.Time{}, KindTime},
		{1.5, KindFloat},
		{decimal.Zero, KindDecimal},
		{int16(1), KindInt32},
		{true, KindBool},
		{"s", KindString},
		{uint8(1), KindUint32},
		{7, KindInt64},
		{uint(7), KindUint64},
		{[]int{}, KindInvalid},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.v), "%T", tt.v)
	}
}
