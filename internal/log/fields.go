package log

import (
	"time"

	"go.uber.org/zap"
)

// RunID tags every entry of one command invocation
func RunID(id string) zap.Field {
	return zap.String("run_id", id)
}

// Query is the query text being processed
func Query(text string) zap.Field {
	if len(text) > 256 {
		return zap.String("query", text[:256]+"...")
	}
	return zap.String("query", text)
}

// Mode is the parser entry point used
func Mode(mode string) zap.Field {
	return zap.String("mode", mode)
}

// Source is a parquet file or glob pattern
func Source(pattern string) zap.Field {
	return zap.String("source", pattern)
}

// Rows is a row count
func Rows(n int) zap.Field {
	return zap.Int("rows", n)
}

// Elapsed is the duration of a step
func Elapsed(d time.Duration) zap.Field {
	return zap.Duration("elapsed", d)
}

// Err is the error field
func Err(err error) zap.Field {
	return zap.Error(err)
}
