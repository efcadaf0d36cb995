package query

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode/utf8"
)

// Function represents a scalar function that can be evaluated
type Function interface {
	// Name returns the function name (case-insensitive)
	Name() string
	// MinArity returns the minimum number of arguments
	MinArity() int
	// MaxArity returns the maximum number of arguments (-1 for unlimited)
	MaxArity() int
	// Evaluate evaluates the function with the given arguments
	Evaluate(args []interface{}) (interface{}, error)
}

// FunctionRegistry manages function lookup and registration
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry creates a new function registry
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register registers a function
func (r *FunctionRegistry) Register(f Function) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[strings.ToUpper(f.Name())] = f
}

// Get retrieves a function by name (case-insensitive)
func (r *FunctionRegistry) Get(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, exists := r.functions[strings.ToUpper(name)]
	return f, exists
}

// Call checks the arity of the named function and evaluates it
func (r *FunctionRegistry) Call(name string, args []interface{}) (interface{}, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %s", ErrNotSupported, name)
	}
	if len(args) < f.MinArity() || (f.MaxArity() >= 0 && len(args) > f.MaxArity()) {
		return nil, fmt.Errorf("%s: wrong number of arguments: %d", f.Name(), len(args))
	}
	return f.Evaluate(args)
}

// globalRegistry is the default function registry
var globalRegistry *FunctionRegistry

func init() {
	globalRegistry = NewFunctionRegistry()

	globalRegistry.Register(&UpperFunc{})
	globalRegistry.Register(&LowerFunc{})
	globalRegistry.Register(&LengthFunc{})
	globalRegistry.Register(&AbsFunc{})
	globalRegistry.Register(&CoalesceFunc{})
}

// GetGlobalRegistry returns the global function registry
func GetGlobalRegistry() *FunctionRegistry {
	return globalRegistry
}

// UpperFunc converts a string to uppercase
type UpperFunc struct{}

func (f *UpperFunc) Name() string  { return "UPPER" }
func (f *UpperFunc) MinArity() int { return 1 }
func (f *UpperFunc) MaxArity() int { return 1 }
func (f *UpperFunc) Evaluate(args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return nil, nil
	}
	str, err := toString(args[0])
	if err != nil {
		return nil, fmt.Errorf("UPPER: %w", err)
	}
	return strings.ToUpper(str), nil
}

// LowerFunc converts a string to lowercase
type LowerFunc struct{}

func (f *LowerFunc) Name() string  { return "LOWER" }
func (f *LowerFunc) MinArity() int { return 1 }
func (f *LowerFunc) MaxArity() int { return 1 }
func (f *LowerFunc) Evaluate(args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return nil, nil
	}
	str, err := toString(args[0])
	if err != nil {
		return nil, fmt.Errorf("LOWER: %w", err)
	}
	return strings.ToLower(str), nil
}

// LengthFunc returns the number of characters of a string
type LengthFunc struct{}

func (f *LengthFunc) Name() string  { return "LENGTH" }
func (f *LengthFunc) MinArity() int { return 1 }
func (f *LengthFunc) MaxArity() int { return 1 }
func (f *LengthFunc) Evaluate(args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return nil, nil
	}
	str, err := toString(args[0])
	if err != nil {
		return nil, fmt.Errorf("LENGTH: %w", err)
	}
	return int64(utf8.RuneCountInString(str)), nil
}

// AbsFunc returns the absolute value of a number
type AbsFunc struct{}

func (f *AbsFunc) Name() string  { return "ABS" }
func (f *AbsFunc) MinArity() int { return 1 }
func (f *AbsFunc) MaxArity() int { return 1 }
func (f *AbsFunc) Evaluate(args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return nil, nil
	}
	if i, ok := asInt64(args[0]); ok {
		if i == math.MinInt64 {
			return nil, fmt.Errorf("ABS: %d overflows", i)
		}
		if i < 0 {
			return -i, nil
		}
		return i, nil
	}
	num, err := toFloat(args[0])
	if err != nil {
		return nil, fmt.Errorf("ABS: %w", err)
	}
	return math.Abs(num), nil
}

// CoalesceFunc returns the first non-null argument
type CoalesceFunc struct{}

func (f *CoalesceFunc) Name() string  { return "COALESCE" }
func (f *CoalesceFunc) MinArity() int { return 1 }
func (f *CoalesceFunc) MaxArity() int { return -1 } // variadic
func (f *CoalesceFunc) Evaluate(args []interface{}) (interface{}, error) {
	for _, arg := range args {
		if arg != nil {
			return arg, nil
		}
	}
	return nil, nil
}
