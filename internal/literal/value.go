package literal

import (
	"fmt"
	"maps"
	"slices"
)

// Value is a sealed interface over the values a script literal can spell.
// Only Null, Bool, Int, Float, String, List, Dict and Call implement it.
type Value interface {
	literal()
}

// Null renders as None.
type Null struct{}

func (Null) literal() {}

// Bool renders as True or False.
type Bool bool

func (Bool) literal() {}

// Int renders in decimal.
type Int int64

func (Int) literal() {}

// Float renders in fixed-point; see Options.Precision.
type Float float64

func (Float) literal() {}

// String renders as a double-quoted string.
type String string

func (String) literal() {}

// List renders as [a, b, ...].
type List []Value

func (List) literal() {}

// Entry is one key/value pair of a Dict.
type Entry struct {
	Key   string
	Value Value
}

// Dict renders as {"k": v, ...} in entry order.
type Dict []Entry

func (Dict) literal() {}

// Call renders as Func(arg, ...). It spells values the script constructs
// through a predeclared builtin, such as poses.
type Call struct {
	Func string
	Args []Value
}

func (Call) literal() {}

// E is shorthand for a Dict entry.
func E(key string, v Value) Entry {
	return Entry{Key: key, Value: v}
}

// DictFromMap builds a Dict with keys in sorted order.
func DictFromMap(m map[string]Value) Dict {
	d := make(Dict, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		d = append(d, Entry{Key: k, Value: m[k]})
	}
	return d
}

// FromGo converts a Go value into a Value.
//
// Supported inputs are nil, Value, bool, signed and unsigned integers,
// float32/float64, string, slices of those, []any and map[string]any.
// Nil slices become empty lists, not None.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint:
		if uint64(val) > 1<<63-1 {
			return nil, fmt.Errorf("integer %d out of int64 range", val)
		}
		return Int(val), nil
	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("integer %d out of int64 range", val)
		}
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case []float64:
		return listOf(val, func(f float64) Value { return Float(f) }), nil
	case []int:
		return listOf(val, func(n int) Value { return Int(n) }), nil
	case []string:
		return listOf(val, func(s string) Value { return String(s) }), nil
	case []bool:
		return listOf(val, func(b bool) Value { return Bool(b) }), nil
	case [][]float64:
		return listOf(val, func(row []float64) Value {
			return listOf(row, func(f float64) Value { return Float(f) })
		}), nil
	case []any:
		out := make(List, len(val))
		for i, elem := range val {
			lv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = lv
		}
		return out, nil
	case map[string]any:
		m := make(map[string]Value, len(val))
		for k, elem := range val {
			lv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			m[k] = lv
		}
		return DictFromMap(m), nil
	default:
		return nil, fmt.Errorf("unsupported type for literal: %T", v)
	}
}

func listOf[T any](items []T, conv func(T) Value) List {
	out := make(List, len(items))
	for i, item := range items {
		out[i] = conv(item)
	}
	return out
}
