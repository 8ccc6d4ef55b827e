package renderer

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// truthy reports whether a value selects the consequent of a conditional.
// nil, false, the empty string and numeric zero are falsy; everything else,
// including empty slices and maps, is truthy.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := numeric(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// numeric extracts a float64 from any numeric kind.
func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

// num coerces a value to a number: nil is 0, booleans are 0 or 1, numeric
// strings parse, anything else is NaN.
func num(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		trimmed := strings.TrimSpace(x)
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	if f, ok := numeric(v); ok {
		return f
	}
	return math.NaN()
}

// stringify converts a value to its output form. nil renders empty, whole
// floats render without a decimal point.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	if f, ok := numeric(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

// looseEq is coercive equality. nil equals only nil; two strings compare
// directly; when either side is a number or boolean, both coerce to numbers;
// everything else falls back to deep equality.
func looseEq(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return ls == rs
		}
	}
	if coercible(left) && coercible(right) {
		lf, rf := num(left), num(right)
		if math.IsNaN(lf) || math.IsNaN(rf) {
			return false
		}
		return lf == rf
	}
	return reflect.DeepEqual(left, right)
}

func coercible(v any) bool {
	switch v.(type) {
	case bool, string:
		return true
	}
	_, ok := numeric(v)
	return ok
}

// applyCompare handles the relational operators. Two strings compare
// lexically; otherwise both sides coerce to numbers, and any NaN makes every
// comparison false.
func applyCompare(op string, left, right any) bool {
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			switch op {
			case "<":
				return ls < rs
			case ">":
				return ls > rs
			case "<=":
				return ls <= rs
			default:
				return ls >= rs
			}
		}
	}

	lf, rf := num(left), num(right)
	if math.IsNaN(lf) || math.IsNaN(rf) {
		return false
	}
	switch op {
	case "<":
		return lf < rf
	case ">":
		return lf > rf
	case "<=":
		return lf <= rf
	default:
		return lf >= rf
	}
}

// member indexes an already-evaluated object by an already-evaluated
// property. Maps index by stringified key, slices and strings by numeric
// index, structs by field name. Anything unresolvable is nil, never an
// error.
func member(object, property any) any {
	if m, ok := object.(map[string]any); ok {
		return m[stringify(property)]
	}

	rv := reflect.ValueOf(object)
	switch rv.Kind() {
	case reflect.Map:
		key := reflect.ValueOf(stringify(property))
		if !key.Type().AssignableTo(rv.Type().Key()) {
			return nil
		}
		found := rv.MapIndex(key)
		if !found.IsValid() {
			return nil
		}
		return found.Interface()

	case reflect.Slice, reflect.Array:
		idx, ok := index(property, rv.Len())
		if !ok {
			return nil
		}
		return rv.Index(idx).Interface()

	case reflect.String:
		runes := []rune(rv.String())
		idx, ok := index(property, len(runes))
		if !ok {
			return nil
		}
		return string(runes[idx])

	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return member(rv.Elem().Interface(), property)

	case reflect.Struct:
		name := stringify(property)
		if field := rv.FieldByName(name); field.IsValid() && field.CanInterface() {
			return field.Interface()
		}
		if method := rv.MethodByName(name); method.IsValid() {
			return method.Interface()
		}
		return nil

	default:
		return nil
	}
}

func index(property any, length int) (int, bool) {
	f := num(property)
	if math.IsNaN(f) {
		return 0, false
	}
	i := int(f)
	if i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

// call invokes a context-provided callable with the evaluated arguments.
// A non-callable callee is nil, never an error. When the callable's last
// return value is a non-nil error it propagates; otherwise the first return
// value (if any) is the result.
func call(callee any, args []any) (any, error) {
	if callee == nil {
		return nil, nil
	}
	fv := reflect.ValueOf(callee)
	if fv.Kind() != reflect.Func {
		return nil, nil
	}

	ft := fv.Type()
	in, ok := convertArgs(ft, args)
	if !ok {
		return nil, nil
	}

	out := fv.Call(in)
	if n := len(out); n > 0 {
		if err, ok := out[n-1].Interface().(error); ok {
			if err != nil {
				return nil, err
			}
			out = out[:n-1]
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

// convertArgs shapes evaluated arguments to the function's signature,
// padding missing arguments with zero values and dropping extras.
func convertArgs(ft reflect.Type, args []any) ([]reflect.Value, bool) {
	numIn := ft.NumIn()

	if ft.IsVariadic() {
		fixed := numIn - 1
		in := make([]reflect.Value, 0, len(args))
		for i := 0; i < fixed; i++ {
			v, ok := convertArg(argAt(args, i), ft.In(i))
			if !ok {
				return nil, false
			}
			in = append(in, v)
		}
		elem := ft.In(fixed).Elem()
		for i := fixed; i < len(args); i++ {
			v, ok := convertArg(args[i], elem)
			if !ok {
				return nil, false
			}
			in = append(in, v)
		}
		return in, true
	}

	in := make([]reflect.Value, numIn)
	for i := 0; i < numIn; i++ {
		v, ok := convertArg(argAt(args, i), ft.In(i))
		if !ok {
			return nil, false
		}
		in[i] = v
	}
	return in, true
}

func argAt(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func convertArg(arg any, want reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		return reflect.Zero(want), true
	}
	av := reflect.ValueOf(arg)
	if av.Type().AssignableTo(want) {
		return av, true
	}
	if av.Type().ConvertibleTo(want) {
		return av.Convert(want), true
	}
	return reflect.Value{}, false
}

// pair is one step of a for-loop sequence.
type pair struct {
	key   any
	value any
}

// sequence classifies an iterator value and derives its ordered
// (index-or-key, value) pairs: slices and arrays by position, strings by
// character, a number N as the count-up 1..|N| paired with 0-based indexes,
// and maps by key. Map keys iterate in sorted order, since the data context
// carries no insertion order. Anything else is not iterable and yields no
// pairs.
func sequence(v any) []pair {
	if v == nil {
		return nil
	}

	if f, ok := numeric(v); ok {
		abs := math.Abs(f)
		// NaN, infinities and counts beyond int range are not iterable.
		if !(abs < float64(math.MaxInt64)) {
			return nil
		}
		n := int(abs)
		pairs := make([]pair, n)
		for i := 0; i < n; i++ {
			pairs[i] = pair{key: i, value: float64(i + 1)}
		}
		return pairs
	}

	if s, ok := v.(string); ok {
		runes := []rune(s)
		pairs := make([]pair, len(runes))
		for i, r := range runes {
			pairs[i] = pair{key: i, value: string(r)}
		}
		return pairs
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		pairs := make([]pair, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			pairs[i] = pair{key: i, value: rv.Index(i).Interface()}
		}
		return pairs

	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]any, rv.Len())
		for _, kv := range rv.MapKeys() {
			key := stringify(kv.Interface())
			keys = append(keys, key)
			byKey[key] = rv.MapIndex(kv).Interface()
		}
		sort.Strings(keys)
		pairs := make([]pair, len(keys))
		for i, key := range keys {
			pairs[i] = pair{key: key, value: byKey[key]}
		}
		return pairs

	default:
		return nil
	}
}
