package grid

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// type ranks used when two values are of different kinds
const (
	rankNil = iota
	rankBool
	rankNumber
	rankTime
	rankString
	rankOther
)

// Compare orders two cell values the way the column sort does. It returns a
// negative number when a sorts before b, zero when they are equivalent and a
// positive number otherwise.
//
// Values of the same kind use their natural ordering. Values of different
// kinds order by kind: nil < bool < number < time < string < other. Integers
// and floats compare exactly, without rounding through float64. NaN
// sorts before every other number so the result is always a strict weak
// ordering.
func Compare(a, b any) int {
	ra, rb := rankOf(a), rankOf(b)
	if ra != rb {
		return ra - rb
	}

	switch ra {
	case rankNil:
		return 0
	case rankBool:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	case rankNumber:
		return compareNumbers(a, b)
	case rankTime:
		return a.(time.Time).Compare(b.(time.Time))
	case rankString:
		return strings.Compare(stringOf(a), stringOf(b))
	default:
		return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
	}
}

func rankOf(v any) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case json.Number:
		return rankNumber
	case time.Time:
		return rankTime
	case string, []byte:
		return rankString
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rankNumber
	}
	return rankOther
}

func stringOf(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v.(string)
}

// number is a numeric value split into an integer and a float form so that
// large integers keep their precision when compared with each other.
type number struct {
	isInt  bool
	isUint bool
	i      int64
	u      uint64
	f      float64
}

func toNumber(v any) number {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return number{isInt: true, i: i, f: float64(i)}
		}
		f, err := n.Float64()
		if err != nil {
			f = math.NaN()
		}
		return number{f: f}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		return number{isInt: true, i: i, f: float64(i)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		return number{isUint: true, u: u, f: float64(u)}
	default:
		return number{f: rv.Float()}
	}
}

func compareNumbers(a, b any) int {
	na, nb := toNumber(a), toNumber(b)

	switch {
	case na.integral() && nb.integral():
		return compareIntegers(na, nb)
	case na.integral():
		return compareIntegerFloat(na, nb.f)
	case nb.integral():
		return -compareIntegerFloat(nb, na.f)
	}
	// cmp.Compare places NaN before every other float.
	return cmp.Compare(na.f, nb.f)
}

func (n number) integral() bool {
	return n.isInt || n.isUint
}

func compareIntegers(a, b number) int {
	switch {
	case a.isInt && b.isInt:
		return cmp.Compare(a.i, b.i)
	case a.isUint && b.isUint:
		return cmp.Compare(a.u, b.u)
	case a.isInt:
		if a.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.i), b.u)
	default:
		return -compareIntegers(b, a)
	}
}

// Bounds of the integers a float64 converts to exactly.
const (
	minInt64Float  = -(1 << 63)
	maxInt64Float  = 1 << 63
	maxUint64Float = 1 << 64
)

// compareIntegerFloat compares an integer with a float without rounding
// the integer, so mixed comparisons agree with integer ones above 2^53.
func compareIntegerFloat(n number, f float64) int {
	if math.IsNaN(f) {
		return 1
	}
	t := math.Trunc(f)
	var c int
	switch {
	case t < minInt64Float:
		return 1
	case t >= maxUint64Float:
		return -1
	case t < maxInt64Float:
		c = compareIntegers(n, number{isInt: true, i: int64(t)})
	default:
		c = compareIntegers(n, number{isUint: true, u: uint64(t)})
	}
	if c != 0 {
		return c
	}
	// Equal integer parts: the fraction decides.
	return cmp.Compare(t, f)
}
