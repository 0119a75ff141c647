package util

import (
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// ParseFloat parses with the bit width of T.
func ParseFloat[T constraints.Float](s string) (T, error) {
	v, err := strconv.ParseFloat(s, int(unsafe.Sizeof(T(0)))*8)
	return T(v), err
}

// ParseInt parses with the bit width of T, so values outside T's domain
// fail instead of wrapping.
func ParseInt[T constraints.Signed](s string) (T, error) {
	v, err := strconv.ParseInt(s, 10, int(unsafe.Sizeof(T(0)))*8)
	return T(v), err
}
