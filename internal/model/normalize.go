// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the value normalizer. Every cell that reaches a document
// passes through Normalize, which guarantees the value encodes to valid JSON:
// encoding/json rejects NaN and infinities, and typed integers from the table
// reader should print as plain numbers rather than strings.

package model

import (
	"math"
	"reflect"
)

// Normalize converts a raw cell value into a JSON-safe value.
//
// Integers of any width are widened to int64 (uint64 values that do not fit
// are kept as uint64). nil, NaN and infinite floats become nil. Everything
// else is returned unchanged.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int64:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint:
		return widenUnsigned(uint64(x))
	case uint64:
		return widenUnsigned(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case float32:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return x
	}

	// Named types (e.g. type Serial int32) and nil pointers.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return widenUnsigned(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Normalize(rv.Float())
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}

func widenUnsigned(u uint64) any {
	if u > math.MaxInt64 {
		return u
	}
	return int64(u)
}

// IsMissing reports whether v normalizes to null.
func IsMissing(v any) bool {
	return Normalize(v) == nil
}
