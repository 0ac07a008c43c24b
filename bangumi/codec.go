package bangumi

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
)

var jsonNull = []byte("null")

// decodeCode decodes a numeric enum and rejects codes outside its declared set.
// The returned *json.UnmarshalTypeError has its field path filled in by the
// enclosing decoder.
func decodeCode[T ~int](data []byte, valid func(T) bool) (T, error) {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return 0, &json.UnmarshalTypeError{Value: "null", Type: reflect.TypeFor[T]()}
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return 0, &json.UnmarshalTypeError{Value: typeErr.Value, Type: reflect.TypeFor[T]()}
		}
		return 0, err
	}

	code := T(n)
	if !valid(code) {
		return 0, &json.UnmarshalTypeError{Value: "number " + strconv.Itoa(n), Type: reflect.TypeFor[T]()}
	}
	return code, nil
}

// decodeName decodes a string enum and rejects names outside its declared set.
func decodeName[T ~string](data []byte, valid func(T) bool) (T, error) {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return "", &json.UnmarshalTypeError{Value: "null", Type: reflect.TypeFor[T]()}
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return "", &json.UnmarshalTypeError{Value: typeErr.Value, Type: reflect.TypeFor[T]()}
		}
		return "", err
	}

	name := T(s)
	if !valid(name) {
		return "", &json.UnmarshalTypeError{Value: "string " + strconv.Quote(s), Type: reflect.TypeFor[T]()}
	}
	return name, nil
}

// requireFields fails when any of the named keys is absent from the JSON
// object in data. A JSON null is left to the caller's decoder.
func requireFields(typeName string, data []byte, fields ...string) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	for _, field := range fields {
		if _, ok := obj[field]; !ok {
			return &FieldError{Type: typeName, Field: field, Reason: "missing required field"}
		}
	}
	return nil
}
