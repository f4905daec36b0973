package csv

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Decode stores the values of the row in the struct pointed to by v.
//
// Columns are matched to exported struct fields by header name:
//   - Exact match with the csv tag name
//   - Case-insensitive match with the csv tag name or the field name
//
// The csv tag format is:
//
//	Field int `csv:"column_name"` // Map to column "column_name"
//	Field int `csv:"-"`           // Always ignore this field
//	Field int                     // Use the field name as column name
//
// Supported field types are string, signed and unsigned integers, floats,
// bool (as accepted by strconv.ParseBool) and pointers to these. Empty and
// absent values leave the field untouched.
//
// Example:
//
//	type Person struct {
//	    Name string `csv:"name"`
//	    Age  int    `csv:"age"`
//	}
//	var p Person
//	err := row.Decode(&p)
func (r *Row) Decode(v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return errors.New("csv: Decode(nil)")
	}
	if rv.Kind() != reflect.Pointer {
		return errors.New("csv: Decode(non-pointer " + rv.Type().String() + ")")
	}
	if rv.IsNil() {
		return errors.New("csv: Decode(nil " + rv.Type().String() + ")")
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return errors.New("csv: Decode expects pointer to struct, got " + rv.Type().String())
	}

	headers := r.headers.Names()
	for _, sf := range reflect.VisibleFields(elem.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name, ok := columnName(sf)
		if !ok {
			continue
		}
		col := lookupColumn(headers, name)
		if col < 0 {
			continue
		}
		value, ok := r.At(col)
		if !ok || value == "" {
			continue
		}
		field, err := elem.FieldByIndexErr(sf.Index)
		if err != nil {
			// promoted through a nil embedded pointer
			continue
		}
		if err := setField(field, value); err != nil {
			return fmt.Errorf("csv: line %d, column %q: %w", r.line, headers[col], err)
		}
	}
	return nil
}

// columnName returns the column a struct field maps to.
func columnName(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("csv")
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	return sf.Name, true
}

// lookupColumn returns the index of name in headers, preferring an exact match.
func lookupColumn(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func setField(field reflect.Value, value string) error {
	if field.Kind() == reflect.Pointer {
		ptr := reflect.New(field.Type().Elem())
		if err := setField(ptr.Elem(), value); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("cannot parse %q as %s", value, field.Type())
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("cannot parse %q as %s", value, field.Type())
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("cannot parse %q as %s", value, field.Type())
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cannot parse %q as bool", value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
