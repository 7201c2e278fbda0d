package args

import (
	"fmt"
	"reflect"
	"strconv"
)

// Bind populates a tagged struct from a parsed argument list.
// Arguments map to tagged fields in declaration order:
//
//	type moveArgs struct {
//		Group string `arg:"group"`
//		IDs   []int  `arg:"ids" optional:"true"`
//	}
//
// A []int field consumes every remaining Integer and IntegerSet argument.
// Optional fields missing from the list take their default tag, if any.
func Bind(dest any, list List) error {
	if dest == nil {
		return nil
	}

	val := reflect.ValueOf(dest)
	if val.Kind() != reflect.Ptr {
		return fmt.Errorf("dest must be a pointer to struct")
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	typ := val.Type()
	idx := 0

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		name := field.Tag.Get("arg")
		if name == "" {
			continue
		}
		optional := field.Tag.Get("optional") == "true"
		defaultTag := field.Tag.Get("default")

		if fieldVal.Kind() == reflect.Slice {
			if idx >= len(list) {
				if !optional {
					return fmt.Errorf("missing required argument: %s", name)
				}
				continue
			}
			ints, ok := list.Ints(idx)
			if !ok {
				return fmt.Errorf("invalid value for %s: must be integers", name)
			}
			if err := setInts(fieldVal, ints); err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			idx = len(list)
			continue
		}

		var v Value
		switch {
		case idx < len(list):
			v = list[idx]
			idx++
		case optional && defaultTag != "":
			c, err := Classify(defaultTag)
			if err != nil {
				return fmt.Errorf("invalid default for %s: %w", name, err)
			}
			v = c
		case optional:
			continue
		default:
			return fmt.Errorf("missing required argument: %s", name)
		}

		if err := setField(fieldVal, v); err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}

	if idx < len(list) {
		return fmt.Errorf("unexpected argument %q", list[idx].Text())
	}
	return nil
}

func setField(fieldVal reflect.Value, v Value) error {
	if !fieldVal.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch fieldVal.Kind() {
	case reflect.String:
		fieldVal.SetString(v.Text())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.(Integer)
		if !ok {
			return fmt.Errorf("must be an integer")
		}
		fieldVal.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(v.Text())
		if err != nil {
			return fmt.Errorf("must be true or false")
		}
		fieldVal.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type: %s", fieldVal.Kind())
	}
	return nil
}

func setInts(fieldVal reflect.Value, ints []int) error {
	if fieldVal.Type().Elem().Kind() != reflect.Int {
		return fmt.Errorf("unsupported field type: %s", fieldVal.Type())
	}
	fieldVal.Set(reflect.ValueOf(ints))
	return nil
}
