// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package exec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Executable is a binary together with the positional and flag arguments it
// is invoked with.
type Executable struct {
	bin  string
	args []string
}

// NewExecutable accepts the path or name of the binary to be executed.  The
// optional face argument is a struct whose attributes carry `flag:"--myarg"`
// tags which are serialized into command-line arguments after the provided
// positional args.  The type of each attribute derives what is passed to the
// flag.
func NewExecutable(bin string, face interface{}, args ...string) (*Executable, error) {
	if len(bin) == 0 {
		return nil, fmt.Errorf("binary argument cannot be empty")
	}

	e := &Executable{
		bin:  bin,
		args: append([]string{}, args...),
	}

	if face != nil {
		ifaceArgs, err := ParseInterfaceArgs(face)
		if err != nil {
			return nil, err
		}

		e.args = append(e.args, ifaceArgs...)
	}

	return e, nil
}

// Bin returns the binary which will be executed.
func (e *Executable) Bin() string {
	return e.bin
}

// Args returns the serialized arguments passed to the binary.
func (e *Executable) Args() []string {
	return e.args
}

type flag struct {
	flag        string
	omitvalueif string
}

func parseFlag(tag reflect.StructTag) (*flag, error) {
	raw, ok := tag.Lookup("flag")
	if !ok {
		return nil, fmt.Errorf("could not parse flag without tag")
	}

	parts := strings.Split(raw, ",")
	f := &flag{
		flag: parts[0],
	}

	for _, part := range parts[1:] {
		if !strings.HasPrefix(part, "omitvalueif") {
			continue
		}

		omit := strings.SplitN(part, "=", 2)
		if len(omit) == 1 {
			return nil, fmt.Errorf("omitvalueif requires value")
		}

		f.omitvalueif = omit[1]
	}

	return f, nil
}

// ParseInterfaceArgs returns the arguments detected from a struct value whose
// attributes are annotated with `flag` tags.  Booleans render as a bare flag
// when true, strings and stringers as a flag followed by the value when
// non-empty, and string slices repeat the flag for every element.  Pointers to
// integers or strings render their value unless it equals `omitvalueif`.
// Embedded structs without a tag are walked recursively, whether exported or
// not.
func ParseInterfaceArgs(face interface{}, args ...string) ([]string, error) {
	if face == nil {
		return args, nil
	}

	v := reflect.ValueOf(face)
	if v.Kind() == reflect.Ptr {
		return nil, fmt.Errorf("cannot derive interface arguments from pointer: passed by reference")
	}

	return parseValue(v, args)
}

func parseValue(v reflect.Value, args []string) ([]string, error) {
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot derive interface arguments from %s", v.Kind())
	}

	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)

		f, err := parseFlag(t.Field(i).Tag)
		if err != nil {
			if field.Kind() != reflect.Struct || !t.Field(i).Anonymous {
				continue
			}

			if args, err = parseValue(field, args); err != nil {
				return nil, err
			}

			continue
		}

		if len(f.flag) == 0 {
			continue
		}

		switch field.Kind() {
		case reflect.Ptr:
			if field.IsNil() {
				continue
			}

			var value string
			switch elem := field.Elem(); elem.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				value = strconv.FormatInt(elem.Int(), 10)
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				value = strconv.FormatUint(elem.Uint(), 10)
			case reflect.String:
				value = elem.String()
			default:
				return nil, fmt.Errorf("unsupported pointer to %s for flag %s", elem.Kind(), f.flag)
			}

			args = append(args, f.flag)
			if value != f.omitvalueif {
				args = append(args, value)
			}

		case reflect.Bool:
			if field.Bool() {
				args = append(args, f.flag)
			}

		case reflect.String:
			if value := field.String(); len(value) > 0 {
				args = append(args, f.flag, value)
			}

		case reflect.Slice:
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)

				var str string
				if elem.Kind() == reflect.String {
					str = elem.String()
				} else if elem.CanInterface() {
					if s, ok := elem.Interface().(fmt.Stringer); ok {
						str = s.String()
					}
				}

				if len(str) == 0 {
					continue
				}

				args = append(args, f.flag, str)
			}

		default:
			if !field.CanInterface() {
				continue
			}

			s, ok := field.Interface().(fmt.Stringer)
			if !ok {
				continue
			}

			if str := s.String(); len(str) > 0 {
				args = append(args, f.flag, str)
			}
		}
	}

	return args, nil
}
