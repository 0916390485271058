// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// NewDefaultConfig returns a configuration populated by each attribute's
// `default` tag.
func NewDefaultConfig() (*Config, error) {
	c := &Config{}

	if err := setDefaults(c); err != nil {
		return nil, fmt.Errorf("could not set defaults for config: %s", err)
	}

	return c, nil
}

// Default returns the default value of the dotted configuration key, e.g.
// "log.level", or an empty string if it has none.
func Default(key string) string {
	t := reflect.TypeOf(Config{})

	parts := strings.Split(key, ".")
	for i, part := range parts {
		field, ok := fieldByYamlName(t, part)
		if !ok {
			return ""
		}

		if i == len(parts)-1 {
			return field.Tag.Get("default")
		}

		t = field.Type
		if t.Kind() != reflect.Struct {
			return ""
		}
	}

	return ""
}

// Value returns the current value of the dotted configuration key of c
// formatted as text.
func Value(c *Config, key string) (string, bool) {
	v := reflect.ValueOf(c).Elem()

	for _, part := range strings.Split(key, ".") {
		if v.Kind() != reflect.Struct {
			return "", false
		}

		field, ok := fieldByYamlName(v.Type(), part)
		if !ok {
			return "", false
		}

		v = v.FieldByIndex(field.Index)
	}

	if v.Kind() == reflect.Struct {
		return "", false
	}

	return fmt.Sprint(v.Interface()), true
}

func fieldByYamlName(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("yaml"), ",")[0]
		if tag == name {
			return t.Field(i), true
		}
	}

	return reflect.StructField{}, false
}

func setDefaults(s interface{}) error {
	return setDefaultValue(reflect.ValueOf(s), "")
}

func setDefaultValue(v reflect.Value, def string) error {
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("not a pointer value")
	}

	v = reflect.Indirect(v)

	switch v.Kind() {
	case reflect.Int:
		if len(def) > 0 {
			i, err := strconv.ParseInt(def, 10, 64)
			if err != nil {
				return fmt.Errorf("could not parse default integer value: %s", err)
			}
			v.SetInt(i)
		}

	case reflect.String:
		if len(def) > 0 {
			v.SetString(def)
		}

	case reflect.Bool:
		if len(def) > 0 {
			b, err := strconv.ParseBool(def)
			if err != nil {
				return fmt.Errorf("could not parse default boolean value: %s", err)
			}
			v.SetBool(b)
		}

	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if err := setDefaultValue(
				v.Field(i).Addr(),
				v.Type().Field(i).Tag.Get("default"),
			); err != nil {
				return err
			}
		}
	}

	return nil
}
