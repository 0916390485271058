// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Acorn Labs, Inc; All rights reserved.
// Copyright 2022 Unikraft GmbH; All rights reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package cmdfactory builds cobra commands whose flags are derived from the
// tagged attributes of a Runnable.
package cmdfactory

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"qemurunner.sh/log"
)

var caseRegexp = regexp.MustCompile("([a-z])([A-Z])")

type PersistentPreRunnable interface {
	PersistentPre(cmd *cobra.Command, args []string) error
}

type PreRunnable interface {
	Pre(cmd *cobra.Command, args []string) error
}

type Runnable interface {
	Run(ctx context.Context, args []string) error
}

type fieldInfo struct {
	FieldType  reflect.StructField
	FieldValue reflect.Value
}

func fields(obj any) []fieldInfo {
	objValue := reflect.Indirect(reflect.ValueOf(obj))

	var result []fieldInfo

	for i := 0; i < objValue.NumField(); i++ {
		fieldType := objValue.Type().Field(i)
		if fieldType.Anonymous && fieldType.Type.Kind() == reflect.Struct {
			result = append(result, fields(objValue.Field(i).Addr().Interface())...)
		} else if !fieldType.Anonymous {
			result = append(result, fieldInfo{
				FieldValue: objValue.Field(i),
				FieldType:  fieldType,
			})
		}
	}

	return result
}

// Name derives the command name from the type name of obj.
func Name(obj any) string {
	objValue := reflect.Indirect(reflect.ValueOf(obj))
	commandName := strings.Replace(objValue.Type().Name(), "Options", "", 1)
	commandName, _ = name(commandName, "", "")
	return commandName
}

// Main executes the given command and returns the process exit code.
func Main(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.G(ctx).Error(err)
		return 1
	}

	return 0
}

// AttributeFlags associates a given struct with public attributes and a set of
// tags with the provided cobra command so as to enable dynamic population of
// CLI flags.  The value of an attribute, which may have been seeded from a
// configuration file, is overridden by its `env` variable when set and is
// otherwise the flag's default.
func AttributeFlags(c *cobra.Command, obj any) error {
	slices := map[string]reflect.Value{}

	for _, info := range fields(obj) {
		fieldType := info.FieldType
		v := info.FieldValue

		if !fieldType.IsExported() {
			continue
		}

		if fieldType.Tag.Get("noattribute") == "true" {
			continue
		}

		if fieldType.Type.Kind() == reflect.Struct {
			if err := AttributeFlags(c, v.Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		name, alias := name(fieldType.Name, fieldType.Tag.Get("long"), fieldType.Tag.Get("short"))
		usage := fieldType.Tag.Get("usage")
		defValue := fieldType.Tag.Get("default")

		strValue := ""
		if !v.IsZero() {
			strValue = fmt.Sprint(v.Interface())
		}
		if envName := fieldType.Tag.Get("env"); envName != "" {
			if envValue := os.Getenv(envName); envValue != "" {
				strValue = envValue
			}
		}

		if strValue == "" && defValue != "" {
			strValue = defValue
		}

		flags := c.PersistentFlags()
		if fieldType.Tag.Get("local") == "true" {
			flags = c.Flags()
		}

		switch fieldType.Type.Kind() {
		case reflect.String:
			flags.StringVarP(v.Addr().Interface().(*string), name, alias, defValue, usage)
		case reflect.Int:
			flags.IntVarP(v.Addr().Interface().(*int), name, alias, 0, usage)
		case reflect.Bool:
			flags.BoolVarP(v.Addr().Interface().(*bool), name, alias, false, usage)
		case reflect.Slice:
			ptr, ok := v.Addr().Interface().(*[]string)
			if !ok {
				continue
			}
			slices[name] = v
			flags.StringSliceP(name, alias, *ptr, usage)
			strValue = ""
		default:
			continue
		}

		if strValue != "" {
			if err := flags.Set(name, strValue); err != nil {
				return fmt.Errorf("could not set flag --%s: %w", name, err)
			}
			// Values originating from a file or the environment are not
			// considered user provided.
			flags.Lookup(name).Changed = false
		}

		if fieldType.Tag.Get("hidden") == "true" {
			if err := flags.MarkHidden(name); err != nil {
				return err
			}
		}
	}

	if len(slices) > 0 {
		c.PreRunE = bind(c.PreRunE, slices)
		c.RunE = bind(c.RunE, slices)
	}

	return nil
}

// New populates a cobra.Command object by extracting args from struct tags of
// the Runnable obj passed.  The Run method is assigned to the RunE of the
// command.
func New(obj Runnable, cmd cobra.Command) (*cobra.Command, error) {
	c := cmd
	if c.Use == "" {
		c.Use = fmt.Sprintf("%s [FLAGS]", Name(obj))
	}

	if p, ok := obj.(PersistentPreRunnable); ok {
		c.PersistentPreRunE = p.PersistentPre
	}

	if p, ok := obj.(PreRunnable); ok {
		c.PreRunE = p.Pre
	}

	c.SilenceErrors = true
	c.SilenceUsage = true
	c.DisableFlagsInUseLine = true
	c.InitDefaultHelpFlag()

	if obj != nil {
		c.RunE = func(cmd *cobra.Command, args []string) error {
			return obj.Run(cmd.Context(), args)
		}

		if err := AttributeFlags(&c, obj); err != nil {
			return nil, err
		}
	}

	c.SetUsageFunc(rootUsageFunc)
	c.SetFlagErrorFunc(rootFlagErrorFunc)

	return &c, nil
}

func assignSlices(flags *pflag.FlagSet, slices map[string]reflect.Value) error {
	for k, v := range slices {
		f := flags.Lookup(k)
		if f == nil || !f.Changed {
			continue
		}

		s, err := flags.GetStringSlice(k)
		if err != nil {
			return err
		}

		v.Set(reflect.ValueOf(s))
	}

	return nil
}

func name(name, setName, short string) (string, string) {
	if setName != "" {
		return setName, short
	}

	name = caseRegexp.ReplaceAllString(name, "$1-$2")
	return strings.ToLower(name), short
}

func bind(next func(*cobra.Command, []string) error, slices map[string]reflect.Value) func(*cobra.Command, []string) error {
	if next == nil {
		return nil
	}

	return func(cmd *cobra.Command, args []string) error {
		if err := assignSlices(cmd.Flags(), slices); err != nil {
			return err
		}

		return next(cmd, args)
	}
}
