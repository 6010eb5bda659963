// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package envvar provides functions to read environment variables for
// configuration.
//
// The functions operate on an explicit environment map instead of the
// process environment, so callers can substitute their own in tests.
package envvar

import (
	"fmt"
	"strconv"
	"strings"
)

// Environ converts a list of "key=value" strings, as returned by
// os.Environ, into a map. Entries without an equals sign are ignored. If a
// key is repeated, the last value wins.
func Environ(list []string) map[string]string {
	env := make(map[string]string, len(list))
	for _, kv := range list {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Get returns the value of the given environment variable. If it is empty or
// unset, it returns the default value.
func Get(env map[string]string, key string, defaultValue string) string {
	v := env[key]
	if v == "" {
		return defaultValue
	}
	return v
}

// LookupBool parses a boolean environment variable. ok is false if the
// variable is empty or unset. Values accepted by strconv.ParseBool are
// valid; anything else is an error that names the variable.
func LookupBool(env map[string]string, key string) (value, ok bool, err error) {
	v := env[key]
	if v == "" {
		return false, false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, true, nil
}
