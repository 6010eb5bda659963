// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Command initool queries and edits INI files in place.
//
// Usage:
//
//	initool get <file> <section> <key>
//	initool set <file> <section> <key> <value>
//	initool delete <file> <section> <key>
package main

import (
	"os"

	"github.com/deverl/initool/envvar"
	"github.com/deverl/initool/internal/cli"
	"zombiezen.com/go/log"
)

func main() {
	log.SetDefault(cli.Logger)
	env := envvar.Environ(os.Environ())
	os.Exit(cli.Run(os.Args, os.Stdout, os.Stderr, env))
}
