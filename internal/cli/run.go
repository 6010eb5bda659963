// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package cli implements the initool command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/deverl/initool/ini"
	"github.com/deverl/initool/internal/config"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"zombiezen.com/go/log"
)

const version = "0.1.0"

var errMissingCommand = errors.New("missing command")

// aliases maps the flag-style command names accepted in place of a
// subcommand name.
var aliases = map[string]string{
	"-g":    "get",
	"--get": "get",
	"-s":    "set",
	"--set": "set",
	"-d":    "delete",
	"--del": "delete",
}

// Run is the main entry point. args includes the program name. Returns the
// process exit code.
func Run(args []string, out, errOut io.Writer, env map[string]string) int {
	a := &app{env: env, log: newLogger(errOut, config.LevelWarn)}
	root := a.rootCommand()
	root.SetOut(out)
	root.SetErr(errOut)

	if len(args) < 2 {
		fprint(errOut, root.UsageString())
		return 1
	}
	root.SetArgs(normalizeArgs(args[1:], root.PersistentFlags()))

	ctx := withLogger(context.Background(), a.log)
	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}
	var cmdErr *commandError
	if errors.As(err, &cmdErr) {
		fprintln(errOut, "error:", cmdErr.err)
		return 1
	}
	// Anything else is a problem with the command line itself.
	if cmd == nil {
		cmd = root
	}
	fprintln(errOut, "error:", err)
	fprint(errOut, cmd.UsageString())
	return 1
}

// normalizeArgs replaces a flag-style command alias with its subcommand name.
// The alias is looked for at the command position: the first argument that
// is not a global flag or a global flag's value.
func normalizeArgs(args []string, global *flag.FlagSet) []string {
	i := commandIndex(args, global)
	if i < 0 {
		return args
	}
	name, ok := aliases[args[i]]
	if !ok {
		return args
	}
	normalized := make([]string, len(args))
	copy(normalized, args)
	normalized[i] = name
	return normalized
}

// commandIndex returns the index of the command name in args, or -1.
func commandIndex(args []string, global *flag.FlagSet) int {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		_, isAlias := aliases[arg]
		switch {
		case arg == "--":
			return -1
		case isAlias || arg == "-" || !strings.HasPrefix(arg, "-"):
			return i
		case strings.Contains(arg, "="):
			continue
		}
		var f *flag.Flag
		if name, ok := strings.CutPrefix(arg, "--"); ok {
			f = global.Lookup(name)
		} else if len(arg) == 2 {
			f = global.ShorthandLookup(arg[1:])
		}
		if f != nil && f.NoOptDefVal == "" {
			// The flag's value is the next argument.
			i++
		}
	}
	return -1
}

// commandError marks a failure of a command that was invoked correctly, so
// Run does not print usage for it.
type commandError struct {
	err error
}

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

func failed(err error) error {
	return &commandError{err: err}
}

type app struct {
	env map[string]string
	log *log.LevelFilter

	// Flags
	configPath string
	atomic     bool
	verbose    bool

	cfg config.Config
}

func (a *app) addFlags(fs *flag.FlagSet) {
	fs.StringVarP(&a.configPath, "config", "c", "", "read settings from `file` (JSON with comments)")
	fs.BoolVar(&a.atomic, "atomic", false, "replace files through a temporary file and rename")
	fs.BoolVarP(&a.verbose, "verbose", "v", false, "print debug logs to stderr")
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "initool",
		Short: "Query and edit INI files in place",
		Long: `initool reads, queries and edits INI configuration files while keeping
comments, blank lines, ordering and the formatting of untouched lines intact.

Section and key names are case-insensitive.`,
		Version:           version,
		Args:              cobra.NoArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
		RunE: func(*cobra.Command, []string) error {
			return errMissingCommand
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	a.addFlags(root.PersistentFlags())
	root.AddCommand(
		a.getCommand(),
		a.setCommand(),
		a.deleteCommand(),
	)
	return root
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	var over config.Overrides
	if cmd.Flags().Changed("atomic") {
		over.AtomicWrite = &a.atomic
	}
	if a.verbose {
		level := config.LevelDebug
		over.LogLevel = &level
	}
	cfg, err := config.Load(a.configPath, a.env, over)
	if err != nil {
		return failed(err)
	}
	a.cfg = cfg
	a.log.Min = parseLevel(cfg.LogLevel)
	log.Debugf(cmd.Context(), "Config: atomic_write=%t log_level=%s global=%q explicit=%q",
		cfg.AtomicWrite, cfg.LogLevel, cfg.Sources.Global, cfg.Sources.Explicit)
	return nil
}

func (a *app) open(ctx context.Context, path string) (*ini.Document, error) {
	return ini.Open(ctx, path, &ini.Options{Atomic: a.cfg.AtomicWrite})
}

func (a *app) getCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <file> <section> <key>",
		Short: "Print the value of a key",
		Long: `The get command prints the value of a key, without surrounding quotes.

Example:
  initool get app.ini database host
  initool -g app.ini Database Host`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return failed(err)
			}
			value, err := doc.Get(args[1], args[2])
			if err != nil {
				return failed(err)
			}
			fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *app) setCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <file> <section> <key> <value>",
		Short: "Set the value of a key",
		Long: `The set command sets a key, rewriting only the line that holds it.

A missing key is added at the end of its section. A missing section is
appended to the end of the file. Values containing spaces or '=' are quoted.

Example:
  initool set app.ini database host db.example.com
  initool set app.ini server motd "hello world"`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return failed(err)
			}
			if err := doc.Set(cmd.Context(), args[1], args[2], args[3]); err != nil {
				return failed(err)
			}
			fprintf(cmd.OutOrStdout(), "Updated [%s] %s = %s\n", args[1], args[2], args[3])
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <file> <section> <key>",
		Aliases: []string{"del"},
		Short:   "Remove a key",
		Long: `The delete command removes the line that holds a key. The section header
is kept even if the section becomes empty. The file is left untouched if the
section or key does not exist.

Example:
  initool delete app.ini database host`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return failed(err)
			}
			if err := doc.Delete(cmd.Context(), args[1], args[2]); err != nil {
				return failed(err)
			}
			fprintf(cmd.OutOrStdout(), "Deleted [%s] %s\n", args[1], args[2])
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func fprint(w io.Writer, a ...any) {
	_, _ = fmt.Fprint(w, a...)
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}
