// Package cli wires spec.md §6's command surface ("dpdm") on top of
// internal/dpdm: flag parsing via spf13/cobra, entry-path glob expansion
// via bmatcuk/doublestar, progress and tree rendering via pterm, and
// error reporting via sirupsen/logrus. It is grounded on the teacher's
// internal/cli (since adapted away): the overall shape of "validate
// inputs, load config/alias, run the pipeline, branch on output mode,
// return an exit code" survives from runner.Run, generalized from a
// flag.FlagSet CLI into a cobra command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rautio/react-analyzer/internal/dpdm"
	"github.com/rautio/react-analyzer/internal/walk"
)

type flags struct {
	context            string
	extensions         string
	js                 string
	include            string
	exclude            string
	tsconfig           string
	transform          bool
	skipDynamicImports bool
	analyzeFiles       []string
	output             string
	exitCode           string
	noProgress         bool
	noTree             bool
	noWarning          bool
	workers            int
}

// NewRootCmd builds the "dpdm" root command.
func NewRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "dpdm [flags] <entry-path>...",
		Short: "Compute a module dependency graph for a JavaScript/TypeScript source tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, f)
		},
	}

	cmd.Flags().StringVar(&f.context, "context", "", "Base directory for resolution and path shortening (default: cwd)")
	cmd.Flags().StringVarP(&f.extensions, "extensions", "e", "ts,tsx,mjs,js,jsx,json", "Comma-separated probe order")
	cmd.Flags().StringVar(&f.js, "js", "ts,tsx,mjs,js,jsx", "Comma-separated extensions parsed as source")
	cmd.Flags().StringVar(&f.include, "include", "", "Regex an id must match to be included")
	cmd.Flags().StringVar(&f.exclude, "exclude", "node_modules", "Regex that excludes a matching id")
	cmd.Flags().StringVar(&f.tsconfig, "tsconfig", "", "tsconfig.json used as a source of path aliases")
	cmd.Flags().BoolVarP(&f.transform, "transform", "T", false, "Strip typed syntax before walking")
	cmd.Flags().BoolVar(&f.skipDynamicImports, "skip-dynamic-imports", false, "Omit import() dependencies")
	cmd.Flags().StringArrayVarP(&f.analyzeFiles, "analyze-files", "a", nil, "Entry modules to reachability-walk")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write reachability JSON {\"result\": {...}} to this path")
	cmd.Flags().StringVar(&f.exitCode, "exit-code", "", "case:n[,case:n...]; only \"circular\" is recognized")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "Disable the progress spinner")
	cmd.Flags().BoolVar(&f.noTree, "no-tree", false, "Disable the dependency tree render")
	cmd.Flags().BoolVar(&f.noWarning, "no-warning", false, "Suppress non-fatal warnings")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Bound on concurrent parse work (default: runtime.NumCPU())")

	return cmd
}

// exitCode is set by run() before returning, since cobra's RunE contract
// only carries an error, not an arbitrary process exit status (spec.md
// §6: exit 0 on success, 1 on empty match/no entries/bad flags, or a
// user-chosen code via --exit-code).
var exitCode int

// Execute runs the root command and returns a process exit code, never
// calling os.Exit itself so cmd/dpdm stays a thin wrapper.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return exitCode
}

func run(args []string, f *flags) error {
	logger := logrus.New()
	if f.noWarning {
		logger.SetLevel(logrus.ErrorLevel)
	}

	context := f.context
	if context == "" {
		wd, err := os.Getwd()
		if err != nil {
			logger.WithError(err).Error("could not determine working directory")
			exitCode = 1
			return nil
		}
		context = wd
	}

	if f.exitCode != "" {
		for _, clause := range strings.Split(f.exitCode, ",") {
			parts := strings.SplitN(clause, ":", 2)
			if len(parts) != 2 {
				logger.Errorf("malformed --exit-code clause %q", clause)
				exitCode = 1
				return nil
			}
			if _, err := strconv.Atoi(parts[1]); err != nil {
				logger.WithError(err).Errorf("malformed --exit-code clause %q", clause)
				exitCode = 1
				return nil
			}
		}
	}

	entries, err := expandEntries(args, context)
	if err != nil {
		logger.WithError(err).Error("bad entry-path glob")
		exitCode = 1
		return nil
	}
	if len(entries) == 0 {
		logger.Error("no entry paths matched")
		exitCode = 1
		return nil
	}

	var progress *spinnerProgress
	if !f.noProgress {
		progress = newSpinnerProgress(context)
	}

	opts := dpdm.ParseOptions{
		Context:            context,
		Extensions:         splitExtensions(f.extensions),
		JS:                 splitExtensions(f.js),
		Include:            f.include,
		Exclude:            f.exclude,
		TSConfig:           f.tsconfig,
		Transform:          f.transform,
		SkipDynamicImports: f.skipDynamicImports,
		CollectSymbols:     true,
		Workers:            f.workers,
		Logger:             logger,
	}
	if progress != nil {
		opts.Progress = progress
	}

	result, err := dpdm.ParseTree(entries, opts)
	if err != nil {
		if progress != nil {
			progress.stop(false, err.Error())
		}
		logger.WithError(err).Error("parse_tree failed")
		exitCode = 1
		return nil
	}
	if progress != nil {
		progress.stop(true, fmt.Sprintf("analyzed %d entries", len(entries)))
	}

	entryIDs := resolveAll(entries, context, opts.Extensions)

	analyzeTargets := f.analyzeFiles
	if len(analyzeTargets) == 0 {
		analyzeTargets = entries
	}
	targetIDs := resolveAll(analyzeTargets, context, opts.Extensions)

	reachable := make(map[string][]string, len(targetIDs))
	circular := false
	for _, id := range targetIDs {
		ids := walk.Reachable(id, result.DependencyTree)
		reachable[id] = ids
		for _, r := range ids {
			if r == id {
				circular = true
			}
		}
	}

	if f.output != "" {
		if err := writeReachabilityJSON(f.output, reachable); err != nil {
			logger.WithError(err).Error("could not write output")
			exitCode = 1
			return nil
		}
	} else if !f.noTree {
		printTree(entryIDs, result.DependencyTree, context)
	}

	exitCode = resolveExitCode(f.exitCode, circular)
	return nil
}

// resolveAll maps each raw entry request to the canonical path it was
// installed under in the dependency tree, so callers can key into
// DependencyTree/SymbolTree without reaching into internal/resolve
// directly (that resolver lives behind internal/driver).
func resolveAll(requests []string, context string, extensions []string) []string {
	var ids []string
	for _, request := range requests {
		if id, ok := resolveEntry(context, request, extensions); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func resolveEntry(context, request string, extensions []string) (string, bool) {
	candidate := request
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(context, request)
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", false
	}
	for _, ext := range append([]string{""}, extensions...) {
		for _, path := range []string{abs + ext, filepath.Join(abs, "index"+ext)} {
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				if canon, err := filepath.EvalSymlinks(path); err == nil {
					return canon, true
				}
			}
		}
	}
	return "", false
}

func expandEntries(args []string, context string) ([]string, error) {
	var out []string
	for _, pattern := range args {
		if !strings.ContainsAny(pattern, "*?[") {
			// Entries are file paths, so a path like "src/index.ts" is
			// anchored at context rather than treated as a bare package.
			if !filepath.IsAbs(pattern) {
				pattern = filepath.Join(context, pattern)
			}
			out = append(out, pattern)
			continue
		}
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(context, pattern)
		}
		matches, err := doublestar.FilepathGlob(full)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func splitExtensions(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		out = append(out, p)
	}
	return out
}

// resolveExitCode implements spec.md §6's `--exit-code case:n,...` table,
// where only the "circular" case is recognized.
func resolveExitCode(spec string, circular bool) int {
	if spec == "" {
		return 0
	}
	for _, clause := range strings.Split(spec, ",") {
		parts := strings.SplitN(clause, ":", 2)
		if len(parts) != 2 || parts[0] != "circular" {
			continue
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		if circular {
			return n
		}
	}
	return 0
}
