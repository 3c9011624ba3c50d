// Package build implements the build subcommand: it reads sources, extracts
// utility tokens and writes the generated stylesheet.
package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"twc/archive"
	"twc/cache"
	"twc/classset"
	"twc/compiler"
	"twc/config"
	"twc/css"
	"twc/source"
	"twc/state"
)

// files with these extensions are picked up when directory is scanned
var scanExts = map[string]bool{
	".html": true, ".htm": true, ".xhtml": true, ".vue": true, ".svelte": true, ".templ": true,
	".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".mjs": true,
	".go": true, ".md": true, ".mdx": true, ".txt": true, ".php": true,
}

// Input is a single source after token extraction.
type Input struct {
	Name   string
	Kind   source.Kind
	Tokens []string
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	if cmd.Args().Len() == 0 {
		return errors.New("no input source has been specified")
	}
	if w := cmd.Int("workers"); w > 0 {
		env.Cfg.Compiler.Workers = int(w)
	}
	env.Strict = cmd.Bool("strict")

	log.Info("Processing starting", zap.Strings("sources", cmd.Args().Slice()), zap.String("destination", cmd.String("output")))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	inputs, err := collect(ctx, cmd.Args().Slice(), log)
	if err != nil {
		return err
	}
	snapshot(env.Rpt, cmd.Args().Slice(), log)

	comp, err := NewCompiler(env, log)
	if err != nil {
		return err
	}
	if cmd.Bool("purge-cache") {
		if err := purgeCache(env, comp, log); err != nil {
			return err
		}
	}
	set, errs, err := compileInputs(ctx, comp, inputs)
	if err != nil {
		return err
	}
	reported := report(inputs, errs, log)

	sheet := set.Stylesheet(comp.BreakpointNames())
	header, err := expandHeader(env.Cfg.Output.HeaderTemplate, Values{RunID: env.RunID, Rules: set.Len()})
	if err != nil {
		return err
	}
	sheet.Header = header
	if err := write(cmd.String("output"), sheet); err != nil {
		return err
	}
	store(env.Rpt, inputs, set, errs, sheet)

	log.Info("Stylesheet generated", zap.Int("rules", set.Len()), zap.Int("errors", errs.Len()), zap.Int("dropped errors", errs.Dropped()))
	if env.Strict && reported > 0 {
		return fmt.Errorf("%d token(s) could not be compiled", reported)
	}
	return nil
}

// NewCompiler builds compiler from configuration, loading external definitions
// and opening rule cache when configured.
func NewCompiler(env *state.LocalEnv, log *zap.Logger) (*compiler.Compiler, error) {
	conf := env.Cfg.Compiler

	if conf.DefinitionsPath != "" {
		data, err := os.ReadFile(conf.DefinitionsPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read definitions from %q: %w", conf.DefinitionsPath, err)
		}
		defs, err := css.NewDefinitionsParser(log).Parse(data, conf.DefinitionsPath)
		if err != nil {
			return nil, fmt.Errorf("unable to parse definitions from %q: %w", conf.DefinitionsPath, err)
		}
		for _, w := range defs.Warnings {
			log.Warn("Definitions", zap.String("file", conf.DefinitionsPath), zap.String("warning", w))
		}
		if err := env.Rpt.StoreCopy("definitions/"+config.CleanFileName(filepath.Base(conf.DefinitionsPath)), conf.DefinitionsPath, nil); err != nil {
			log.Warn("Unable to put definitions into report", zap.String("file", conf.DefinitionsPath), zap.Error(err))
		}
		conf.ApplyDefinitions(defs)
	}

	if env.Cfg.Cache.Enable && env.Cache == nil {
		store, err := cache.Open(env.Cfg.Cache.Path, log)
		if err != nil {
			// compilation does not depend on cache
			log.Warn("Unable to open rule cache, continuing without it", zap.String("path", env.Cfg.Cache.Path), zap.Error(err))
		} else {
			env.Cache = store
		}
	}

	comp, err := compiler.New(compiler.Options{
		Breakpoints:         conf.VariantBreakpoints(),
		DarkMode:            conf.DarkMode,
		DarkClass:           conf.DarkClass,
		AllowCustomVariants: conf.AllowCustomVariants,
		CustomVariants:      conf.VariantDefinitions(),
		Workers:             conf.Workers,
		MaxErrors:           conf.MaxErrors,
		Cache:               env.Cache,
		Log:                 log,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to prepare compiler: %w", err)
	}
	return comp, nil
}

// purgeCache drops rules cached for current compiler configuration.
func purgeCache(env *state.LocalEnv, comp *compiler.Compiler, log *zap.Logger) error {
	if env.Cache == nil {
		log.Warn("Rule cache is not enabled, nothing to purge")
		return nil
	}
	n, err := env.Cache.Count(comp.Fingerprint())
	if err != nil {
		return err
	}
	if err := env.Cache.Purge(comp.Fingerprint()); err != nil {
		return err
	}
	log.Info("Rule cache purged", zap.String("path", env.Cache.Path()), zap.Int("rules", n))
	return nil
}

// snapshot copies command line sources into debug report as they were at the
// beginning of processing.
func snapshot(rpt *config.Report, args []string, log *zap.Logger) {
	keep := func(path string) bool { return scannable(path) || isArchiveFile(path) }
	for i, arg := range args {
		name := fmt.Sprintf("sources/%03d-%s", i, config.CleanFileName(filepath.Base(arg)))
		if err := rpt.StoreCopy(name, arg, keep); err != nil {
			log.Warn("Unable to put source into report", zap.String("source", arg), zap.Error(err))
		}
	}
}

// collect resolves command line arguments to files and extracts tokens.
// Directories are walked recursively in natural name order, symbolic links
// are not followed. Zip archives are treated as directories.
func collect(ctx context.Context, args []string, log *zap.Logger) ([]Input, error) {
	var names []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input source was not found (%s): %w", arg, err)
		}
		if !fi.IsDir() {
			names = append(names, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.Type().IsRegular() && (scannable(path) || isArchiveFile(path)) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("unable to scan directory (%s): %w", arg, err)
		}
		sort.Sort(natural.StringSlice(found))
		names = append(names, found...)
	}

	var inputs []Input
	add := func(name string, data []byte) error {
		tokens, err := source.Extract(name, data)
		if errors.Is(err, source.ErrBinary) {
			log.Warn("Skipping binary file", zap.String("file", name))
			return nil
		}
		if err != nil {
			log.Error("Unable to extract tokens", zap.String("file", name), zap.Error(err))
			return nil
		}
		log.Debug("Source scanned", zap.String("file", name), zap.Stringer("kind", source.KindOf(name)), zap.Int("tokens", len(tokens)))
		inputs = append(inputs, Input{Name: name, Kind: source.KindOf(name), Tokens: tokens})
		return nil
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isArchiveFile(name) {
			err := archive.Walk(ctx, name, "", scannable, func(entry string, data []byte) error {
				return add(name+"/"+entry, data)
			})
			if err != nil {
				return nil, fmt.Errorf("unable to process archive (%s): %w", name, err)
			}
			continue
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("unable to read source: %w", err)
		}
		if err := add(name, data); err != nil {
			return nil, err
		}
	}
	return inputs, nil
}

func scannable(name string) bool {
	return scanExts[strings.ToLower(filepath.Ext(name))]
}

// isArchiveFile checks both extension and file signature.
func isArchiveFile(name string) bool {
	if !strings.EqualFold(filepath.Ext(name), ".zip") {
		return false
	}
	kind, err := filetype.MatchFile(name)
	return err == nil && kind.Extension == "zip"
}

func compileInputs(ctx context.Context, comp *compiler.Compiler, inputs []Input) (*classset.ClassSet, *compiler.Errors, error) {
	var tokens []string
	for _, in := range inputs {
		tokens = append(tokens, in.Tokens...)
	}
	set, errs, err := comp.Compile(ctx, tokens)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to compile: %w", err)
	}
	return set, errs, nil
}

// report logs token errors. Tokens coming from class attributes are expected
// to be utilities and are reported as warnings, everything scraped from plain
// text is noise unless proven otherwise and goes to debug log. Returns number
// of warnings.
func report(inputs []Input, errs *compiler.Errors, log *zap.Logger) int {
	markup := make(map[string]bool)
	for _, in := range inputs {
		if in.Kind == source.Markup {
			for _, tok := range in.Tokens {
				markup[tok] = true
			}
		}
	}

	count := 0
	for _, te := range errs.Items() {
		fields := []zap.Field{zap.String("token", te.Token), zap.Int("pos", te.Pos), zap.Stringer("stage", te.Stage), zap.Error(te.Err)}
		if markup[te.Token] {
			count++
			log.Warn("Unable to compile token", fields...)
			continue
		}
		log.Debug("Ignoring token", fields...)
	}
	if errs.Dropped() > 0 {
		log.Warn("Too many errors, some were not recorded", zap.Int("dropped", errs.Dropped()))
	}
	return count
}

func write(dst string, sheet *css.Stylesheet) (err error) {
	out := os.Stdout
	if len(dst) > 0 {
		if out, err = os.Create(dst); err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dst, err)
		}
		defer func() {
			if cerr := out.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}
	if _, err := sheet.WriteTo(out); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return nil
}

// store puts intermediate results into debug report.
func store(rpt *config.Report, inputs []Input, set *classset.ClassSet, errs *compiler.Errors, sheet *css.Stylesheet) {
	if rpt == nil {
		return
	}
	for i, in := range inputs {
		rpt.StoreText(fmt.Sprintf("tokens/%03d-%s.txt", i, config.CleanFileName(filepath.Base(in.Name))), strings.Join(in.Tokens, "\n"))
	}
	var buf strings.Builder
	if err := set.Dump(&buf); err == nil {
		rpt.StoreText("classset.txt", buf.String())
	}
	buf.Reset()
	for _, te := range errs.Items() {
		fmt.Fprintf(&buf, "%s\n", te)
	}
	rpt.StoreText("errors.txt", buf.String())
	rpt.StoreText("output.css", sheet.String())
}
