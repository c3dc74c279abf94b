// Package generate implements the generate subcommand: scan, validate,
// emit.
package generate

import (
	"bufio"
	"context"
	"fmt"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"litgen/cache"
	"litgen/config"
	"litgen/emit"
	"litgen/misc"
	"litgen/scan"
	"litgen/shape"
	"litgen/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("generate")

	patterns := cmd.Args().Slice()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	// command line overrides for configured generator behavior
	gcfg := env.Cfg.Generator
	if s := cmd.String("suffix"); len(s) > 0 {
		gcfg.Suffix = s
	}
	if tags := cmd.StringSlice("tags"); len(tags) > 0 {
		gcfg.BuildTags = tags
	}
	env.Overwrite, env.DryRun, env.NoCache = cmd.Bool("overwrite"), cmd.Bool("dry-run"), cmd.Bool("no-cache")

	env.KindOverride = cmd.String("kind")
	if len(env.KindOverride) > 0 {
		if _, err := config.ParseLitKind(env.KindOverride); err != nil {
			return fmt.Errorf("unable to parse kind override: %w", err)
		}
	}

	var runID string
	if id, err := uuid.NewV7(); err == nil {
		runID = id.String()
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("run_id.txt", []byte(runID))
	}

	log.Info("Generation starting", zap.Strings("patterns", patterns), zap.String("run_id", runID))
	defer func(start time.Time) {
		log.Info("Generation completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	var gens *cache.Cache
	if gcfg.Cache.Enable && !env.NoCache {
		path := gcfg.Cache.Path
		if len(path) == 0 {
			if path, err = env.DefaultCachePath(); err != nil {
				return fmt.Errorf("unable to resolve generation cache location: %w", err)
			}
		}
		if gens, err = cache.Open(path); err != nil {
			// cache is an optimization only, never fail the run over it
			log.Warn("Unable to open generation cache, continuing without it", zap.Error(err))
		} else {
			defer func() {
				if er := gens.Close(); er != nil {
					err = multierr.Append(err, fmt.Errorf("unable to close generation cache: %w", er))
				}
			}()
		}
	}

	pkgs, err := scan.Load(ctx, patterns, gcfg.BuildTags)
	if err != nil {
		return err
	}

	candidates, err := scan.Candidates(gcfg.Marker, pkgs)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		log.Warn("No annotated structs found", zap.String("marker", gcfg.Marker), zap.Strings("patterns", patterns))
		return nil
	}

	// one failed candidate should not stop the others
	var errs error
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := process(ctx, cand, &gcfg, gens, runID, log); err != nil {
			log.Error("Unable to generate artifacts",
				zap.String("type", cand.PkgPath+"."+cand.TypeName), zap.String("pos", cand.Pos.String()), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s.%s: %w", cand.PkgPath, cand.TypeName, err))
		}
	}
	return errs
}

// process handles a single annotated struct: validate its shape, render the
// artifacts and write them out honoring overwrite/dry-run settings and the
// generation cache.
func process(ctx context.Context, cand scan.Candidate, gcfg *config.GeneratorConfig, gens *cache.Cache, runID string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	kind := cand.Kind
	if len(env.KindOverride) > 0 {
		// validated during command line processing
		kind, _ = config.ParseLitKind(env.KindOverride)
	}

	named, ok := types.Unalias(cand.Obj.Type()).(*types.Named)
	if !ok {
		return fmt.Errorf("annotated type is not a defined struct type")
	}

	s, err := shape.Resolve(cand.TypeName, named, kind, cand.Obj.Pkg())
	if err != nil {
		return err
	}

	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("shapes/%s.%s.txt", cand.PkgName, cand.TypeName), []byte(s.String()))
	}

	src, err := os.ReadFile(cand.Pos.Filename)
	if err != nil {
		return fmt.Errorf("unable to read annotated source: %w", err)
	}

	out, err := emit.Generate(cand.Dir, cand.PkgName, s, gcfg)
	if err != nil {
		return err
	}

	// rendered content participates in the digest - types resolved from
	// sibling files or template configuration may change the output while
	// the declaring source file stays the same
	digest := cache.Digest(src, out.Content, []byte(kind.String()), []byte(misc.GetVersion()))

	if !env.Overwrite {
		if e, err := gens.Lookup(cand.PkgPath, cand.TypeName); err != nil {
			log.Warn("Generation cache lookup failed", zap.Error(err))
		} else if e != nil && e.Digest == digest && e.Output == out.Path {
			if _, err := os.Stat(out.Path); err == nil {
				log.Debug("Source unchanged, skipping", zap.String("type", cand.TypeName), zap.String("output", out.Path))
				return nil
			}
		}
	}

	if fi, err := os.Stat(out.Path); err == nil {
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("output path exists and is not a regular file: %s", out.Path)
		}
		// never clobber files we did not generate unless explicitly asked to
		if !env.Overwrite && !generatedByUs(out.Path) {
			return fmt.Errorf("output file already exists and was not generated by %s: %s", misc.GetAppName(), out.Path)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if env.DryRun {
		log.Info("Would generate artifacts",
			zap.String("type", cand.TypeName), zap.Stringer("kind", kind),
			zap.String("output", out.Path), zap.Int("bytes", len(out.Content)))
		return nil
	}

	if err := os.WriteFile(out.Path, out.Content, 0644); err != nil {
		return fmt.Errorf("unable to write generated artifacts: %w", err)
	}
	log.Info("Generated artifacts",
		zap.String("type", cand.TypeName), zap.Stringer("kind", kind), zap.String("output", out.Path))

	if env.Rpt != nil {
		env.Rpt.StoreData(filepath.ToSlash(filepath.Join("generated", cand.PkgName, filepath.Base(out.Path))), out.Content)
	}

	if err := gens.Store(&cache.Entry{
		PkgPath:  cand.PkgPath,
		TypeName: cand.TypeName,
		Digest:   digest,
		Kind:     kind.String(),
		Output:   out.Path,
		Version:  misc.GetVersion(),
		Run:      runID,
	}); err != nil {
		log.Warn("Unable to update generation cache", zap.Error(err))
	}
	return nil
}

// generatedByUs checks the standard generated code header on the first line.
func generatedByUs(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return false
	}
	return strings.HasPrefix(sc.Text(), "// Code generated by "+misc.GetAppName())
}
