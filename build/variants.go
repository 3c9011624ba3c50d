package build

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"twc/state"
)

// Variants lists variant names known to compiler with current configuration,
// optionally limited to those starting with prefix.
func Variants(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("variants")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many prefixes", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	comp, err := NewCompiler(env, log)
	if err != nil {
		return err
	}

	names := comp.Catalog().Names(cmd.Args().Get(0))
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.Root().Writer, name); err != nil {
			return fmt.Errorf("unable to write variants: %w", err)
		}
	}
	log.Debug("Variants listed", zap.String("prefix", cmd.Args().Get(0)), zap.Int("count", len(names)))
	return nil
}
