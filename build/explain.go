package build

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"twc/config"
	"twc/state"
)

// Explain prints how every token goes through compilation stages.
func Explain(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("explain")

	if cmd.Args().Len() == 0 {
		return errors.New("no token has been specified")
	}
	comp, err := NewCompiler(env, log)
	if err != nil {
		return err
	}
	for _, token := range cmd.Args().Slice() {
		text := comp.Explain(token)
		if _, err := fmt.Fprint(cmd.Root().Writer, text); err != nil {
			return fmt.Errorf("unable to write explanation: %w", err)
		}
		env.Rpt.StoreText("explain/"+config.CleanFileName(token)+".txt", text)
	}
	return nil
}
