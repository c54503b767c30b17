package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/habitual/internal/export"
)

type ExportCmd struct {
	Format string `short:"f" help:"Output format (json or yaml)." default:"json" enum:"json,yaml,yml"`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	w := ctx.out()
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	exportedAt := ctx.Store.Now().Format(time.RFC3339)
	if err := export.Write(w, ctx.Store.State(), format, exportedAt); err != nil {
		return err
	}
	if c.Output != "" {
		ctx.printf("✓ Exported to %s\n", c.Output)
	}
	return nil
}
