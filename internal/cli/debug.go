package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
)

type DebugCmd struct {
	Paths DebugPathsCmd `cmd:"" help:"Show storage and log paths."`
	Slot  DebugSlotCmd  `cmd:"" help:"Dump a raw storage slot."`
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *Context) error {
	output := map[string]string{
		"storage": ctx.Provider.GetConfigPath(),
		"api":     ctx.Config.APIURL,
	}
	if dir, err := ctx.Config.ConfigDir(); err == nil {
		output["log"] = logger.LogPath(dir)
	}
	if mgr := ctx.backupManager(); mgr != nil {
		output["backups"] = mgr.BackupDir()
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(data))
	return nil
}

type DebugSlotCmd struct {
	Slot string `arg:"" help:"Slot to dump." enum:"habits,progress"`
}

func (cmd *DebugSlotCmd) Run(ctx *Context) error {
	data, err := ctx.Provider.Read(ctx.ctx(), storage.Slot(cmd.Slot))
	if errors.Is(err, storage.ErrSlotEmpty) {
		ctx.println("[]")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read slot %s: %w", cmd.Slot, err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		// Show corrupt payloads as-is
		ctx.println(string(data))
		return nil
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal slot: %w", err)
	}
	ctx.println(string(pretty))
	return nil
}
