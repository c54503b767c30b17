package cli

import (
	"errors"

	"github.com/julianstephens/habitual/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	result := validation.Validate(ctx.Store.State(), ctx.Store.Today())
	ctx.println(result.FormatReport())
	if result.HasErrors() {
		return errors.New("validation found problems")
	}
	return nil
}
