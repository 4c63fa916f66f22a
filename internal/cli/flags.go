package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/scott2000/jj-analyze/internal/analyze"
	"github.com/scott2000/jj-analyze/internal/render"
	"github.com/scott2000/jj-analyze/internal/ui"
)

var (
	_ pflag.Value = (*contextValue)(nil)
	_ pflag.Value = (*ui.ColorMode)(nil)
	_ pflag.Value = (*render.Format)(nil)
)

// contextValue is the --context flag. Only the contexts a whole revset can
// be evaluated in are accepted.
type contextValue analyze.Context

func (c *contextValue) String() string { return analyze.Context(*c).String() }

func (c *contextValue) Set(s string) error {
	ctx, err := analyze.ParseContext(s)
	if err != nil || ctx > analyze.Predicate {
		return fmt.Errorf("invalid context %q (want eager, lazy or predicate)", s)
	}
	*c = contextValue(ctx)
	return nil
}

func (c *contextValue) Type() string { return "context" }
