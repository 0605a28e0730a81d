package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/plotstore/internal/render"
)

// RenderersResult lists the registered renderers.
type RenderersResult struct {
	Renderers []render.Info `json:"renderers"`
}

// WriteText implements texter.
func (r RenderersResult) WriteText(w io.Writer) {
	for _, info := range r.Renderers {
		fmt.Fprintf(w, "%-8s %-18s %-6s %s\n", info.ID, info.Mime, info.Type, info.Description)
	}
}

// NewRenderersCommand creates the renderers command.
func NewRenderersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "renderers",
		Short:         "List available renderers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := render.Default(render.Options{})
			return newFormatter(rootOpts, cmd).Success(RenderersResult{Renderers: m.List()})
		},
	}

	return cmd
}
