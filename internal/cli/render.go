package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/plotstore/internal/harness"
	"github.com/roach88/plotstore/internal/history"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Renderer string
	Page     int
	Scale    float64
	Output   string
	Database string
}

// RenderResult describes a rendering written to a file.
type RenderResult struct {
	Scenario string `json:"scenario"`
	Page     int    `json:"page"`
	Renderer string `json:"renderer"`
	Mime     string `json:"mime"`
	Bytes    int    `json:"bytes"`
	Output   string `json:"output,omitempty"`
	Seq      int64  `json:"seq,omitempty"`
}

// WriteText implements texter.
func (r RenderResult) WriteText(w io.Writer) {
	fmt.Fprintf(w, "✓ %s page %d → %s (%s, %d bytes)\n", r.Scenario, r.Page, r.Output, r.Renderer, r.Bytes)
	if r.Seq > 0 {
		fmt.Fprintf(w, "  archived as snapshot %d\n", r.Seq)
	}
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <scenario.yaml>",
		Short: "Render one page of a scenario",
		Long: `Play a scenario into a fresh store and render one of its pages.

Without --output the rendering is written to stdout as is.

Example:
  plotstore render plot.yaml --renderer png -o plot.png
  plotstore render plot.yaml --renderer tikz --page 0
  plotstore render plot.yaml --db ./history.db -o plot.svg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Renderer, "renderer", "r", "svg", "renderer id (see 'plotstore renderers')")
	cmd.Flags().IntVar(&opts.Page, "page", -1, "page index (negative means the last page)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "render scale (0 uses the scenario scale)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&opts.Database, "db", "", "also archive the rendering to this SQLite database")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	sess, err := harness.Play(scenario)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to play scenario", err)
	}

	info, ok := sess.Renderers.Find(opts.Renderer)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown renderer %q", opts.Renderer))
	}

	index := opts.Page
	if index < 0 {
		index = sess.Store.Size() - 1
	}
	page, ok := sess.Store.Snapshot(index)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("page %d out of range (scenario has %d)", opts.Page, sess.Store.Size()))
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = scenario.Scale
	}

	body, err := info.Render(page, scale)
	if err != nil {
		return WrapExitError(ExitFailure, "render failed", err)
	}
	formatter.VerboseLog("rendered page %d of %s with %s at scale %.2f", index, scenario.Name, info.ID, scale)

	result := RenderResult{
		Scenario: scenario.Name,
		Page:     index,
		Renderer: info.ID,
		Mime:     info.Mime,
		Bytes:    len(body),
		Output:   opts.Output,
	}

	if opts.Database != "" {
		archive, err := history.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer archive.Close()

		result.Seq, err = archive.Save(cmd.Context(), history.Snapshot{
			PageID:   page.ID,
			Reason:   history.ReasonRender,
			Upid:     sess.Store.State().Upid,
			Width:    page.Width,
			Height:   page.Height,
			Renderer: info.ID,
			Mime:     info.Mime,
			Body:     body,
		})
		if err != nil {
			return WrapExitError(ExitFailure, "failed to archive rendering", err)
		}
	}

	if opts.Output == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}

	if err := os.WriteFile(opts.Output, body, 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return formatter.Success(result)
}
