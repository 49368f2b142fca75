package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/merge"
	"github.com/jakoblorz/slnchain/internal/plan"
	"github.com/jakoblorz/slnchain/internal/report"
	"github.com/jakoblorz/slnchain/internal/tui"
)

// ApplyCommand handles the apply command
type ApplyCommand struct {
	fs     filesystem.FileSystem
	logger LoggerFunc
}

// NewApplyCommand creates a new apply command
func NewApplyCommand(fs filesystem.FileSystem, logger LoggerFunc) *cobra.Command {
	cmd := &ApplyCommand{fs: fs, logger: logger}

	cobraCmd := &cobra.Command{
		Use:   "apply <plan.md>...",
		Short: "Run the merges described by plan files",
		Long: `A plan file is Markdown with YAML front matter naming the merge inputs.
Paths are relative to the plan file. The Markdown body is free-form notes.

  ---
  source: ../Core/Core.sln
  project: Core.Contracts
  target: App.sln
  sourceConfig: Release|x86
  targetConfig: Release|Licensed
  missingRefs: fail
  backup: true
  ---

  Pull the contracts chain into the app solution.

Plans run in the order given and stop at the first failure.`,
		Args: cobra.MinimumNArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().Bool("dry-run", false, "Show what would change without writing")

	return cobraCmd
}

// Run executes the apply command
func (c *ApplyCommand) Run(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	chain := merge.NewChain(c.fs, merge.WithLogger(c.logger.get()))
	renderer := report.NewDefaultRenderer()
	out := cmd.OutOrStdout()

	for _, arg := range args {
		planPath, err := absPath(c.fs, arg)
		if err != nil {
			return err
		}

		p, err := plan.Read(c.fs, planPath)
		if err != nil {
			return err
		}

		req, err := p.Request()
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		req.DryRun = req.DryRun || dryRun

		result, err := chain.Run(req)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}

		summary, err := renderer.Render(result)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(out, tui.TitleStyle.Render(arg))
		_, _ = fmt.Fprint(out, summary)
	}

	if !dryRun {
		_, _ = fmt.Fprintln(out, tui.RenderSuccess(fmt.Sprintf("Applied %d plan(s).", len(args))))
	}
	return nil
}
