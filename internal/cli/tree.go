package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jakoblorz/slnchain/internal/deps"
	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/models"
	"github.com/jakoblorz/slnchain/internal/projectfile"
	"github.com/jakoblorz/slnchain/internal/sln"
	"github.com/jakoblorz/slnchain/internal/tui"
)

// TreeCommand handles the tree command
type TreeCommand struct {
	fs     filesystem.FileSystem
	logger LoggerFunc
}

// TreeNode is one line of the dependency tree.
type TreeNode struct {
	Name   string `json:"name"`
	GUID   string `json:"guid"`
	Path   string `json:"path"`
	Depth  int    `json:"depth"`
	Repeat bool   `json:"repeat"`
}

// TreeOutput is the JSON form of the tree command.
type TreeOutput struct {
	Root     string     `json:"root"`
	Nodes    []TreeNode `json:"nodes"`
	Distinct int        `json:"distinct"`
}

// NewTreeCommand creates a new tree command
func NewTreeCommand(fs filesystem.FileSystem, logger LoggerFunc) *cobra.Command {
	cmd := &TreeCommand{fs: fs, logger: logger}

	cobraCmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the dependency chain of a project",
		Long: `Walks ProjectReference edges from a root project in pre-order and prints
every project reached. A project reachable along several paths is listed
once per path and marked as a repeat after the first time.`,
		Example: `  # Show the chain in human-readable format
  slnchain tree -s Core/Core.sln -p Core.Contracts

  # Output JSON for scripting
  slnchain tree -s Core/Core.sln -p Core.Contracts --format json`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringP("source", "s", "", "Solution containing the root project")
	cobraCmd.Flags().StringP("project", "p", "", "Root project name")
	cobraCmd.Flags().String("missing-refs", "skip", "What to do with references to missing files: skip or fail")
	cobraCmd.Flags().String("format", "text", "Output format: text or json")
	_ = cobraCmd.MarkFlagRequired("source")
	_ = cobraCmd.MarkFlagRequired("project")

	return cobraCmd
}

// Run executes the tree command
func (c *TreeCommand) Run(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	projectName, _ := cmd.Flags().GetString("project")
	missingRefs, _ := cmd.Flags().GetString("missing-refs")
	format, _ := cmd.Flags().GetString("format")

	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	policy, err := projectfile.ParseMissingReferencePolicy(missingRefs)
	if err != nil {
		return err
	}

	sourcePath, err := absPath(c.fs, source)
	if err != nil {
		return err
	}

	s, err := sln.Load(c.fs, sourcePath)
	if err != nil {
		return fmt.Errorf("failed to load solution: %w", err)
	}

	root, ok := s.GetProject(projectName)
	if !ok {
		return fmt.Errorf("%w: %q in %s", models.ErrProjectNotFound, projectName, sourcePath)
	}

	nodes, err := c.collect(s, root, policy)
	if err != nil {
		return err
	}

	if format == "json" {
		return c.outputJSON(cmd.OutOrStdout(), root, nodes)
	}
	return c.outputText(cmd.OutOrStdout(), nodes)
}

func (c *TreeCommand) collect(s *sln.Solution, root *models.Project, policy projectfile.MissingReferencePolicy) ([]TreeNode, error) {
	walker := deps.NewWalker(s.Resolve, projectfile.NewLoader(c.fs, policy), deps.WithLogger(c.logger.get()))

	seen := make(map[uuid.UUID]bool)
	var nodes []TreeNode
	err := walker.Walk(root, func(p *models.Project, depth int) error {
		nodes = append(nodes, TreeNode{
			Name:   p.Name(),
			GUID:   p.Key(),
			Path:   s.RelativePath(p),
			Depth:  depth,
			Repeat: seen[p.GUID()],
		})
		seen[p.GUID()] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk dependencies of %s: %w", root.Name(), err)
	}
	return nodes, nil
}

// outputText prints the tree with indentation per depth level.
func (c *TreeCommand) outputText(w io.Writer, nodes []TreeNode) error {
	distinct := 0
	for i, node := range nodes {
		if !node.Repeat {
			distinct++
		}

		line := tui.ProjectStyle.Render(node.Name)
		if node.Repeat {
			line = tui.SubtleStyle.Render(node.Name + " (repeat)")
		}

		if i == 0 {
			_, _ = fmt.Fprintln(w, line)
			continue
		}

		indent := strings.Repeat("│  ", node.Depth-1)
		_, _ = fmt.Fprintf(w, "%s%s %s %s\n", tui.TreeStyle.Render(indent), tui.TreeStyle.Render("└─"), line, tui.SubtleStyle.Render(node.Path))
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%d project(s) in chain, %d distinct\n", len(nodes), distinct)
	return nil
}

// outputJSON prints the tree as JSON.
func (c *TreeCommand) outputJSON(w io.Writer, root *models.Project, nodes []TreeNode) error {
	output := TreeOutput{Root: root.Name(), Nodes: nodes}
	for _, node := range nodes {
		if !node.Repeat {
			output.Distinct++
		}
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(w, string(jsonData))
	return nil
}
