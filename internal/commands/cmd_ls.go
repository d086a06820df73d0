package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/margin/internal/core/docs"
	"github.com/colonyops/margin/internal/core/styles"
	"github.com/colonyops/margin/internal/margin"
)

type LsCmd struct {
	flags *Flags
	app   *margin.App
}

// NewLsCmd creates a new ls command.
func NewLsCmd(flags *Flags, app *margin.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application.
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List annotatable documents under a directory",
		ArgsUsage: "[root]",
		Action:    cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	root := c.Args().First()
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	documents, err := docs.Discover(root, cmd.app.Config.Ignore)
	if err != nil {
		return fmt.Errorf("discover documents: %w", err)
	}

	if len(documents) == 0 {
		_, _ = fmt.Fprintf(c.Root().Writer, "No documents found in %s\n", root)
		return nil
	}

	counts, err := cmd.app.Service.ListFiles(ctx)
	if err != nil {
		return fmt.Errorf("list annotated files: %w", err)
	}

	w := c.Root().Writer
	for _, doc := range documents {
		line := doc.RelPath
		if n := counts[doc.Path]; n > 0 {
			line += "  " + styles.TitleStyle.Render(fmt.Sprintf("(%d comments)", n))
		}
		_, _ = fmt.Fprintln(w, line)
	}

	return nil
}
