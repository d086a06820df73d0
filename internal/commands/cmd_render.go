package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/margin/internal/core/render"
	"github.com/colonyops/margin/internal/core/syntax"
	"github.com/colonyops/margin/internal/margin"
)

type RenderCmd struct {
	flags *Flags
	app   *margin.App

	file            string
	out             string
	includeResolved bool
}

// NewRenderCmd creates a new render command.
func NewRenderCmd(flags *Flags, app *margin.App) *RenderCmd {
	return &RenderCmd{flags: flags, app: app}
}

// Register adds the render command to the application.
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "render",
		Usage: "Render an annotated document to HTML line fragments",
		Description: `Render reads a markdown or text document, re-anchors its stored
annotations against the current content, and emits one well-formed HTML
fragment per source line. Lines covered by annotations carry highlight
wrappers with the comment id and a status class.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "document to render",
				Required:    true,
				Destination: &cmd.file,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "write output to file instead of stdout",
				Destination: &cmd.out,
			},
			&cli.BoolFlag{
				Name:        "include-resolved",
				Usage:       "render resolved annotations too",
				Destination: &cmd.includeResolved,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	path, err := filepath.Abs(cmd.file)
	if err != nil {
		return fmt.Errorf("resolve file path: %w", err)
	}

	opts := render.DocumentOptions{
		IncludeResolved: cmd.includeResolved || cmd.app.Config.Render.IncludeResolved,
		Highlighter:     syntax.New(cmd.app.Config.Render.SyntaxStyle),
	}

	fragments, _, err := cmd.app.Service.RenderFile(ctx, path, opts)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, frag := range fragments {
		b.WriteString(frag.HTML)
		b.WriteByte('\n')
	}

	if cmd.out != "" {
		if err := os.WriteFile(cmd.out, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	_, err = fmt.Fprint(c.Root().Writer, b.String())
	return err
}
