package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/margin/internal/core/annotation"
	"github.com/colonyops/margin/internal/core/diff"
	"github.com/colonyops/margin/internal/core/render"
	"github.com/colonyops/margin/internal/core/syntax"
	"github.com/colonyops/margin/internal/margin"
)

type DiffCmd struct {
	flags *Flags
	app   *margin.App

	patch string
	file  string
	side  string
}

// NewDiffCmd creates a new diff command.
func NewDiffCmd(flags *Flags, app *margin.App) *DiffCmd {
	return &DiffCmd{flags: flags, app: app}
}

// Register adds the diff command to the application.
func (cmd *DiffCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "diff",
		Usage: "Render one side of a unified diff with its annotations",
		Description: `Diff parses a unified diff, reconstructs the chosen side's document,
re-anchors that side's annotations against it, and renders the side to HTML
line fragments. Line numbers are per-side: deletions exist only on the old
side, additions only on the new side.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "patch",
				Aliases:     []string{"p"},
				Usage:       "unified diff file to render",
				Required:    true,
				Destination: &cmd.patch,
			},
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "annotated file path the diff applies to",
				Required:    true,
				Destination: &cmd.file,
			},
			&cli.StringFlag{
				Name:        "side",
				Usage:       "diff side to render (old or new)",
				Value:       "new",
				Destination: &cmd.side,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DiffCmd) run(ctx context.Context, c *cli.Command) error {
	side := annotation.Side(cmd.side)
	if side != annotation.SideOld && side != annotation.SideNew {
		return fmt.Errorf("invalid side %q: must be old or new", cmd.side)
	}

	raw, err := os.ReadFile(cmd.patch)
	if err != nil {
		return fmt.Errorf("read patch: %w", err)
	}

	lines, err := diff.Parse(string(raw))
	if err != nil {
		return fmt.Errorf("parse patch: %w", err)
	}

	view := diff.NewSideView(lines, side)
	content := view.Content()

	comments, err := cmd.app.Service.ReconcileSide(ctx, cmd.file, side, content)
	if err != nil {
		return err
	}

	opts := render.DocumentOptions{
		IncludeResolved: cmd.app.Config.Render.IncludeResolved,
		Highlighter:     syntax.New(cmd.app.Config.Render.SyntaxStyle),
	}
	fragments := render.RenderDocument(content, comments, opts)

	var b strings.Builder
	for _, frag := range fragments {
		// Lines absent from the diff's hunks render as gaps.
		if _, ok := view.LineText(frag.Line); !ok {
			b.WriteString(fmt.Sprintf(`<div class="line line-gap" data-line="%d"></div>`, frag.Line))
			b.WriteByte('\n')
			continue
		}
		b.WriteString(frag.HTML)
		b.WriteByte('\n')
	}

	_, err = fmt.Fprint(c.Root().Writer, b.String())
	return err
}
