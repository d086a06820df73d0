package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/margin/internal/core/annotation"
	"github.com/colonyops/margin/internal/core/styles"
	"github.com/colonyops/margin/internal/margin"
)

type PreviewCmd struct {
	flags *Flags
	app   *margin.App

	file            string
	includeResolved bool
}

// NewPreviewCmd creates a new preview command.
func NewPreviewCmd(flags *Flags, app *margin.App) *PreviewCmd {
	return &PreviewCmd{flags: flags, app: app}
}

// Register adds the preview command to the application.
func (cmd *PreviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "preview",
		Usage: "Preview an annotated document in the terminal",
		Description: `Preview renders the document with glamour and interleaves its
comments under the lines they cover.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "document to preview",
				Required:    true,
				Destination: &cmd.file,
			},
			&cli.BoolFlag{
				Name:        "include-resolved",
				Usage:       "show resolved comments too",
				Destination: &cmd.includeResolved,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PreviewCmd) run(ctx context.Context, c *cli.Command) error {
	path, err := filepath.Abs(cmd.file)
	if err != nil {
		return fmt.Errorf("resolve file path: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	content := string(raw)

	comments, err := cmd.app.Service.Reconcile(ctx, path, content)
	if err != nil {
		return err
	}
	visible := annotation.FilterByStatus(comments, cmd.includeResolved)
	groups := annotation.GroupByStartLine(visible)

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	wrapWidth := max(width-6, 20)

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out := c.Root().Writer
	_, _ = fmt.Fprintln(out, styles.TitleStyle.Render(cmd.file))

	// Render line by line so comments interleave at their source positions.
	for i, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		lineNum := i + 1
		rendered, err := r.Render(line)
		if err != nil {
			rendered = line + "\n"
		}
		rendered = strings.Trim(rendered, "\n")

		_, _ = fmt.Fprintf(out, "%s %s\n",
			styles.MutedStyle.Render(fmt.Sprintf("%4d │", lineNum)),
			rendered,
		)

		for _, a := range groups[lineNum] {
			header := fmt.Sprintf("%s %s",
				styles.StatusStyle(a.Status.String()).Render("● "+a.Status.String()),
				styles.MutedStyle.Render(a.ID),
			)
			if a.Orphaned {
				header += " " + styles.OrphanStyle.Render("orphaned")
			}
			_, _ = fmt.Fprintln(out, styles.CommentStyle.Render(header+"\n"+a.Body))
		}
	}

	return nil
}
