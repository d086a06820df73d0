package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/margin/internal/core/annotation"
	"github.com/colonyops/margin/internal/core/diff"
	"github.com/colonyops/margin/internal/core/styles"
	"github.com/colonyops/margin/internal/margin"
)

type CommentCmd struct {
	flags *Flags
	app   *margin.App

	file      string
	patch     string
	startLine int
	startCol  int
	endLine   int
	endCol    int
	body      string
	author    string
	tags      string
	side      string

	includeResolved bool
}

// NewCommentCmd creates a new comment command.
func NewCommentCmd(flags *Flags, app *margin.App) *CommentCmd {
	return &CommentCmd{flags: flags, app: app}
}

// Register adds the comment command and its subcommands to the application.
func (cmd *CommentCmd) Register(app *cli.Command) *cli.Command {
	fileFlag := &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "annotated document",
		Required:    true,
		Destination: &cmd.file,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "comment",
		Usage: "Manage annotations on a document",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Attach a comment to a line/column range",
				Flags: []cli.Flag{
					fileFlag,
					&cli.IntFlag{Name: "start-line", Usage: "1-based start line", Required: true, Destination: &cmd.startLine},
					&cli.IntFlag{Name: "start-col", Usage: "1-based start column", Value: 1, Destination: &cmd.startCol},
					&cli.IntFlag{Name: "end-line", Usage: "1-based end line (defaults to start line)", Destination: &cmd.endLine},
					&cli.IntFlag{Name: "end-col", Usage: "1-based end column (defaults to end of line)", Destination: &cmd.endCol},
					&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "comment body (prompts when omitted)", Destination: &cmd.body},
					&cli.StringFlag{Name: "author", Usage: "comment author", Destination: &cmd.author},
					&cli.StringFlag{Name: "tags", Usage: "comma-separated tags", Destination: &cmd.tags},
					&cli.StringFlag{Name: "side", Usage: "diff side (old or new) for diff comments", Destination: &cmd.side},
					&cli.StringFlag{Name: "patch", Aliases: []string{"p"}, Usage: "unified diff the side refers to (required with --side)", Destination: &cmd.patch},
				},
				Action: cmd.runAdd,
			},
			{
				Name:  "list",
				Usage: "List a document's comments",
				Flags: []cli.Flag{
					fileFlag,
					&cli.BoolFlag{Name: "include-resolved", Usage: "show resolved comments too", Destination: &cmd.includeResolved},
				},
				Action: cmd.runList,
			},
			{
				Name:      "resolve",
				Usage:     "Mark a comment resolved",
				ArgsUsage: "<comment-id>",
				Flags:     []cli.Flag{fileFlag},
				Action:    cmd.statusAction(annotation.StatusResolved),
			},
			{
				Name:      "reopen",
				Usage:     "Reopen a resolved or pending comment",
				ArgsUsage: "<comment-id>",
				Flags:     []cli.Flag{fileFlag},
				Action:    cmd.statusAction(annotation.StatusOpen),
			},
			{
				Name:      "edit",
				Usage:     "Replace a comment's body",
				ArgsUsage: "<comment-id>",
				Flags: []cli.Flag{
					fileFlag,
					&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "new comment body", Required: true, Destination: &cmd.body},
				},
				Action: cmd.runEdit,
			},
			{
				Name:      "rm",
				Usage:     "Delete a comment",
				ArgsUsage: "<comment-id>",
				Action:    cmd.runDelete,
			},
			{
				Name:   "resolve-all",
				Usage:  "Resolve every comment on a document",
				Flags:  []cli.Flag{fileFlag},
				Action: cmd.runResolveAll,
			},
		},
	})

	return app
}

func (cmd *CommentCmd) runAdd(ctx context.Context, c *cli.Command) error {
	path, err := filepath.Abs(cmd.file)
	if err != nil {
		return fmt.Errorf("resolve file path: %w", err)
	}

	content, err := cmd.captureContent(path)
	if err != nil {
		return err
	}

	if cmd.body == "" {
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	rng := annotation.Range{
		StartLine:   cmd.startLine,
		StartColumn: cmd.startCol,
		EndLine:     cmd.endLine,
		EndColumn:   cmd.endCol,
	}
	if rng.EndLine == 0 {
		rng.EndLine = rng.StartLine
	}
	if rng.EndColumn == 0 {
		rng.EndColumn = annotation.ToLineEnd
	}

	var tags []string
	if cmd.tags != "" {
		tags = strings.Split(cmd.tags, ",")
	}

	a, err := cmd.app.Service.Create(ctx, content, margin.CreateOptions{
		FilePath: path,
		Range:    rng,
		Side:     annotation.Side(cmd.side),
		Body:     cmd.body,
		Author:   cmd.author,
		Tags:     tags,
		Status:   annotation.StatusOpen,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(c.Root().Writer, styles.SuccessStyle.Render("Comment added"), styles.MutedStyle.Render(a.ID))
	return nil
}

// captureContent returns the document content the new annotation's selection
// and anchor are captured from. Plain comments read the working file; side
// comments must capture from the named side of the patch, since their line
// numbers and text refer to that revision, not the working copy.
func (cmd *CommentCmd) captureContent(path string) (string, error) {
	if cmd.side == "" {
		if cmd.patch != "" {
			return "", fmt.Errorf("--patch requires --side")
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
		return string(raw), nil
	}

	if cmd.patch == "" {
		return "", fmt.Errorf("--side requires --patch to capture from that revision")
	}

	raw, err := os.ReadFile(cmd.patch)
	if err != nil {
		return "", fmt.Errorf("read patch: %w", err)
	}
	return sideContent(string(raw), annotation.Side(cmd.side))
}

// sideContent reconstructs one side of a unified diff for anchor capture.
func sideContent(patch string, side annotation.Side) (string, error) {
	if side != annotation.SideOld && side != annotation.SideNew {
		return "", fmt.Errorf("invalid side %q: must be old or new", side)
	}

	lines, err := diff.Parse(patch)
	if err != nil {
		return "", fmt.Errorf("parse patch: %w", err)
	}
	return diff.NewSideView(lines, side).Content(), nil
}

func (cmd *CommentCmd) runForm() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Comment").
				Description("Feedback for the selected range").
				Validate(validateBody).
				Value(&cmd.body),
		),
	).Run()
}

func validateBody(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("comment body is required")
	}
	return nil
}

func (cmd *CommentCmd) runList(ctx context.Context, c *cli.Command) error {
	path, err := filepath.Abs(cmd.file)
	if err != nil {
		return fmt.Errorf("resolve file path: %w", err)
	}

	list, err := cmd.app.Service.List(ctx, path)
	if err != nil {
		return err
	}
	visible := annotation.SortByLine(annotation.FilterByStatus(list, cmd.includeResolved))

	if len(visible) == 0 {
		_, _ = fmt.Fprintln(c.Root().Writer, "No comments")
		return nil
	}

	w := c.Root().Writer
	counts := annotation.CountByStatus(list)
	_, _ = fmt.Fprintf(w, "%s  %s\n\n",
		styles.TitleStyle.Render(cmd.file),
		styles.MutedStyle.Render(fmt.Sprintf("%d open, %d pending, %d resolved",
			counts[annotation.StatusOpen], counts[annotation.StatusPending], counts[annotation.StatusResolved])),
	)

	for _, a := range visible {
		lineRange := fmt.Sprintf("L%d", a.Range.StartLine)
		if !a.Range.IsSingleLine() {
			lineRange = fmt.Sprintf("L%d-%d", a.Range.StartLine, a.Range.EndLine)
		}

		header := fmt.Sprintf("%s  %s  %s",
			styles.MutedStyle.Render(lineRange),
			styles.StatusStyle(a.Status.String()).Render(a.Status.String()),
			styles.MutedStyle.Render(a.ID),
		)
		if a.Orphaned {
			header += "  " + styles.OrphanStyle.Render("orphaned")
		}

		_, _ = fmt.Fprintln(w, header)
		if a.SelectedText != "" {
			for _, line := range strings.Split(a.SelectedText, "\n") {
				_, _ = fmt.Fprintln(w, styles.MutedStyle.Render("> "+line))
			}
		}
		_, _ = fmt.Fprintln(w, styles.CommentStyle.Render(a.Body))
		_, _ = fmt.Fprintln(w)
	}

	return nil
}

// statusAction returns an action that sets the named comment to a status.
func (cmd *CommentCmd) statusAction(status annotation.Status) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		id := c.Args().First()
		if id == "" {
			return fmt.Errorf("comment id is required")
		}

		path, err := filepath.Abs(cmd.file)
		if err != nil {
			return fmt.Errorf("resolve file path: %w", err)
		}

		if err := cmd.app.Service.SetStatus(ctx, path, id, status); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(c.Root().Writer, styles.SuccessStyle.Render("Comment "+status.String()))
		return nil
	}
}

func (cmd *CommentCmd) runEdit(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("comment id is required")
	}

	path, err := filepath.Abs(cmd.file)
	if err != nil {
		return fmt.Errorf("resolve file path: %w", err)
	}

	if err := cmd.app.Service.UpdateBody(ctx, path, id, cmd.body); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.Root().Writer, styles.SuccessStyle.Render("Comment updated"))
	return nil
}

func (cmd *CommentCmd) runDelete(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("comment id is required")
	}

	if err := cmd.app.Service.Delete(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.Root().Writer, styles.SuccessStyle.Render("Comment deleted"))
	return nil
}

func (cmd *CommentCmd) runResolveAll(ctx context.Context, c *cli.Command) error {
	path, err := filepath.Abs(cmd.file)
	if err != nil {
		return fmt.Errorf("resolve file path: %w", err)
	}

	if err := cmd.app.Service.ResolveAll(ctx, path); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.Root().Writer, styles.SuccessStyle.Render("All comments resolved"))
	return nil
}
