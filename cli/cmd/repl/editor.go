package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/tmplfn/eval"
	"github.com/ardnew/tmplfn/log"
	"github.com/ardnew/tmplfn/value"
)

const defaultEditor = "vi"

// editDataCommand implements [tea.ExecCommand] for the edit-decode-retry
// loop over the data document. The document is written as YAML to a temp
// file and decoded again after the editor exits. On a decode error the
// user is asked to edit again; declining exits the program.
type editDataCommand struct {
	data    value.Value
	ctxFunc func() context.Context
	edited  *value.Value
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editDataCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editDataCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editDataCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. It returns [ErrEditDeclined] if the user
// gives up after a decode error, and leaves edited nil if the user cleared
// the file.
func (c *editDataCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := eval.Write(ctx, &buf, c.data, eval.OutputYAML, 2); err != nil {
		return err
	}

	f, err := os.CreateTemp("", "tmplfn-data-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()
	_ = f.Close()

	defer os.Remove(path)

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		doc, decodeErr := value.Decode(content)
		c.logger.TraceContext(
			ctx,
			"editor decode attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.edited = &doc

			return nil
		}

		fmt.Fprintf(c.stderr, "\ndecode error: %s\n", decodeErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR, or vi, on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
