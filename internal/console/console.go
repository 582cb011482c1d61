package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/louisbranch/dicetray/internal/platform/errors"
	errori18n "github.com/louisbranch/dicetray/internal/platform/errors/i18n"
	"github.com/louisbranch/dicetray/internal/platform/i18n/catalog"
	"github.com/louisbranch/dicetray/internal/tray"
	"golang.org/x/text/message"
)

// DefaultWidth is the number of columns used when none is configured.
const DefaultWidth = 60

// Config configures a Console.
type Config struct {
	Locale  string
	Width   int
	Options tray.DisplayOptions
}

// Console drives a tray from line input.
type Console struct {
	tray    *tray.Tray
	options tray.DisplayOptions
	locale  string
	printer *message.Printer
	errors  *errori18n.Catalog
	in      *bufio.Scanner
	out     io.Writer
	width   int
}

// New creates a console reading commands from in and writing to out.
func New(t *tray.Tray, in io.Reader, out io.Writer, cfg Config) (*Console, error) {
	if t == nil {
		return nil, errors.New("tray is required")
	}
	if in == nil || out == nil {
		return nil, errors.New("input and output are required")
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}
	width := cfg.Width
	if width <= 0 {
		width = DefaultWidth
	}

	bundle := catalog.Default()
	locale := bundle.Match(cfg.Locale).String()
	return &Console{
		tray:    t,
		options: cfg.Options,
		locale:  locale,
		printer: bundle.Printer(locale),
		errors:  errori18n.GetCatalog(locale),
		in:      bufio.NewScanner(in),
		out:     out,
		width:   width,
	}, nil
}

// Locale returns the locale the console resolved for its messages.
func (c *Console) Locale() string {
	return c.locale
}

// Options returns the current display options.
func (c *Console) Options() tray.DisplayOptions {
	return c.options
}

// Run draws the tray and processes input until quit, end of input, context
// cancellation or a fatal error.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for c.in.Scan() {
			select {
			case lines <- c.in.Text():
			case <-stop:
				return
			}
		}
		readErr <- c.in.Err()
	}()

	c.println("core.app.name")
	c.Render()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, c.printer.Sprintf("console.prompt"))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			c.println("core.app.goodbye")
			return nil
		case line := <-lines:
			quit, err := c.Execute(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				c.println("core.app.goodbye")
				return nil
			}
		}
	}
}

// Execute applies one line of input. Recoverable errors are reported to the
// output; only fatal errors are returned.
func (c *Console) Execute(ctx context.Context, line string) (bool, error) {
	cmd, err := Parse(line)
	if err != nil {
		c.reportUsage(err)
		return false, nil
	}

	switch cmd.Kind {
	case KindQuit:
		return true, nil
	case KindHelp:
		c.println("console.help")
		return false, nil
	case KindOptions:
		c.renderOptions()
		return false, nil
	case KindSet:
		next, err := c.options.Set(cmd.Option, cmd.Value)
		if err != nil {
			return false, c.handle(err)
		}
		c.options = next
		for _, entry := range next.Entries() {
			if entry.Name == cmd.Option {
				c.println("console.options.saved", entry.Name, entry.Value)
			}
		}
	case KindAdd:
		if _, err := c.tray.Add(ctx, cmd.Sides); err != nil {
			return false, c.handle(err)
		}
	case KindRoll:
		if _, err := c.tray.Roll(ctx, cmd.Position-1); err != nil {
			return false, c.handle(err)
		}
	case KindRollAll:
		if err := c.tray.RollAll(ctx); err != nil {
			return false, c.handle(err)
		}
	case KindRemove:
		if err := c.tray.Remove(ctx, cmd.Position-1); err != nil {
			return false, c.handle(err)
		}
		c.println("console.removed", cmd.Position)
	case KindClear:
		c.tray.Clear(ctx)
		c.println("console.cleared")
	}
	c.Render()
	return false, nil
}

// handle prints recoverable domain errors and passes fatal ones through.
func (c *Console) handle(err error) error {
	if apperrors.IsFatal(err) {
		return err
	}
	fmt.Fprintln(c.out, c.Message(err))
	return nil
}

// Message renders err in the console locale.
func (c *Console) Message(err error) string {
	return c.errors.Message(err)
}

func (c *Console) reportUsage(err error) {
	var usageErr *UsageError
	if !errors.As(err, &usageErr) {
		fmt.Fprintln(c.out, err.Error())
		return
	}
	if usageErr.Usage == "" {
		c.println("console.unknown_command", strings.TrimSpace(usageErr.Input))
		return
	}
	c.println("console.usage", usageErr.Usage)
}

func (c *Console) println(key string, args ...any) {
	fmt.Fprintln(c.out, c.printer.Sprintf(key, args...))
}
