// Package prog implements the mdtree command, which renders Markdown files
// into document trees.
package prog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/elves/mdtree/pkg/config"
	"github.com/elves/mdtree/pkg/diag"
	"github.com/elves/mdtree/pkg/directive"
	"github.com/elves/mdtree/pkg/doctree"
	"github.com/elves/mdtree/pkg/logutil"
	"github.com/elves/mdtree/pkg/mdparse"
	"github.com/elves/mdtree/pkg/render"
	"github.com/elves/mdtree/pkg/role"
	"github.com/elves/mdtree/pkg/xref"
)

// Flags keeps command-line flags.
type Flags struct {
	Config, Format, Language string
	Schemes                  []string
	Index, Docname, Log      string
	Verbose                  int
}

var formats = []string{"pseudoxml", "xml", "text", "tokens"}

// Run runs the mdtree command and returns its exit status: 0 on success, 1
// when the document has messages at the ERROR level or above, and 2 when the
// render failed or the command was used incorrectly.
func Run(fds [3]*os.File, args []string) int {
	color := isatty.IsTerminal(fds[2].Fd()) || isatty.IsCygwinTerminal(fds[2].Fd())
	diag.SetPlain(!color)
	p := &program{stdin: fds[0], stdout: fds[1], stderr: fds[2], color: color}
	return p.run(args[1:])
}

type program struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	color          bool
	f              Flags
}

func (p *program) run(args []string) int {
	cmd := p.newRootCmd()
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var exit exitError
	if errors.As(err, &exit) {
		return exit.exit
	}
	p.showError(err)
	var bad badUsageError
	if errors.As(err, &bad) {
		fmt.Fprint(p.stderr, cmd.UsageString())
	}
	return 2
}

func (p *program) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdtree [file]",
		Short: "Render Markdown into a docutils-style document tree",
		Long: `mdtree renders a Markdown file, or the standard input when no file is
given, into a document tree and writes it in the chosen format.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return BadUsage("at most one file can be given")
			}
			return nil
		},
		RunE:          func(cmd *cobra.Command, args []string) error { return p.render(args) },
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(p.stdin)
	cmd.SetOut(p.stdout)
	cmd.SetErr(p.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return BadUsage(err.Error())
	})

	fs := cmd.PersistentFlags()
	fs.StringVar(&p.f.Config, "config", "", "path to a TOML configuration file")
	fs.StringVar(&p.f.Log, "log", "", "a file to write debug log to")
	fs.CountVarP(&p.f.Verbose, "verbose", "v",
		"show INFO messages (-v) and log at debug level (-vv)")

	flags := cmd.Flags()
	flags.StringVarP(&p.f.Format, "format", "f", "pseudoxml",
		"output format: "+strings.Join(formats, ", "))
	flags.StringVar(&p.f.Language, "language", "", "language of directive and role names")
	flags.StringArrayVar(&p.f.Schemes, "scheme", nil,
		"URL scheme left as an external link; can be repeated")
	flags.StringVar(&p.f.Index, "index", "", "path to the cross-reference index database")
	flags.StringVar(&p.f.Docname, "docname", "", "name of the document in the index")

	cmd.AddCommand(&cobra.Command{
		Use:   "directives",
		Short: "List the names of directives and roles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			p.listNames()
		},
	})
	return cmd
}

func (p *program) setupLog() (func() error, error) {
	switch {
	case p.f.Verbose >= 2:
		logutil.SetLevel(zerolog.DebugLevel)
	case p.f.Verbose == 1:
		logutil.SetLevel(zerolog.InfoLevel)
	default:
		logutil.SetLevel(zerolog.WarnLevel)
	}
	return logutil.SetOutputFile(p.f.Log)
}

func (p *program) loadConfig(file string) (*config.Config, error) {
	cfg := config.Default()
	if p.f.Config != "" {
		var err error
		cfg, err = config.Load(p.f.Config)
		if err != nil {
			return nil, err
		}
	}
	if p.f.Language != "" {
		cfg.Language = p.f.Language
	}
	if len(p.f.Schemes) > 0 {
		cfg.KnownURLSchemes = p.f.Schemes
	}
	if p.f.Index != "" {
		cfg.Index.Path = p.f.Index
	}
	if p.f.Docname != "" {
		cfg.Index.Docname = p.f.Docname
	}
	if cfg.Source == "" {
		cfg.Source = file
	}
	if cfg.Index.Docname == "" {
		cfg.Index.Docname = docnameOf(file)
	}
	if err := cfg.Validate(); err != nil {
		return nil, BadUsage(err.Error())
	}
	return cfg, nil
}

// Derives a document name from a file name, like "guide" from
// "docs/guide.md".
func docnameOf(file string) string {
	if file == "" {
		return "index"
	}
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (p *program) render(args []string) error {
	if !contains(formats, p.f.Format) {
		return BadUsage(fmt.Sprintf("unknown format %q", p.f.Format))
	}
	closeLog, err := p.setupLog()
	if err != nil {
		fmt.Fprintln(p.stderr, "Warning: cannot open log file:", err)
	} else {
		defer closeLog()
	}

	file := ""
	if len(args) > 0 {
		file = args[0]
	}
	cfg, err := p.loadConfig(file)
	if err != nil {
		return err
	}
	src, err := p.readSource(file)
	if err != nil {
		return err
	}

	r := render.New(render.WithConfig(cfg))
	tree := r.Parser().Parse(src)
	if p.f.Format == "tokens" {
		fmt.Fprint(p.stdout, mdparse.Trace(tree))
		return nil
	}
	res, err := r.Render(tree)
	if err != nil {
		return err
	}
	if err := p.resolve(res.Doc, cfg.Index); err != nil {
		return err
	}
	if err := p.write(res.Doc); err != nil {
		return err
	}
	p.showMessages(res)
	if res.Reporter.MaxLevel() >= diag.ErrorLevel {
		return Exit(1)
	}
	return nil
}

func (p *program) readSource(file string) ([]byte, error) {
	if file == "" {
		return io.ReadAll(p.stdin)
	}
	return os.ReadFile(file)
}

// Records the targets of the document in the index, and resolves its
// cross-references against it.
func (p *program) resolve(doc *doctree.Document, cfg config.Index) error {
	var idx xref.Index
	if cfg.Path != "" {
		bolt, err := xref.OpenBolt(cfg.Path)
		if err != nil {
			return fmt.Errorf("cannot open index: %w", err)
		}
		defer bolt.Close()
		if err := bolt.Add(xref.Collect(doc, cfg.Docname)...); err != nil {
			return fmt.Errorf("cannot update index: %w", err)
		}
		idx = bolt
	}
	_, err := xref.Resolve(doc, cfg.Docname, idx)
	return err
}

func (p *program) write(doc *doctree.Document) error {
	switch p.f.Format {
	case "xml":
		if err := doc.WriteXML(p.stdout, doctree.Root); err != nil {
			return err
		}
		_, err := fmt.Fprintln(p.stdout)
		return err
	case "text":
		_, err := fmt.Fprintln(p.stdout, doc.AsText(doctree.Root))
		return err
	default:
		_, err := fmt.Fprint(p.stdout, doc.String())
		return err
	}
}

// Writes system messages to stderr in the "source:line: (LEVEL/n) message"
// form. INFO messages are only written with -v.
func (p *program) showMessages(res *render.Result) {
	d := res.Doc
	threshold := diag.Warning
	if p.f.Verbose > 0 {
		threshold = diag.Info
	}
	for _, m := range res.Reporter.Messages() {
		level, _ := d.Int(m, "level")
		if diag.Level(level) < threshold {
			continue
		}
		source := d.Str(m, "source")
		if source == "" {
			source = "<stdin>"
		}
		if line, ok := d.Int(m, "line"); ok {
			source = fmt.Sprintf("%s:%d", source, line)
		}
		text := d.AsText(d.Children(m)[0])
		fmt.Fprintf(p.stderr, "%s: (%s/%d) %s\n", source, diag.Level(level), level,
			strings.ReplaceAll(text, "\n", "\n  "))
	}
}

func (p *program) showError(err error) {
	var e *diag.Error
	if errors.As(err, &e) {
		fmt.Fprintln(p.stderr, e.Show(""))
		if e.Error() != err.Error() {
			fmt.Fprintln(p.stderr, "  in", strings.TrimSuffix(err.Error(), ": "+e.Error()))
		}
		return
	}
	prefix := "Error:"
	if p.color {
		prefix = "\033[31;1mError:\033[m"
	}
	fmt.Fprintln(p.stderr, prefix, err)
}

func (p *program) listNames() {
	fmt.Fprintln(p.stdout, "directives:")
	for _, name := range directive.Default().Names() {
		fmt.Fprintln(p.stdout, "  "+name)
	}
	fmt.Fprintln(p.stdout, "roles:")
	for _, name := range role.Default().Names() {
		fmt.Fprintln(p.stdout, "  "+name)
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// BadUsage returns a special error that causes the command to print out a
// message and the usage information, and exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that causes the command to exit with the given
// code without printing any error messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
