// Package render renders Markdown token trees into document trees.
//
// Each token kind is rendered by a [Handler] found in the dispatch table of
// the [Renderer]. Handlers receive the current insertion point and return the
// insertion point for the tokens following them, which only differs for
// headings: every heading opens a section that receives the content up to
// the next heading of the same or a higher level.
//
// Fenced code blocks whose language is a name in braces invoke directives,
// and {name}`text` invokes roles; see the [directive] and [role] packages.
package render

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark/ast"

	"github.com/elves/mdtree/pkg/config"
	"github.com/elves/mdtree/pkg/diag"
	"github.com/elves/mdtree/pkg/directive"
	"github.com/elves/mdtree/pkg/doctree"
	"github.com/elves/mdtree/pkg/logutil"
	"github.com/elves/mdtree/pkg/mdparse"
	"github.com/elves/mdtree/pkg/role"
)

// Handler renders a token into the document at the insertion point cur, and
// returns the insertion point for the following tokens.
type Handler func(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error)

// Renderer renders token trees. A Renderer can be reused, but only for one
// render at a time.
type Renderer struct {
	handlers   map[ast.NodeKind]Handler
	config     *config.Config
	directives *directive.Registry
	roles      *role.Registry
	parser     *mdparse.Parser
	logger     zerolog.Logger

	inUse atomic.Bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithConfig sets the configuration. The default is config.Default().
func WithConfig(cfg *config.Config) Option { return func(r *Renderer) { r.config = cfg } }

// WithDirectives sets the directive registry. The default is
// directive.Default().
func WithDirectives(reg *directive.Registry) Option {
	return func(r *Renderer) { r.directives = reg }
}

// WithRoles sets the role registry. The default is role.Default().
func WithRoles(reg *role.Registry) Option { return func(r *Renderer) { r.roles = reg } }

// WithParser sets the parser used for RenderString and nested content. The
// default is a parser configured from the parser section of the
// configuration.
func WithParser(p *mdparse.Parser) Option { return func(r *Renderer) { r.parser = p } }

// WithHandler adds or replaces the handler of a token kind.
func WithHandler(kind ast.NodeKind, h Handler) Option {
	return func(r *Renderer) { r.handlers[kind] = h }
}

// WithLogger sets the logger. The default is the "render" logger from
// logutil.
func WithLogger(l zerolog.Logger) Option { return func(r *Renderer) { r.logger = l } }

// New creates a new Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		handlers:   defaultHandlers(),
		config:     config.Default(),
		directives: directive.Default(),
		roles:      role.Default(),
		logger:     logutil.GetLogger("render"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.parser == nil {
		r.parser = mdparse.New(
			mdparse.WithLinkify(r.config.Parser.Linkify),
			mdparse.WithTypographer(r.config.Parser.Typographer))
	}
	return r
}

// Register adds or replaces the handler of a token kind. It must not be
// called while a render is in progress.
func (r *Renderer) Register(kind ast.NodeKind, h Handler) { r.handlers[kind] = h }

// Parser returns the parser of the renderer.
func (r *Renderer) Parser() *mdparse.Parser { return r.parser }

// Result is the result of a render.
type Result struct {
	Doc      *doctree.Document
	Reporter *diag.Reporter
}

// ErrInUse is returned when a Renderer is used for a render while another one
// is in progress.
var ErrInUse = errors.New("render: renderer already in use")

func (r *Renderer) acquire() error {
	if !r.inUse.CompareAndSwap(false, true) {
		return ErrInUse
	}
	return nil
}

func (r *Renderer) release() { r.inUse.Store(false) }

// RenderString parses Markdown source and renders it.
func (r *Renderer) RenderString(src string) (*Result, error) {
	return r.Render(r.parser.Parse([]byte(src)))
}

// Render renders a token tree into a new document. Problems in the source
// are reported as system messages in the document; the returned error is
// non-nil only for problems that make the whole render fail, and has a
// *diag.Error in its chain when caused by the source or an extension.
func (r *Renderer) Render(tree *mdparse.Tree) (*Result, error) {
	if err := r.acquire(); err != nil {
		return nil, err
	}
	defer r.release()

	doc := doctree.New()
	doc.Set(doctree.Root, "source", r.config.Source)
	reporter := diag.NewReporter(doc, r.config.Source, r.logger)
	sh := &shared{doc: doc, reporter: reporter, source: tree.Source}
	s := r.newState(sh, tree, doctree.Root, 0)
	if _, err := s.Render(tree.Root, doctree.Root); err != nil {
		return nil, err
	}
	s.flushMessages(doctree.Root)
	if err := s.applyTransforms(); err != nil {
		return nil, err
	}
	return &Result{Doc: doc, Reporter: reporter}, nil
}
