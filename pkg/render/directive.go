package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/elves/mdtree/pkg/diag"
	"github.com/elves/mdtree/pkg/directive"
	"github.com/elves/mdtree/pkg/doctree"
	"github.com/elves/mdtree/pkg/frontmatter"
	"github.com/elves/mdtree/pkg/mdparse"
)

// Returns the directive name in a code block language like "{note}".
func directiveName(language string) (string, bool) {
	if len(language) > 2 && language[0] == '{' && language[len(language)-1] == '}' {
		return language[1 : len(language)-1], true
	}
	return "", false
}

func (s *State) renderDirective(n *ast.FencedCodeBlock, name, argText string, cur doctree.Node) error {
	d := s.Document()
	rep := s.Reporter()
	cfg := s.r.config
	line := s.Line(n)
	blockText := s.rawContent(n)
	literal := func() doctree.Node {
		node := d.NewTextElement(doctree.KindLiteralBlock, blockText)
		d.SetLine(node, line)
		return node
	}

	// The content starts on the line after the fence.
	contentOffset := line
	body := blockText
	options := map[string]any{}
	if optionsText, rest, found := frontmatter.Split(blockText); found {
		body = rest
		contentOffset += strings.Count(optionsText, "\n") + 2
		parsed, err := frontmatter.Parse(optionsText)
		if err != nil {
			d.Append(cur, rep.Warning(fmt.Sprintf(
				"Ignoring options of %q directive:\n%s", name, messageOf(err)), line))
		} else {
			options = parsed
		}
	}

	if cfg.DirectiveDisabled(name) {
		d.Append(cur, rep.Error(fmt.Sprintf("Directive %q is disabled.", name), line, literal()))
		return nil
	}
	dir, messages := s.r.directives.Resolve(name, cfg.Language, rep, line)
	for _, m := range messages {
		d.Append(cur, m)
	}
	if dir == nil {
		s.r.logger.Info().Err(diag.Errorf(diag.Resolution, "unknown directive %q", name)).
			Int("line", line).Msg("directive not rendered")
		return nil
	}

	spec := dir.Spec()
	var content []string
	if body != "" {
		content = strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	}
	arguments, err := spec.ParseArguments(argText)
	if err == nil {
		options, err = spec.ConvertOptions(options)
	}
	if err == nil {
		err = spec.CheckContent(content)
	}
	if err != nil {
		d.Append(cur, rep.Error(fmt.Sprintf(
			"Error in %q directive:\n%s.", name, messageOf(err)), line, literal()))
		return nil
	}

	s.r.logger.Debug().Str("directive", name).Int("line", line).Msg("running directive")
	result, err := dir.Run(&directive.Context{
		Name:          name,
		Arguments:     arguments,
		Options:       options,
		Content:       content,
		Line:          line,
		ContentOffset: contentOffset,
		BlockText:     blockText,
		State:         directiveState{s, line},
	})
	var declined *directive.Error
	if errors.As(err, &declined) {
		s.r.logger.Info().Err(diag.Errorf(diag.DirectiveDeclined, "%s", declined.Message)).
			Str("directive", name).Int("line", line).Msg("directive not rendered")
		d.Append(cur, rep.Report(declined.Level, declined.Message, line, literal()))
		return nil
	} else if err != nil {
		return fmt.Errorf("directive %q: %w", name, err)
	}
	if err := s.checkResult(result, "directive", name); err != nil {
		return err
	}
	for _, node := range result {
		d.Append(cur, node)
	}
	return nil
}

// Checks that nodes returned by an extension are distinct detached nodes.
func (s *State) checkResult(nodes []doctree.Node, what, name string) error {
	d := s.Document()
	seen := make(map[doctree.Node]bool, len(nodes))
	for i, n := range nodes {
		switch {
		case !d.Valid(n):
			return diag.Errorf(diag.ContractViolation,
				"%s %q returned an invalid node (index %d)", what, name, i)
		case n == doctree.Root || !d.Detached(n):
			return diag.Errorf(diag.ContractViolation,
				"%s %q returned a node that is already in the tree (index %d)", what, name, i)
		case seen[n]:
			return diag.Errorf(diag.ContractViolation,
				"%s %q returned the same node more than once (index %d)", what, name, i)
		}
		seen[n] = true
	}
	return nil
}

func messageOf(err error) string {
	var e *diag.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Implements directive.State for a directive at a given line.
type directiveState struct {
	s    *State
	line int
}

func (ds directiveState) NestedParse(text string, offset int, target doctree.Node) error {
	return ds.s.nestedParse(text, offset, target)
}

func (ds directiveState) InlineText(text string, line int) ([]doctree.Node, []doctree.Node, error) {
	return ds.s.inlineText(text, line)
}

func (ds directiveState) SourcePosition(line int) (string, int) {
	return ds.s.Reporter().Source(), ds.line + line
}

func (ds directiveState) Reporter() *diag.Reporter    { return ds.s.Reporter() }
func (ds directiveState) Document() *doctree.Document { return ds.s.Document() }
func (ds directiveState) Language() string            { return ds.s.r.config.Language }

// Renders Markdown text into target with a fresh State. Link reference
// definitions are shared with the outer document in both directions.
func (s *State) nestedParse(text string, offset int, target doctree.Node) error {
	tree := s.r.parser.ParseWithReferences([]byte(text), s.sh.refs)
	ns := s.r.newState(s.sh, tree, target, offset)
	if _, err := ns.Render(tree.Root, target); err != nil {
		return err
	}
	ns.flushMessages(target)
	return nil
}

// Renders Markdown text as inline content. The content of paragraphs is
// rendered; other blocks are kept as plain text.
func (s *State) inlineText(text string, line int) (nodes, messages []doctree.Node, err error) {
	d := s.Document()
	tree := s.r.parser.ParseWithReferences([]byte(text), s.sh.refs)
	frag := d.Fragment()
	ns := s.r.newState(s.sh, tree, frag, line-1)

	saved := s.sh.queue
	s.sh.queue = nil
	defer func() {
		messages = s.sh.queue
		s.sh.queue = saved
		nodes = d.Release(frag)
	}()
	first := true
	for b := tree.Root.FirstChild(); b != nil; b = b.NextSibling() {
		if b.Kind() == ast.KindParagraph && b.Lines().Len() == 0 {
			continue
		}
		if !first {
			d.AppendText(frag, "\n")
		}
		first = false
		switch b.Kind() {
		case ast.KindParagraph, ast.KindTextBlock:
			if _, err := ns.RenderChildren(b, frag); err != nil {
				return nil, nil, err
			}
		default:
			d.AppendText(frag, blockText(b, tree.Source))
		}
	}
	return nil, nil, nil
}

func blockText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return strings.TrimSuffix(mdparse.RawContent(n, src), "\n")
	}
	return mdparse.PlainText(n, src)
}
