package render

import (
	"errors"
	"fmt"

	"github.com/yuin/goldmark/ast"

	"github.com/elves/mdtree/pkg/diag"
	"github.com/elves/mdtree/pkg/doctree"
	"github.com/elves/mdtree/pkg/mdparse"
	"github.com/elves/mdtree/pkg/role"
)

func renderRole(s *State, n ast.Node, cur doctree.Node) (doctree.Node, error) {
	r := n.(*mdparse.Role)
	d := s.Document()
	rep := s.Reporter()
	line := s.Line(n)

	impl, messages := s.r.roles.Resolve(r.Name, s.r.config.Language, rep, line)
	s.queueMessages(messages...)
	if impl == nil {
		s.r.logger.Info().Err(diag.Errorf(diag.Resolution, "unknown role %q", r.Name)).
			Int("line", line).Msg("role not rendered")
		msg := rep.Error(fmt.Sprintf("Unknown interpreted text role %q.", r.Name), line)
		d.Append(cur, rep.Problematic(r.RawText, msg))
		s.queueMessages(msg)
		return cur, nil
	}

	s.r.logger.Debug().Str("role", r.Name).Int("line", line).Msg("running role")
	nodes, messages, err := impl.Run(&role.Context{
		Name: r.Name, RawText: r.RawText, Text: r.Content, Line: line,
		Doc: d, Reporter: rep,
	})
	var declined *role.Error
	if errors.As(err, &declined) {
		msg := rep.Report(declined.Level, declined.Message, line)
		d.Append(cur, rep.Problematic(r.RawText, msg))
		s.queueMessages(msg)
		return cur, nil
	} else if err != nil {
		return cur, fmt.Errorf("role %q: %w", r.Name, err)
	}
	all := append(append([]doctree.Node(nil), nodes...), messages...)
	if err := s.checkResult(all, "role", r.Name); err != nil {
		return cur, err
	}
	for _, node := range nodes {
		d.Append(cur, node)
	}
	s.queueMessages(messages...)
	return cur, nil
}
