package directive

import (
	"strings"

	"github.com/elves/mdtree/pkg/doctree"
)

// Default returns a registry with all the built-in directives.
func Default() *Registry {
	r := NewRegistry()
	for name, kind := range admonitionKinds {
		r.Register(name, admonition(kind))
	}
	r.Register("admonition", genericAdmonition)
	r.Register("code", code)
	r.Register("math", math)
	r.Register("contents", contents)
	r.Register("topic", topic)
	r.Register("rubric", rubric)
	r.Register("raw", raw)
	r.Register("image", image)
	return r
}

var admonitionKinds = map[string]doctree.Kind{
	"attention": doctree.KindAttention,
	"caution":   doctree.KindCaution,
	"danger":    doctree.KindDanger,
	"error":     doctree.KindError,
	"hint":      doctree.KindHint,
	"important": doctree.KindImportant,
	"note":      doctree.KindNote,
	"tip":       doctree.KindTip,
	"warning":   doctree.KindWarning,
}

var basicOptions = map[string]OptionFunc{"class": ClassOption, "name": Unchanged}

func admonition(kind doctree.Kind) Directive {
	return New(Spec{HasContent: true, Options: basicOptions}, func(c *Context) ([]doctree.Node, error) {
		if err := c.AssertHasContent(); err != nil {
			return nil, err
		}
		n := c.Document().NewNode(kind)
		c.Document().SetLine(n, c.Line)
		c.AddClasses(n)
		c.AddName(n)
		if err := c.State.NestedParse(c.ContentText(), c.ContentOffset, n); err != nil {
			return nil, err
		}
		return []doctree.Node{n}, nil
	})
}

// Creates a title-like node of the given kind from the inline text of the
// argument. System messages from the inline text are returned separately.
func inlineElement(c *Context, kind doctree.Kind, text string) (doctree.Node, []doctree.Node, error) {
	d := c.Document()
	nodes, messages, err := c.State.InlineText(text, c.Line)
	if err != nil {
		return doctree.Nil, nil, err
	}
	n := d.NewNode(kind)
	d.SetLine(n, c.Line)
	for _, child := range nodes {
		d.Append(n, child)
	}
	return n, messages, nil
}

var genericAdmonition = New(Spec{
	RequiredArguments: 1, FinalArgumentWhitespace: true, HasContent: true,
	Options: basicOptions,
}, func(c *Context) ([]doctree.Node, error) {
	if err := c.AssertHasContent(); err != nil {
		return nil, err
	}
	d := c.Document()
	n := d.NewNode(doctree.KindAdmonition)
	d.SetLine(n, c.Line)
	title, messages, err := inlineElement(c, doctree.KindTitle, c.Arguments[0])
	if err != nil {
		return nil, err
	}
	d.Append(n, title)
	if _, ok := c.Options["class"]; ok {
		c.AddClasses(n)
	} else {
		d.AddToList(n, "classes", "admonition-"+doctree.MakeID(c.Arguments[0]))
	}
	c.AddName(n)
	if err := c.State.NestedParse(c.ContentText(), c.ContentOffset, n); err != nil {
		return nil, err
	}
	return append([]doctree.Node{n}, messages...), nil
})

var code = New(Spec{
	OptionalArguments: 1, HasContent: true,
	Options: map[string]OptionFunc{
		"class": ClassOption, "name": Unchanged, "number-lines": Unchanged},
}, func(c *Context) ([]doctree.Node, error) {
	if err := c.AssertHasContent(); err != nil {
		return nil, err
	}
	d := c.Document()
	language := ""
	if len(c.Arguments) > 0 {
		language = c.Arguments[0]
	}
	n := d.NewTextElement(doctree.KindLiteralBlock, c.ContentText())
	d.SetLine(n, c.Line)
	d.Set(n, "language", language)
	d.AddToList(n, "classes", "code")
	if language != "" {
		d.AddToList(n, "classes", language)
	}
	c.AddClasses(n)
	c.AddName(n)
	if start, ok := c.Options["number-lines"].(string); ok {
		d.Set(n, "number-lines", strings.TrimSpace(start))
	}
	return []doctree.Node{n}, nil
})

var math = New(Spec{HasContent: true, Options: basicOptions}, func(c *Context) ([]doctree.Node, error) {
	if err := c.AssertHasContent(); err != nil {
		return nil, err
	}
	d := c.Document()
	var result []doctree.Node
	for _, block := range splitBlocks(c.Content) {
		n := d.NewTextElement(doctree.KindMathBlock, block)
		d.SetLine(n, c.Line)
		c.AddClasses(n)
		result = append(result, n)
	}
	if len(result) > 0 {
		c.AddName(result[0])
	}
	return result, nil
})

// Splits lines into blocks separated by blank lines.
func splitBlocks(lines []string) []string {
	var blocks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
		} else {
			current = append(current, line)
		}
	}
	flush()
	return blocks
}

// The "contents" directive creates a topic with a pending node, which is
// replaced by the table of contents once the whole document is built.
var contents = New(Spec{
	OptionalArguments: 1, FinalArgumentWhitespace: true,
	Options: map[string]OptionFunc{
		"depth":     NonnegativeInt,
		"local":     Flag,
		"backlinks": Choice("top", "entry", "none"),
		"class":     ClassOption,
	},
}, func(c *Context) ([]doctree.Node, error) {
	d := c.Document()
	toc := d.NewNode(doctree.KindTopic)
	d.SetLine(toc, c.Line)
	d.AddToList(toc, "classes", "contents")
	c.AddClasses(toc)
	var messages []doctree.Node
	var name string
	if len(c.Arguments) > 0 {
		title, msgs, err := inlineElement(c, doctree.KindTitle, c.Arguments[0])
		if err != nil {
			return nil, err
		}
		d.Append(toc, title)
		messages = msgs
		name = d.AsText(title)
	} else if !c.Flag("local") {
		label := Label(c.State.Language(), "contents")
		d.Append(toc, d.NewTextElement(doctree.KindTitle, label))
		name = label
	}
	if name != "" {
		name = doctree.FullyNormalizeName(name)
		if _, taken := d.NameID(name); !taken {
			d.AddToList(toc, "names", name)
		}
	}
	d.NoteImplicitTarget(toc)

	pending := d.NewNode(doctree.KindPending)
	d.Set(pending, "transform", "contents")
	if depth, ok := c.Options["depth"].(int); ok {
		d.Set(pending, "depth", depth)
	}
	if c.Flag("local") {
		d.Set(pending, "local", true)
	}
	if backlinks, ok := c.Options["backlinks"].(string); ok {
		d.Set(pending, "backlinks", backlinks)
	}
	d.Append(toc, pending)
	return append([]doctree.Node{toc}, messages...), nil
})

var topic = New(Spec{
	RequiredArguments: 1, FinalArgumentWhitespace: true, HasContent: true,
	Options: basicOptions,
}, func(c *Context) ([]doctree.Node, error) {
	if err := c.AssertHasContent(); err != nil {
		return nil, err
	}
	d := c.Document()
	n := d.NewNode(doctree.KindTopic)
	d.SetLine(n, c.Line)
	title, messages, err := inlineElement(c, doctree.KindTitle, c.Arguments[0])
	if err != nil {
		return nil, err
	}
	d.Append(n, title)
	c.AddClasses(n)
	c.AddName(n)
	if err := c.State.NestedParse(c.ContentText(), c.ContentOffset, n); err != nil {
		return nil, err
	}
	return append([]doctree.Node{n}, messages...), nil
})

var rubric = New(Spec{
	RequiredArguments: 1, FinalArgumentWhitespace: true, Options: basicOptions,
}, func(c *Context) ([]doctree.Node, error) {
	n, messages, err := inlineElement(c, doctree.KindRubric, c.Arguments[0])
	if err != nil {
		return nil, err
	}
	c.AddClasses(n)
	c.AddName(n)
	return append([]doctree.Node{n}, messages...), nil
})

var raw = New(Spec{
	RequiredArguments: 1, FinalArgumentWhitespace: true, HasContent: true,
	Options: basicOptions,
}, func(c *Context) ([]doctree.Node, error) {
	if err := c.AssertHasContent(); err != nil {
		return nil, err
	}
	d := c.Document()
	n := d.NewTextElement(doctree.KindRaw, c.ContentText())
	d.SetLine(n, c.Line)
	d.Set(n, "format", strings.Join(strings.Fields(strings.ToLower(c.Arguments[0])), " "))
	c.AddClasses(n)
	c.AddName(n)
	return []doctree.Node{n}, nil
})

var image = New(Spec{
	RequiredArguments: 1, FinalArgumentWhitespace: true,
	Options: map[string]OptionFunc{
		"alt":    Unchanged,
		"height": Unchanged,
		"width":  Unchanged,
		"scale":  NonnegativeInt,
		"align":  Choice("top", "middle", "bottom", "left", "center", "right"),
		"target": UnchangedRequired,
		"class":  ClassOption,
		"name":   Unchanged,
	},
}, func(c *Context) ([]doctree.Node, error) {
	d := c.Document()
	n := d.NewNode(doctree.KindImage)
	d.SetLine(n, c.Line)
	d.Set(n, "uri", strings.Join(strings.Fields(c.Arguments[0]), ""))
	for _, key := range []string{"alt", "height", "width", "align"} {
		if v, ok := c.Options[key].(string); ok {
			d.Set(n, key, v)
		}
	}
	if scale, ok := c.Options["scale"].(int); ok {
		d.Set(n, "scale", scale)
	}
	c.AddClasses(n)
	c.AddName(n)
	target, ok := c.Options["target"].(string)
	if !ok {
		return []doctree.Node{n}, nil
	}
	ref := d.NewNode(doctree.KindReference)
	d.Set(ref, "refuri", strings.Join(strings.Fields(target), ""))
	d.Append(ref, n)
	return []doctree.Node{ref}, nil
})
