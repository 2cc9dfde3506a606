package doctree

import "fmt"

// Kind is the kind of a node. The string form of a Kind is the tag name used
// by docutils.
type Kind uint8

// Possible values for Kind.
const (
	KindDocument Kind = iota
	KindText

	// Structural elements.
	KindSection
	KindTopic

	// Body elements.
	KindTitle
	KindParagraph
	KindLiteralBlock
	KindMathBlock
	KindBulletList
	KindEnumeratedList
	KindListItem
	KindBlockQuote
	KindTransition
	KindRubric
	KindImage
	KindRaw
	KindPending
	KindSystemMessage

	// Admonitions.
	KindAdmonition
	KindAttention
	KindCaution
	KindDanger
	KindError
	KindHint
	KindImportant
	KindNote
	KindTip
	KindWarning

	// Inline elements.
	KindStrong
	KindEmphasis
	KindLiteral
	KindReference
	KindPendingXref
	KindProblematic
	KindMath
	KindSubscript
	KindSuperscript
	KindAbbreviation
	KindTitleReference
	KindInline

	kindFragment
)

var kindNames = [...]string{
	KindDocument:       "document",
	KindText:           "#text",
	KindSection:        "section",
	KindTopic:          "topic",
	KindTitle:          "title",
	KindParagraph:      "paragraph",
	KindLiteralBlock:   "literal_block",
	KindMathBlock:      "math_block",
	KindBulletList:     "bullet_list",
	KindEnumeratedList: "enumerated_list",
	KindListItem:       "list_item",
	KindBlockQuote:     "block_quote",
	KindTransition:     "transition",
	KindRubric:         "rubric",
	KindImage:          "image",
	KindRaw:            "raw",
	KindPending:        "pending",
	KindSystemMessage:  "system_message",
	KindAdmonition:     "admonition",
	KindAttention:      "attention",
	KindCaution:        "caution",
	KindDanger:         "danger",
	KindError:          "error",
	KindHint:           "hint",
	KindImportant:      "important",
	KindNote:           "note",
	KindTip:            "tip",
	KindWarning:        "warning",
	KindStrong:         "strong",
	KindEmphasis:       "emphasis",
	KindLiteral:        "literal",
	KindReference:      "reference",
	KindPendingXref:    "pending_xref",
	KindProblematic:    "problematic",
	KindMath:           "math",
	KindSubscript:      "subscript",
	KindSuperscript:    "superscript",
	KindAbbreviation:   "abbreviation",
	KindTitleReference: "title_reference",
	KindInline:         "inline",
	kindFragment:       "#fragment",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsTextElement reports whether nodes of the kind hold inline content. The
// text of their children is concatenated without separators.
func (k Kind) IsTextElement() bool {
	switch k {
	case KindTitle, KindParagraph, KindLiteralBlock, KindMathBlock,
		KindRubric, KindRaw, KindStrong, KindEmphasis, KindLiteral,
		KindReference, KindProblematic, KindMath, KindSubscript,
		KindSuperscript, KindAbbreviation, KindTitleReference, KindInline,
		kindFragment:
		return true
	}
	return false
}

// preservesSpace reports whether whitespace in nodes of the kind is
// significant. Such nodes carry xml:space="preserve".
func (k Kind) preservesSpace() bool {
	return k == KindLiteralBlock || k == KindMathBlock || k == KindRaw
}
