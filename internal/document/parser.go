package document

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Document is a parsed incoming XML file. It keeps the raw bytes alongside
// the element tree so archival stays byte-equivalent to the input.
type Document struct {
	root *etree.Element
	raw  []byte
}

// Parse builds the element tree from raw bytes. The wrapped error carries the
// underlying parser diagnostic; callers surface it as a structural failure.
func Parse(data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	root := tree.Root()
	if root == nil {
		return nil, fmt.Errorf("parse document: no root element")
	}
	return &Document{root: root, raw: append([]byte(nil), data...)}, nil
}

// RootTag returns the name of the document's root element.
func (d *Document) RootTag() string {
	return d.root.Tag
}

// Text returns the trimmed text content at a slash-separated path relative to
// the root, or the empty string when the element is absent. Paths may also be
// anchored anywhere in the tree with a leading "//".
func (d *Document) Text(path string) string {
	el := d.find(path)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// Raw returns the original bytes the document was parsed from.
func (d *Document) Raw() []byte {
	return d.raw
}

func (d *Document) find(path string) *etree.Element {
	return d.root.FindElement(path)
}

func (d *Document) findAll(path string) []*etree.Element {
	return d.root.FindElements(path)
}
