package document

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
)

// Document is a parsed workflow document with its entry element resolved.
type Document struct {
	path  string
	tree  *etree.Document
	entry *etree.Element
}

// Load reads and parses the workflow document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workflow document: %w", err)
	}
	defer f.Close()

	return parse(f, path)
}

// Parse reads a workflow document from r. It is equivalent to Load for
// documents that do not live on disk.
func Parse(r io.Reader) (*Document, error) {
	return parse(r, "")
}

func parse(r io.Reader, path string) (*Document, error) {
	tree := etree.NewDocument()
	if _, err := tree.ReadFrom(r); err != nil {
		return nil, &MalformedDocumentError{Path: path, Err: err}
	}
	if err := checkTopLevel(tree); err != nil {
		return nil, &MalformedDocumentError{Path: path, Err: err}
	}

	starts := tree.FindElements("//" + TagStart)
	if len(starts) != 1 {
		return nil, &MissingEntryError{Path: path, Found: len(starts)}
	}

	return &Document{path: path, tree: tree, entry: starts[0]}, nil
}

// checkTopLevel enforces a single root element with nothing but whitespace,
// comments and processing instructions around it.
func checkTopLevel(tree *etree.Document) error {
	switch n := len(tree.ChildElements()); n {
	case 0:
		return fmt.Errorf("no root element")
	case 1:
	default:
		return fmt.Errorf("%d root elements, expected 1", n)
	}
	for _, tok := range tree.Child {
		if cd, ok := tok.(*etree.CharData); ok && strings.TrimSpace(cd.Data) != "" {
			return fmt.Errorf("text outside the root element: %q", strings.TrimSpace(cd.Data))
		}
	}
	return nil
}

// Path returns the path the document was loaded from, or "" for Parse.
func (d *Document) Path() string { return d.path }

// Root returns the document's root element.
func (d *Document) Root() *etree.Element { return d.tree.Root() }

// Entry returns the unique start element.
func (d *Document) Entry() *etree.Element { return d.entry }

// EntryID returns the id attribute of the start element.
func (d *Document) EntryID() string { return ID(d.entry) }

// FindAll returns every element with the given tag, in document order.
func (d *Document) FindAll(tag string) []*etree.Element {
	return d.tree.FindElements("//" + tag)
}

// ID returns the element's id attribute, or "" when absent.
func ID(el *etree.Element) string {
	return el.SelectAttrValue(AttrID, "")
}

// Attr returns the named attribute, or def when the attribute is absent.
func Attr(el *etree.Element, name, def string) string {
	return el.SelectAttrValue(name, def)
}

// FirstChild returns the first direct child element with the given tag, or nil.
func FirstChild(el *etree.Element, tag string) *etree.Element {
	return el.SelectElement(tag)
}
