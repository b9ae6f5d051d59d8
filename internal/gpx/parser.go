package gpx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// Parse reads and parses a GPX file into a document tree
func Parse(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader parses GPX from an io.Reader. Any well-formed XML is accepted;
// checking that the root is <gpx> is left to the caller. A document without
// a root element yields a Document whose Root is nil.
func ParseReader(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	// exporters still declare ISO-8859-1 or windows-1252
	decoder.CharsetReader = charset.NewReaderLabel

	doc, err := parseTree(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}
	return doc, nil
}

func parseTree(decoder *xml.Decoder) (*Document, error) {
	doc := NewDocument(nil)

	// RawToken keeps namespace prefixes as written, which the tree needs
	// for verbatim round-trips; element nesting is checked here instead.
	var stack []*Node
	for {
		token, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.ProcInst:
			if t.Target == "xml" {
				readDeclaration(doc, t.Inst)
			}

		case xml.StartElement:
			n := NewElement(qualifiedName(t.Name))
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: qualifiedName(a.Name), Value: a.Value})
			}

			if len(stack) == 0 {
				if doc.Root != nil {
					line, _ := decoder.InputPos()
					return nil, fmt.Errorf("line %d: second root element <%s>", line, n.Name)
				}
				doc.Root = n
			} else {
				stack[len(stack)-1].AppendChild(n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			name := qualifiedName(t.Name)
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected end element </%s>", name)
			}
			if open := stack[len(stack)-1]; open.Name != name {
				return nil, fmt.Errorf("element <%s> closed by </%s>", open.Name, name)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 || len(bytes.TrimSpace(t)) == 0 {
				continue
			}
			stack[len(stack)-1].AppendChild(&Node{Kind: TextNode, Data: string(t)})

		case xml.Comment:
			if len(stack) == 0 {
				continue
			}
			stack[len(stack)-1].AppendChild(&Node{Kind: CommentNode, Data: string(t)})
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("unexpected EOF: <%s> not closed", stack[len(stack)-1].Name)
	}

	return doc, nil
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// readDeclaration picks the version out of <?xml ...?>. The declared
// encoding is not kept: the tree holds decoded text and is always written
// back as UTF-8.
func readDeclaration(doc *Document, inst []byte) {
	for _, field := range strings.Fields(string(inst)) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		if key == "version" {
			doc.Version = value
		}
	}
}

// Write saves the document to a file
func (d *Document) Write(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := d.WriteToWriter(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteToWriter writes the declaration followed by the indented tree
func (d *Document) WriteToWriter(w io.Writer) error {
	if d.Root == nil {
		return errors.New("failed to encode GPX: document has no root element")
	}

	if _, err := fmt.Fprintf(w, "<?xml version=%q encoding=%q?>\n", d.Version, d.Encoding); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if err := encodeNode(encoder, d.Root); err != nil {
		return fmt.Errorf("failed to encode GPX: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return fmt.Errorf("failed to encode GPX: %w", err)
	}

	_, err := io.WriteString(w, "\n")
	return err
}

func encodeNode(encoder *xml.Encoder, n *Node) error {
	switch n.Kind {
	case TextNode:
		return encoder.EncodeToken(xml.CharData(n.Data))
	case CommentNode:
		return encoder.EncodeToken(xml.Comment(n.Data))
	}

	start := xml.StartElement{Name: xml.Name{Local: n.Name}}
	for _, a := range n.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}

	if err := encoder.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := encodeNode(encoder, c); err != nil {
			return err
		}
	}
	return encoder.EncodeToken(start.End())
}
