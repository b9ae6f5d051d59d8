package gpx

// Kind tells element, text and comment nodes apart.
type Kind uint8

const (
	ElementNode Kind = iota
	TextNode
	CommentNode
)

// Attr is an XML attribute. Name is kept exactly as written in the source,
// prefix included (e.g. "xmlns:gpxtpx", "xsi:schemaLocation").
type Attr struct {
	Name  string
	Value string
}

// Node is one node of a GPX document tree. Element names keep their
// namespace prefix verbatim so that vendor extensions such as
// <gpxtpx:TrackPointExtension> round-trip untouched.
type Node struct {
	Kind     Kind
	Name     string
	Attrs    []Attr
	Children []*Node

	// Data holds the character data of text and comment nodes
	Data string
}

// Document is a parsed or freshly built GPX file
type Document struct {
	Version  string
	Encoding string
	Root     *Node
}

// NewDocument returns a document with the standard XML 1.0 / UTF-8 declaration.
func NewDocument(root *Node) *Document {
	return &Document{
		Version:  "1.0",
		Encoding: "UTF-8",
		Root:     root,
	}
}

// NewElement allocates an element node with the given attributes.
func NewElement(name string, attrs ...Attr) *Node {
	return &Node{
		Kind:  ElementNode,
		Name:  name,
		Attrs: attrs,
	}
}

// NewTextElement allocates <name>text</name>.
func NewTextElement(name, text string) *Node {
	return NewElement(name).AppendChild(&Node{Kind: TextNode, Data: text})
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AppendChild adds children after the existing ones and returns n.
func (n *Node) AppendChild(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Elements returns the child elements called name, in document order.
func (n *Node) Elements(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// FirstElement returns the first child element called name, or nil.
func (n *Node) FirstElement(name string) *Node {
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Name == name {
			return c
		}
	}
	return nil
}

// RemoveElements drops every child element called name and reports how
// many were removed.
func (n *Node) RemoveElements(name string) int {
	kept := n.Children[:0]
	removed := 0
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Name == name {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = kept
	return removed
}

// Text concatenates the direct text children of n.
func (n *Node) Text() string {
	if n.Kind != ElementNode {
		return n.Data
	}

	var text string
	for _, c := range n.Children {
		if c.Kind == TextNode {
			text += c.Data
		}
	}
	return text
}

// Clone returns a deep copy of the subtree rooted at n. The copy shares no
// slices or nodes with n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	c := &Node{
		Kind: n.Kind,
		Name: n.Name,
		Data: n.Data,
	}
	if len(n.Attrs) > 0 {
		c.Attrs = make([]Attr, len(n.Attrs))
		copy(c.Attrs, n.Attrs)
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}
