package emit

import (
	"bytes"
	"context"
	"encoding/xml"

	"github.com/vk/irgen/internal/dialect"
)

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// XMLBinder checks the tree against the revision's content model and
// serialises it as indented XML.
type XMLBinder struct {
	Indent string
}

// NewXMLBinder returns a binder that indents with two spaces.
func NewXMLBinder() *XMLBinder {
	return &XMLBinder{Indent: "  "}
}

func (b *XMLBinder) Start(context.Context) error { return nil }

func (b *XMLBinder) Close() error { return nil }

func (b *XMLBinder) Bind(_ context.Context, tree *dialect.Tree) ([]byte, error) {
	if err := dialect.CheckContent(tree); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", b.Indent)

	root := xml.StartElement{
		Name: b.name(tree, tree.Root.Name),
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:" + tree.Prefix}, Value: tree.Namespace},
			{Name: xml.Name{Local: "xmlns:xsi"}, Value: xsiNamespace},
			{Name: xml.Name{Local: "xsi:schemaLocation"}, Value: tree.SchemaLocation},
		},
	}
	if err := b.encode(enc, tree, tree.Root, root); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// name uses a prefixed local name so the declared prefix is kept verbatim.
func (b *XMLBinder) name(tree *dialect.Tree, local string) xml.Name {
	return xml.Name{Local: tree.Prefix + ":" + local}
}

func (b *XMLBinder) encode(enc *xml.Encoder, tree *dialect.Tree, n *dialect.Node, start xml.StartElement) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := b.encode(enc, tree, c, xml.StartElement{Name: b.name(tree, c.Name)}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
