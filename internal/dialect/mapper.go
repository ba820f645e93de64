package dialect

import (
	"strconv"

	"github.com/vk/irgen/internal/model"
)

// Node is one element. Name is the local name; the namespace prefix lives
// on the Tree.
type Node struct {
	Name     string
	Text     string
	Children []*Node
}

// Tree is a version-specific document ready for serialisation.
type Tree struct {
	Version        Version
	Prefix         string
	Namespace      string
	SchemaLocation string
	Root           *Node
}

// Find returns the first descendant reached by following names, or nil.
func (n *Node) Find(names ...string) *Node {
	cur := n
	for _, name := range names {
		var next *Node
		for _, c := range cur.Children {
			if c.Name == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// All returns the direct children called name.
func (n *Node) All(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func elem(name string, children ...*Node) *Node {
	n := &Node{Name: name}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func leaf(name, text string) *Node {
	return &Node{Name: name, Text: text}
}

// optional returns nil for empty text so the element is omitted.
func optional(name, text string) *Node {
	if text == "" {
		return nil
	}
	return leaf(name, text)
}

type mapper struct {
	v Version
	r rules
}

// Map builds the element tree of doc for revision v.
func Map(doc *model.Document, v Version) (*Tree, error) {
	r, err := rulesFor(v)
	if err != nil {
		return nil, err
	}
	m := mapper{v: v, r: r}

	c := doc.Component
	root := elem("component",
		leaf("vendor", c.Vendor),
		leaf("library", c.Library),
		leaf("name", c.Name),
		leaf("version", c.Version),
		optional("description", c.Description),
	)

	maps := elem("memoryMaps")
	for _, mm := range doc.MemoryMaps {
		node := elem("memoryMap", leaf("name", mm.Name))
		for _, b := range mm.Blocks {
			block, err := m.block(b)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, block)
		}
		maps.Children = append(maps.Children, node)
	}
	if len(maps.Children) > 0 {
		root.Children = append(root.Children, maps)
	}

	order(contentModels[v], root)
	return &Tree{
		Version:        v,
		Prefix:         r.prefix,
		Namespace:      r.namespace,
		SchemaLocation: r.schemaLocation,
		Root:           root,
	}, nil
}

func (m mapper) hex(v uint64) string {
	return m.r.hexPrefix + strconv.FormatUint(v, 16)
}

func (m mapper) block(b *model.AddressBlock) (*Node, error) {
	node := elem("addressBlock",
		leaf("name", b.Name),
		optional("description", b.Description),
		leaf("baseAddress", m.hex(b.Base)),
		leaf("range", m.hex(b.Range)),
		leaf("width", strconv.Itoa(b.Width)),
	)
	for _, reg := range b.Registers {
		r, err := m.register(reg)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, r)
	}
	return node, nil
}

func (m mapper) register(reg *model.ExpandedRegister) (*Node, error) {
	node := elem("register",
		leaf("name", reg.Name),
		optional("description", reg.Description),
		leaf("addressOffset", m.hex(reg.Offset)),
		leaf("size", strconv.Itoa(reg.Width)),
	)
	if m.r.registerReset {
		if value, mask, ok := reg.ResetValue(); ok {
			node.Children = append(node.Children, elem("reset",
				leaf("value", m.hex(value)),
				leaf("mask", m.hex(mask)),
			))
		}
	}
	for _, f := range reg.Fields {
		field, err := m.field(reg, f)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, field)
	}
	return node, nil
}

func (m mapper) field(reg *model.ExpandedRegister, f model.FieldSpec) (*Node, error) {
	node := elem("field",
		leaf("name", f.Name),
		optional("description", f.Description),
		leaf("bitOffset", strconv.Itoa(f.Offset)),
		leaf("bitWidth", strconv.Itoa(f.Width)),
	)

	if f.Reset != nil && !m.r.registerReset {
		node.Children = append(node.Children,
			elem("resets", elem("reset", leaf("value", m.hex(*f.Reset)))))
	}

	p := f.Access
	if p.Access == model.AccessNoAccess && !m.r.noAccess {
		return nil, model.Errorf(model.KindUnsupportedFeatureForVersion, f.Ref,
			"access %q is not available in %s", p.Access, m.v).
			WithName(reg.Name + "." + f.Name).WithValue(p.Code)
	}
	access := []*Node{
		optional("access", string(p.Access)),
		optional("modifiedWriteValue", p.ModifiedWrite),
		optional("readAction", p.ReadAction),
	}
	if !m.r.accessPolicies {
		for _, a := range access {
			if a != nil {
				node.Children = append(node.Children, a)
			}
		}
		return node, nil
	}
	if policy := elem("fieldAccessPolicy", access...); len(policy.Children) > 0 {
		node.Children = append(node.Children, elem("fieldAccessPolicies", policy))
	}
	return node, nil
}
