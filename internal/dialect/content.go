package dialect

import (
	"fmt"
	"sort"
)

type child struct {
	name     string
	required bool
}

// contentModel lists, per element, the children it may hold in schema order.
// Elements missing from the table are leaves.
type contentModel map[string][]child

var (
	componentHead = []child{{"vendor", true}, {"library", true}, {"name", true}, {"version", true}}
	nameGroup     = []child{{"name", true}, {"displayName", false}, {"description", false}}
)

func join(parts ...[]child) []child {
	var out []child
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var contentModels = map[Version]contentModel{
	V2009: {
		"component":  join(componentHead, []child{{"memoryMaps", false}, {"description", false}}),
		"memoryMaps": {{"memoryMap", true}},
		"memoryMap":  join(nameGroup, []child{{"addressBlock", false}}),
		"addressBlock": join(nameGroup, []child{
			{"baseAddress", true}, {"range", true}, {"width", true}, {"register", false},
		}),
		"register": join(nameGroup, []child{
			{"addressOffset", true}, {"size", true}, {"reset", false}, {"field", false},
		}),
		"reset": {{"value", true}, {"mask", false}},
		"field": join(nameGroup, []child{
			{"bitOffset", true}, {"bitWidth", true}, {"access", false},
			{"modifiedWriteValue", false}, {"readAction", false},
		}),
	},
	V2014: {
		"component":  join(componentHead, []child{{"displayName", false}, {"description", false}, {"memoryMaps", false}}),
		"memoryMaps": {{"memoryMap", true}},
		"memoryMap":  join(nameGroup, []child{{"addressBlock", false}}),
		"addressBlock": join(nameGroup, []child{
			{"baseAddress", true}, {"range", true}, {"width", true}, {"register", false},
		}),
		"register": join(nameGroup, []child{
			{"addressOffset", true}, {"size", true}, {"field", false},
		}),
		"field": join(nameGroup, []child{
			{"bitOffset", true}, {"resets", false}, {"bitWidth", true}, {"access", false},
			{"modifiedWriteValue", false}, {"readAction", false},
		}),
		"resets": {{"reset", true}},
		"reset":  {{"value", true}, {"mask", false}},
	},
	V2022: {
		"component":  join(componentHead, []child{{"displayName", false}, {"shortDescription", false}, {"description", false}, {"memoryMaps", false}}),
		"memoryMaps": {{"memoryMap", true}},
		"memoryMap":  join(nameGroup, []child{{"addressBlock", false}}),
		"addressBlock": join(nameGroup, []child{
			{"baseAddress", true}, {"range", true}, {"width", true}, {"register", false},
		}),
		"register": join(nameGroup, []child{
			{"addressOffset", true}, {"size", true}, {"field", false},
		}),
		"field": join(nameGroup, []child{
			{"bitOffset", true}, {"resets", false}, {"bitWidth", true}, {"fieldAccessPolicies", false},
		}),
		"resets":              {{"reset", true}},
		"reset":               {{"value", true}, {"mask", false}},
		"fieldAccessPolicies": {{"fieldAccessPolicy", true}},
		"fieldAccessPolicy":   {{"access", false}, {"modifiedWriteValue", false}, {"readAction", false}},
	},
}

func position(children []child, name string) int {
	for i, c := range children {
		if c.name == name {
			return i
		}
	}
	return -1
}

// order sorts the children of n, recursively, into schema order.
func order(cm contentModel, n *Node) {
	if allowed, ok := cm[n.Name]; ok {
		sort.SliceStable(n.Children, func(i, j int) bool {
			return position(allowed, n.Children[i].Name) < position(allowed, n.Children[j].Name)
		})
	}
	for _, c := range n.Children {
		order(cm, c)
	}
}

// CheckContent verifies that every element of the tree is allowed where it
// appears, in schema order, and that required children are present.
func CheckContent(t *Tree) error {
	cm, ok := contentModels[t.Version]
	if !ok {
		return fmt.Errorf("no content model for %s", t.Version)
	}
	if t.Root == nil || t.Root.Name != "component" {
		return fmt.Errorf("document root must be component")
	}
	return checkNode(cm, t.Root, "/component")
}

func checkNode(cm contentModel, n *Node, path string) error {
	allowed, ok := cm[n.Name]
	if !ok {
		if len(n.Children) > 0 {
			return fmt.Errorf("%s: element %s cannot have children", path, n.Name)
		}
		return nil
	}

	seen := make(map[string]bool, len(n.Children))
	last := -1
	for _, c := range n.Children {
		pos := position(allowed, c.Name)
		childPath := path + "/" + c.Name
		switch {
		case pos < 0:
			return fmt.Errorf("%s: element not allowed in %s", childPath, n.Name)
		case pos < last:
			return fmt.Errorf("%s: element out of order in %s", childPath, n.Name)
		}
		last = pos
		seen[c.Name] = true
		if err := checkNode(cm, c, childPath); err != nil {
			return err
		}
	}
	for _, c := range allowed {
		if c.required && !seen[c.name] {
			return fmt.Errorf("%s: missing required element %s", path, c.name)
		}
	}
	return nil
}
