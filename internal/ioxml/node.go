package ioxml

import (
	"encoding/xml"
	"strings"
)

// Node is a generic XML element. One Certificate element is decoded into
// a tree of Nodes, the tree is dropped once the certificate is converted
// into a record.
type Node struct {
	XMLName xml.Name
	Content string `xml:",chardata"`
	Nodes   []Node `xml:",any"`
}

// Child returns the first direct child with the given local name, or nil.
func (n *Node) Child(tag string) *Node {
	if n == nil {
		return nil
	}
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == tag {
			return &n.Nodes[i]
		}
	}
	return nil
}

// Children returns all direct children with the given local name.
func (n *Node) Children(tag string) []*Node {
	if n == nil {
		return nil
	}
	var res []*Node
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == tag {
			res = append(res, &n.Nodes[i])
		}
	}
	return res
}

// Path returns all descendants reachable through the given chain of
// local names. Every step may match several elements.
func (n *Node) Path(tags ...string) []*Node {
	if n == nil {
		return nil
	}
	level := []*Node{n}
	for _, tag := range tags {
		var next []*Node
		for _, node := range level {
			next = append(next, node.Children(tag)...)
		}
		level = next
	}
	return level
}

// Text returns the trimmed text of the first direct child of node named
// tag. It returns def when node is nil, the child does not exist or its
// text is empty.
func Text(node *Node, tag, def string) string {
	child := node.Child(tag)
	if child == nil {
		return def
	}
	res := strings.TrimSpace(child.Content)
	if res == "" {
		return def
	}
	return res
}
