// Package wire holds the parsed stanza tree and address types for the Lutra
// protocol. Parsing of raw wire bytes into nodes happens upstream; this
// package only models the result.
package wire

import (
	"fmt"
	"strconv"
)

// Node is one parsed unit of the tree-structured wire format.
// Content is either []Node (child elements), []byte (a leaf payload), or nil.
// Nodes are treated as immutable once parsed.
type Node struct {
	Tag     string            `json:"tag"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Content any               `json:"content,omitempty"`
}

// GetChildren returns the child elements, or nil if the content is not a
// sequence of nodes.
func (n *Node) GetChildren() []Node {
	if n == nil {
		return nil
	}
	children, _ := n.Content.([]Node)
	return children
}

// GetChildByTag returns the first child with the given tag.
func (n *Node) GetChildByTag(tag string) (Node, bool) {
	for _, child := range n.GetChildren() {
		if child.Tag == tag {
			return child, true
		}
	}
	return Node{}, false
}

// Bytes returns the node's content as a byte payload, or nil if the content
// is not bytes.
func (n *Node) Bytes() []byte {
	if n == nil {
		return nil
	}
	data, _ := n.Content.([]byte)
	return data
}

// AttrString returns the named attribute, or "" if absent.
func (n *Node) AttrString(key string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[key]
}

// AttrInt64 parses the named attribute as a base-10 integer. Absent or
// malformed attributes yield 0.
func (n *Node) AttrInt64(key string) int64 {
	v, err := strconv.ParseInt(n.AttrString(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// AttrBool reports whether the named attribute equals "true".
func (n *Node) AttrBool(key string) bool {
	return n.AttrString(key) == "true"
}

// AttrJID parses the named attribute as a JID. The second return value is
// false when the attribute is absent or unparseable.
func (n *Node) AttrJID(key string) (JID, bool) {
	raw := n.AttrString(key)
	if raw == "" {
		return JID{}, false
	}
	jid, err := ParseJID(raw)
	if err != nil {
		return JID{}, false
	}
	return jid, true
}

func (n *Node) String() string {
	return fmt.Sprintf("<%s attrs=%v>", n.Tag, n.Attrs)
}
