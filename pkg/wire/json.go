package wire

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

type nodeJSON struct {
	Tag     string            `json:"tag"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Content json.RawMessage   `json:"content,omitempty"`
}

// MarshalJSON renders byte content as base64 and child nodes as an array.
func (n Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{Tag: n.Tag, Attrs: n.Attrs}
	switch content := n.Content.(type) {
	case nil:
	case []byte:
		raw, err := json.Marshal(base64.StdEncoding.EncodeToString(content))
		if err != nil {
			return nil, err
		}
		out.Content = raw
	case []Node:
		raw, err := json.Marshal(content)
		if err != nil {
			return nil, err
		}
		out.Content = raw
	default:
		return nil, fmt.Errorf("wire: cannot marshal node content of type %T", content)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts content as either an array of child nodes or a
// base64 string of leaf bytes.
func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	n.Tag = in.Tag
	n.Attrs = in.Attrs
	n.Content = nil
	if len(in.Content) == 0 {
		return nil
	}

	var children []Node
	if err := json.Unmarshal(in.Content, &children); err == nil {
		n.Content = children
		return nil
	}
	var b64 string
	if err := json.Unmarshal(in.Content, &b64); err == nil {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return fmt.Errorf("wire: invalid base64 node content: %w", err)
		}
		n.Content = raw
		return nil
	}
	return fmt.Errorf("wire: node content is neither child array nor base64 string")
}
