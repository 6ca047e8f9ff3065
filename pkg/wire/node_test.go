package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNode_Accessors(t *testing.T) {
	node := Node{
		Tag: "message",
		Attrs: map[string]string{
			"from":      "alice@lutra.net",
			"t":         "1724972400",
			"is_sender": "true",
		},
		Content: []Node{
			{Tag: "enc", Attrs: map[string]string{"type": "msg"}, Content: []byte{1, 2, 3}},
			{Tag: "meta", Attrs: map[string]string{"target_id": "A1"}},
		},
	}

	require.Len(t, node.GetChildren(), 2)
	enc, ok := node.GetChildByTag("enc")
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, enc.Bytes())
	_, ok = node.GetChildByTag("bot")
	require.False(t, ok)

	require.Equal(t, int64(1724972400), node.AttrInt64("t"))
	require.True(t, node.AttrBool("is_sender"))
	require.False(t, node.AttrBool("missing"))

	from, ok := node.AttrJID("from")
	require.True(t, ok)
	require.Equal(t, "alice", from.User)
	_, ok = node.AttrJID("missing")
	require.False(t, ok)

	// Byte content is not a child sequence and vice versa.
	require.Nil(t, enc.GetChildren())
	require.Nil(t, node.Bytes())
}

func TestNode_JSONRoundtrip(t *testing.T) {
	node := Node{
		Tag:   "message",
		Attrs: map[string]string{"from": "alice@lutra.net", "id": "MSG1"},
		Content: []Node{
			{Tag: "enc", Attrs: map[string]string{"type": "pkmsg"}, Content: []byte("ciphertext")},
			{Tag: "plaintext"},
		},
	}

	data, err := json.Marshal(node)
	require.NoError(t, err)

	var decoded Node
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, node, decoded)
}

func TestNode_UnmarshalBadContent(t *testing.T) {
	var node Node
	err := json.Unmarshal([]byte(`{"tag":"enc","content":42}`), &node)
	require.Error(t, err)
	err = json.Unmarshal([]byte(`{"tag":"enc","content":"not base64!!"}`), &node)
	require.Error(t, err)
}
