package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lutra-im/lutra/pkg/payload"
	"github.com/lutra-im/lutra/pkg/receive"
	"github.com/lutra-im/lutra/pkg/wire"
)

type noSessions struct{}

func (noSessions) DecryptMessage(context.Context, wire.JID, string, []byte) ([]byte, error) {
	return nil, errors.New("no session")
}

func (noSessions) DecryptGroupMessage(context.Context, wire.JID, wire.JID, []byte) ([]byte, error) {
	return nil, errors.New("no sender key")
}

func (noSessions) ProcessSenderKeyDistribution(context.Context, wire.JID, *payload.SenderKeyDistributionMessage) error {
	return nil
}

type emptyStore struct{}

func (emptyStore) GetMessage(context.Context, wire.JID, string) (*payload.Message, error) {
	return nil, nil
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LUTRA_SELF_JID", "alice@lutra.net")
	t.Setenv("LUTRA_SELF_LID", "9f2c1a@lid.lutra.net")
	t.Setenv("LUTRA_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "alice@lutra.net", cfg.SelfJID)
	require.Equal(t, zerolog.DebugLevel, cfg.ParseLogLevel())

	t.Setenv("LUTRA_LOG_LEVEL", "nonsense")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.Equal(t, zerolog.InfoLevel, cfg.ParseLogLevel())
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := &Config{SelfJID: "alice@lutra.net", SelfLID: "9f2c1a@lid.lutra.net", LogLevel: "warn"}
	c, err := New(cfg, noSessions{}, emptyStore{}, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestNew_InvalidIdentities(t *testing.T) {
	_, err := New(&Config{SelfJID: "alice@"}, noSessions{}, emptyStore{}, zerolog.Nop())
	require.Error(t, err)
	_, err = New(&Config{SelfJID: "alice@lutra.net", SelfLID: "x@"}, noSessions{}, emptyStore{}, zerolog.Nop())
	require.Error(t, err)
}

func TestHandleEncryptedNode_Plaintext(t *testing.T) {
	body, err := json.Marshal(&payload.Message{})
	require.NoError(t, err)
	node := &wire.Node{
		Tag:     "message",
		Attrs:   map[string]string{"from": "bob@lutra.net", "id": "MSG1", "t": "100"},
		Content: []wire.Node{{Tag: receive.PlaintextTag, Content: body}},
	}

	rec, author, sender, err := newTestClient(t).HandleEncryptedNode(context.Background(), node)
	require.NoError(t, err)
	require.Equal(t, payload.TypeChat, rec.Type)
	require.Equal(t, "bob@lutra.net", author.String())
	require.Equal(t, author, sender)
	require.NotNil(t, rec.Message)
}

func TestHandleEncryptedNode_UndecryptableBecomesStub(t *testing.T) {
	node := &wire.Node{
		Tag:     "message",
		Attrs:   map[string]string{"from": "bob@lutra.net", "id": "MSG2", "t": "100"},
		Content: []wire.Node{{Tag: receive.EncTag, Attrs: map[string]string{"type": receive.EncTypeMessage}, Content: []byte("junk")}},
	}

	rec, _, _, err := newTestClient(t).HandleEncryptedNode(context.Background(), node)
	require.NoError(t, err)
	require.Nil(t, rec.Message)
	require.Equal(t, payload.StubCiphertext, rec.StubType)
	require.Equal(t, []string{"no session"}, rec.StubParameters)
}

func TestHandleEncryptedNode_AddressErrorPropagates(t *testing.T) {
	node := &wire.Node{
		Tag:   "message",
		Attrs: map[string]string{"from": "team@g.lutra.net", "id": "MSG3"},
	}

	_, _, _, err := newTestClient(t).HandleEncryptedNode(context.Background(), node)
	var addrErr *receive.AddressError
	require.ErrorAs(t, err, &addrErr)
}
