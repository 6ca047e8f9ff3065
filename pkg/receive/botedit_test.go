package receive

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mau.fi/util/random"

	"github.com/lutra-im/lutra/pkg/e2ee"
	"github.com/lutra-im/lutra/pkg/payload"
	"github.com/lutra-im/lutra/pkg/wire"
)

func botEditNode(t *testing.T, editKind string, ciphertext []byte) *wire.Node {
	t.Helper()
	node := messageNode(map[string]string{"from": wire.AssistantJID.String()})
	node.Content = []wire.Node{
		{Tag: MetaTag, Attrs: map[string]string{"target_id": "ORIG1"}},
		{Tag: BotTag, Attrs: map[string]string{"edit_target_id": "EDIT1", "edit": editKind}},
		{Tag: EncTag, Attrs: map[string]string{"type": EncTypeSecret}, Content: ciphertext},
	}
	return node
}

func storeWithSecret(secret []byte) *fakeStore {
	return &fakeStore{messages: map[string]*payload.Message{
		"ORIG1": {ContextInfo: &payload.MessageContextInfo{MessageSecret: secret}},
	}}
}

func TestDecryptNode_BotEditFinal(t *testing.T) {
	shared := random.Bytes(32)
	addr := e2ee.MessageAddressKey{
		TargetID:    "EDIT1",
		Participant: wire.AssistantJID.String(),
		MeID:        testMeID.String(),
	}
	// Secret edit payloads are not padded.
	plaintext, err := json.Marshal(textMessage("edited answer"))
	require.NoError(t, err)
	ciphertext, err := e2ee.EncryptBotEdit(shared, addr, random.Bytes(e2ee.NonceSize), plaintext)
	require.NoError(t, err)

	node := botEditNode(t, BotEditLast, ciphertext)
	rec, author, sender := classifyForTest(t, node)
	newTestDecryptor(&fakeSessions{}, storeWithSecret(shared)).DecryptNode(context.Background(), rec, node, author, sender)

	require.Zero(t, rec.StubType, "stub parameters: %v", rec.StubParameters)
	require.NotNil(t, rec.Message)
	require.Equal(t, "edited answer", *rec.Message.Conversation)
}

func TestDecryptNode_BotEditSuppressesUnpadForSiblings(t *testing.T) {
	shared := random.Bytes(32)
	addr := e2ee.MessageAddressKey{
		TargetID:    "EDIT1",
		Participant: wire.AssistantJID.String(),
		MeID:        testMeID.String(),
	}
	editPlaintext, err := json.Marshal(textMessage("edited answer"))
	require.NoError(t, err)
	ciphertext, err := e2ee.EncryptBotEdit(shared, addr, random.Bytes(e2ee.NonceSize), editPlaintext)
	require.NoError(t, err)

	// A sibling pairwise element in the same node is also unpadded; stripping
	// a random suffix from it would corrupt the payload.
	sibling, err := json.Marshal(&payload.Message{
		ContextInfo: &payload.MessageContextInfo{MessageSecret: random.Bytes(32)},
	})
	require.NoError(t, err)

	node := botEditNode(t, BotEditLast, ciphertext)
	children := node.Content.([]wire.Node)
	node.Content = append(children, wire.Node{
		Tag: EncTag, Attrs: map[string]string{"type": EncTypeMessage}, Content: []byte("ciphertext"),
	})

	sessions := &fakeSessions{
		decryptMessage: func(_ wire.JID, _ string, _ []byte) ([]byte, error) {
			return sibling, nil
		},
	}
	rec, author, sender := classifyForTest(t, node)
	newTestDecryptor(sessions, storeWithSecret(shared)).DecryptNode(context.Background(), rec, node, author, sender)

	require.Zero(t, rec.StubType, "stub parameters: %v", rec.StubParameters)
	require.NotNil(t, rec.Message)
	require.Equal(t, "edited answer", *rec.Message.Conversation)
	require.NotNil(t, rec.Message.ContextInfo)
	require.Len(t, sessions.pairwiseCalls, 1)
}

func TestDecryptNode_BotEditNonFinalAbandoned(t *testing.T) {
	node := botEditNode(t, BotEditFirst, random.Bytes(64))
	rec, author, sender := classifyForTest(t, node)
	newTestDecryptor(&fakeSessions{}, storeWithSecret(random.Bytes(32))).DecryptNode(context.Background(), rec, node, author, sender)

	// The element counted as decryptable, so no message-absent stub, but it
	// produced no payload and set no error either.
	require.Nil(t, rec.Message)
	require.Zero(t, rec.StubType)
	require.Nil(t, rec.StubParameters)
}

func TestDecryptNode_BotEditMissingSecret(t *testing.T) {
	store := &fakeStore{messages: map[string]*payload.Message{
		"ORIG1": {Conversation: textMessage("original").Conversation},
	}}
	node := botEditNode(t, BotEditLast, random.Bytes(64))
	rec, author, sender := classifyForTest(t, node)
	newTestDecryptor(&fakeSessions{}, store).DecryptNode(context.Background(), rec, node, author, sender)

	require.Equal(t, payload.StubCiphertext, rec.StubType)
	require.Equal(t, []string{errMissingSecret.Error()}, rec.StubParameters)
}

func TestDecryptNode_BotEditTargetNotStored(t *testing.T) {
	node := botEditNode(t, BotEditLast, random.Bytes(64))
	rec, author, sender := classifyForTest(t, node)
	newTestDecryptor(&fakeSessions{}, &fakeStore{}).DecryptNode(context.Background(), rec, node, author, sender)

	require.Equal(t, payload.StubCiphertext, rec.StubType)
	require.Equal(t, []string{errTargetNotStored.Error()}, rec.StubParameters)
}

func TestDecryptNode_BotEditStoreFailure(t *testing.T) {
	node := botEditNode(t, BotEditLast, random.Bytes(64))
	rec, author, sender := classifyForTest(t, node)
	store := &fakeStore{err: errors.New("database closed")}
	newTestDecryptor(&fakeSessions{}, store).DecryptNode(context.Background(), rec, node, author, sender)

	require.Equal(t, payload.StubCiphertext, rec.StubType)
	require.Equal(t, []string{errTargetNotStored.Error()}, rec.StubParameters)
}

func TestDecryptNode_BotEditWithoutMeta(t *testing.T) {
	node := messageNode(map[string]string{"from": wire.AssistantJID.String()})
	node.Content = []wire.Node{
		{Tag: EncTag, Attrs: map[string]string{"type": EncTypeSecret}, Content: random.Bytes(64)},
	}
	rec, author, sender := classifyForTest(t, node)
	newTestDecryptor(&fakeSessions{}, &fakeStore{}).DecryptNode(context.Background(), rec, node, author, sender)

	require.Equal(t, payload.StubCiphertext, rec.StubType)
	require.Equal(t, []string{errMissingTargetID.Error()}, rec.StubParameters)
}

func TestDecryptNode_BotEditTamperedCiphertext(t *testing.T) {
	shared := random.Bytes(32)
	node := botEditNode(t, BotEditLast, random.Bytes(64))
	rec, author, sender := classifyForTest(t, node)
	newTestDecryptor(&fakeSessions{}, storeWithSecret(shared)).DecryptNode(context.Background(), rec, node, author, sender)

	require.Nil(t, rec.Message)
	require.Equal(t, payload.StubCiphertext, rec.StubType)
	require.NotEmpty(t, rec.StubParameters)
}
