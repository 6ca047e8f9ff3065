package receive

import (
	"context"

	"github.com/lutra-im/lutra/pkg/payload"
	"github.com/lutra-im/lutra/pkg/wire"
)

// SessionRepository is the ratchet/session store the dispatcher decrypts
// through. Implementations serialize their own per-identity state mutations;
// the dispatcher issues calls strictly sequentially and never concurrently
// against the same identity.
type SessionRepository interface {
	// DecryptGroupMessage decrypts a sender-key message for the given group,
	// attributed to author.
	DecryptGroupMessage(ctx context.Context, group, author wire.JID, ciphertext []byte) ([]byte, error)
	// DecryptMessage decrypts a pairwise ratchet message. encType is the
	// element's algorithm tag (EncTypePreKey or EncTypeMessage).
	DecryptMessage(ctx context.Context, identity wire.JID, encType string, ciphertext []byte) ([]byte, error)
	// ProcessSenderKeyDistribution updates the per-group decryption state
	// from a distribution component. Failure is non-fatal to the caller.
	ProcessSenderKeyDistribution(ctx context.Context, author wire.JID, dist *payload.SenderKeyDistributionMessage) error
}

// MessageStore looks up previously stored messages, used only to resolve the
// shared secret for assistant message edits. A (nil, nil) return means the
// message is not stored.
type MessageStore interface {
	GetMessage(ctx context.Context, chat wire.JID, id string) (*payload.Message, error)
}
