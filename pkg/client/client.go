// Package client composes the address classifier and the decryption
// dispatcher behind one entry point, the way a connector consumes them.
package client

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lutra-im/lutra/pkg/payload"
	"github.com/lutra-im/lutra/pkg/receive"
	"github.com/lutra-im/lutra/pkg/wire"
)

// Client is the inbound-message pipeline for one logged-in account.
type Client struct {
	meID      wire.JID
	meLID     wire.JID
	decryptor *receive.Decryptor
	log       zerolog.Logger
}

// New builds a Client from config and the external collaborators. The
// session repository and message store stay owned by the caller.
func New(cfg *Config, sessions receive.SessionRepository, store receive.MessageStore, log zerolog.Logger) (*Client, error) {
	meID, err := wire.ParseJID(cfg.SelfJID)
	if err != nil {
		return nil, fmt.Errorf("client: invalid self jid: %w", err)
	}
	var meLID wire.JID
	if cfg.SelfLID != "" {
		meLID, err = wire.ParseJID(cfg.SelfLID)
		if err != nil {
			return nil, fmt.Errorf("client: invalid self lid: %w", err)
		}
	}
	log = log.Level(cfg.ParseLogLevel())
	return &Client{
		meID:  meID,
		meLID: meLID,
		decryptor: &receive.Decryptor{
			Sessions: sessions,
			Store:    store,
			MeID:     meID,
			MeLID:    meLID,
			Log:      log,
		},
		log: log,
	}, nil
}

// HandleEncryptedNode classifies a message node and decrypts its elements,
// returning the assembled record plus the author and sender identities for
// the caller's downstream routing and acknowledgment. A classification
// failure is returned as-is (the stanza should be nacked); decryption
// failures never surface here, they land in the record's stub fields.
func (c *Client) HandleEncryptedNode(ctx context.Context, node *wire.Node) (*payload.MessageRecord, wire.JID, wire.JID, error) {
	rec, author, sender, err := receive.ClassifyMessage(node, c.meID, c.meLID)
	if err != nil {
		c.log.Warn().Err(err).Str("message_id", node.AttrString("id")).Msg("Failed to classify message node")
		return nil, wire.JID{}, wire.JID{}, err
	}
	c.decryptor.DecryptNode(ctx, rec, node, author, sender)
	c.log.Debug().
		Str("message_id", rec.Key.ID).
		Str("chat", rec.Key.RemoteJID).
		Str("type", string(rec.Type)).
		Bool("decrypted", rec.Message != nil).
		Msg("Handled inbound message node")
	return rec, author, sender, nil
}
