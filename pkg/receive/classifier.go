// Package receive implements the inbound half of the Lutra client core:
// classifying the addressing topology of a parsed stanza and decrypting its
// encrypted elements into one assembled message record.
package receive

import (
	"go.mau.fi/util/ptr"

	"github.com/lutra-im/lutra/pkg/payload"
	"github.com/lutra-im/lutra/pkg/wire"
)

// ClassifyMessage maps a message node's attributes to a message record
// skeleton plus the author identity (who to attribute the message to) and
// the sender identity (what to use for pairwise-session lookups: equal to
// author for direct chats, the chat id otherwise).
//
// Classification is pure: it never touches the node's content and has no
// side effects. Errors are *AddressError and fatal for the whole decode.
func ClassifyMessage(node *wire.Node, meID, meLID wire.JID) (*payload.MessageRecord, wire.JID, wire.JID, error) {
	from, ok := node.AttrJID("from")
	if !ok {
		return nil, wire.JID{}, wire.JID{}, addressErrorf("message node without valid from attribute")
	}
	participant, hasParticipant := node.AttrJID("participant")

	isMe := func(j wire.JID) bool {
		if j.Server == wire.HiddenUserServer {
			return j.ToNonDevice().SameUser(meLID.ToNonDevice())
		}
		return j.ToNonDevice().SameUser(meID.ToNonDevice())
	}

	var (
		msgType    payload.MessageType
		chatID     wire.JID
		author     wire.JID
		routingLID string
	)

	switch {
	case from.IsUser() || from.IsHiddenUser() || from.IsBot():
		recipient, hasRecipient := node.AttrJID("recipient")
		if hasRecipient && !recipient.ToNonDevice().SameUser(wire.AssistantJID) {
			if !isMe(from) {
				return nil, wire.JID{}, wire.JID{}, addressErrorf("recipient present but message not from self")
			}
			chatID = recipient.ToNonDevice()
			routingLID = node.AttrString("peer_recipient_lid")
		} else {
			chatID = from.ToNonDevice()
			routingLID = node.AttrString("sender_lid")
		}
		msgType = payload.TypeChat
		author = from
	case from.IsGroup():
		if !hasParticipant {
			return nil, wire.JID{}, wire.JID{}, addressErrorf("group message without participant")
		}
		msgType = payload.TypeGroup
		chatID = from
		author = participant
		routingLID = node.AttrString("participant_lid")
	case from.IsNewsletter():
		msgType = payload.TypeNewsletter
		chatID = from
		author = from
	case from.IsBroadcast():
		if !hasParticipant {
			return nil, wire.JID{}, wire.JID{}, addressErrorf("broadcast message without participant")
		}
		participantIsMe := isMe(participant)
		if from.IsStatusBroadcast() {
			if participantIsMe {
				msgType = payload.TypeDirectPeerStatus
			} else {
				msgType = payload.TypeOtherStatus
			}
		} else if participantIsMe {
			msgType = payload.TypePeerBroadcast
		} else {
			msgType = payload.TypeOtherBroadcast
		}
		chatID = from
		author = participant
		routingLID = node.AttrString("participant_lid")
	default:
		return nil, wire.JID{}, wire.JID{}, addressErrorf("unknown message type")
	}

	var fromMe bool
	if from.IsNewsletter() {
		fromMe = node.AttrBool("is_sender")
	} else {
		senderIdentity := from
		if hasParticipant {
			senderIdentity = participant
		}
		fromMe = isMe(senderIdentity)
	}

	key := payload.MessageKey{
		RemoteJID: chatID.String(),
		FromMe:    fromMe,
		ID:        node.AttrString("id"),
	}
	if hasParticipant {
		key.Participant = ptr.Ptr(participant.ToNonDevice().String())
	}
	if routingLID != "" {
		key.LID = ptr.Ptr(routingLID)
	}
	if serverID := node.AttrString("server_id"); serverID != "" {
		key.ServerID = ptr.Ptr(serverID)
	}

	rec := &payload.MessageRecord{
		Key:       key,
		Type:      msgType,
		Timestamp: node.AttrInt64("t"),
		Broadcast: from.IsBroadcast(),
	}
	if notify := node.AttrString("notify"); notify != "" {
		rec.PushName = ptr.Ptr(notify)
	}
	if msgType == payload.TypeNewsletter {
		rec.NewsletterServerID = ptr.Ptr(node.AttrInt64("server_id"))
	}
	if fromMe {
		rec.Status = payload.StatusServerAck
	}

	sender := chatID
	if msgType == payload.TypeChat {
		sender = author
	}
	return rec, author, sender, nil
}
