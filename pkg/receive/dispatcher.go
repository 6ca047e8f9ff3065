package receive

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lutra-im/lutra/pkg/e2ee"
	"github.com/lutra-im/lutra/pkg/payload"
	"github.com/lutra-im/lutra/pkg/wire"
)

// Element tags and encryption type attributes on message nodes.
const (
	EncTag          = "enc"
	PlaintextTag    = "plaintext"
	VerifiedNameTag = "verified_name"
	MetaTag         = "meta"
	BotTag          = "bot"

	EncTypePreKey    = "pkmsg"
	EncTypeMessage   = "msg"
	EncTypeSenderKey = "skmsg"
	EncTypeSecret    = "msmsg"
)

// Assistant edit kinds carried on the bot element. Only the final kind
// triggers decryption of the accumulated secret payload.
const (
	BotEditFirst = "first"
	BotEditInner = "inner"
	BotEditLast  = "last"
)

// Decryptor runs the per-element decryption pipeline over classified message
// nodes. Elements are processed one at a time in document order: later
// elements depend on scratch state gathered from earlier siblings and the
// record is mutated in place across iterations.
type Decryptor struct {
	Sessions SessionRepository
	Store    MessageStore
	MeID     wire.JID
	MeLID    wire.JID
	Log      zerolog.Logger
}

// editContext is the cross-element scratch state for one decode call,
// populated from sibling elements before any message-secret element is
// processed. It is threaded explicitly through the element loop.
type editContext struct {
	isBotEdit    bool
	metaTargetID string
	editTargetID string
	editKind     string
}

// DecryptNode decrypts every encrypted or plaintext child element of node
// and merges the results into rec. It never fails: every per-element error
// is absorbed into the record's stub fields, logged, and processing
// continues with the next element. A node with nothing decryptable yields
// the fixed message-absent stub.
func (d *Decryptor) DecryptNode(ctx context.Context, rec *payload.MessageRecord, node *wire.Node, author, sender wire.JID) {
	children := node.GetChildren()
	ec := d.scanEditContext(children)

	decryptables := 0
	for i := range children {
		child := &children[i]
		if child.Tag == VerifiedNameTag {
			d.decodeVerifiedName(rec, child)
			continue
		}
		if child.Tag != EncTag && child.Tag != PlaintextTag {
			continue
		}
		data := child.Bytes()
		if data == nil {
			continue
		}
		decryptables++
		if err := d.processElement(ctx, rec, node, child, data, author, sender, &ec); err != nil {
			d.Log.Warn().Err(err).
				Str("message_id", rec.Key.ID).
				Str("enc_type", child.AttrString("type")).
				Msg("Failed to decrypt message element")
			rec.StubType = payload.StubCiphertext
			rec.StubParameters = []string{err.Error()}
		}
	}

	if decryptables == 0 {
		rec.StubType = payload.StubCiphertext
		rec.StubParameters = []string{noMessageFoundText}
	}
}

// scanEditContext is the first pass over the children: when any element is a
// message-secret edit, collect the target id from the meta element and the
// edit target and kind from the bot element.
func (d *Decryptor) scanEditContext(children []wire.Node) editContext {
	var ec editContext
	for i := range children {
		if children[i].Tag == EncTag && children[i].AttrString("type") == EncTypeSecret {
			ec.isBotEdit = true
			break
		}
	}
	if !ec.isBotEdit {
		return ec
	}
	for i := range children {
		switch children[i].Tag {
		case MetaTag:
			ec.metaTargetID = children[i].AttrString("target_id")
		case BotTag:
			ec.editTargetID = children[i].AttrString("edit_target_id")
			ec.editKind = children[i].AttrString("edit")
		}
	}
	return ec
}

// errSkipElement signals that an element was abandoned on purpose: no
// payload, no stub, but the element still counted as decryptable.
var errSkipElement = errors.New("receive: element abandoned")

func (d *Decryptor) processElement(ctx context.Context, rec *payload.MessageRecord, node, child *wire.Node, data []byte, author, sender wire.JID, ec *editContext) error {
	encType := child.AttrString("type")
	if child.Tag == PlaintextTag {
		encType = ""
	}

	var plaintext []byte
	var err error
	switch encType {
	case EncTypeSenderKey:
		plaintext, err = d.Sessions.DecryptGroupMessage(ctx, sender, author, data)
	case EncTypePreKey, EncTypeMessage:
		identity := author
		if sender.IsUser() {
			identity = sender
		}
		plaintext, err = d.Sessions.DecryptMessage(ctx, identity, encType, data)
	case EncTypeSecret:
		plaintext, err = d.decryptSecretElement(ctx, rec, node, data, ec)
		if errors.Is(err, errSkipElement) {
			return nil
		}
	case "":
		plaintext = data
	default:
		err = errUnknownEncType
	}
	if err != nil {
		return err
	}

	if encType != "" && !ec.isBotEdit {
		plaintext, err = e2ee.UnpadRandom(plaintext)
		if err != nil {
			return err
		}
	}

	msg, err := payload.DecodeMessage(plaintext)
	if err != nil {
		return err
	}
	msg = msg.UnwrapDeviceSent()

	if msg.SenderKeyDistribution != nil {
		if err := d.Sessions.ProcessSenderKeyDistribution(ctx, author, msg.SenderKeyDistribution); err != nil {
			d.Log.Warn().Err(err).
				Str("author", author.String()).
				Msg("Failed to process sender key distribution message")
		}
	}

	rec.Message = payload.Merge(rec.Message, msg)
	return nil
}

// decryptSecretElement handles an assistant message-secret edit. The shared
// secret lives on the previously stored message the edit targets; the edit
// payload only decrypts when the collected edit kind is the final one, any
// other kind abandons the element without producing a payload.
func (d *Decryptor) decryptSecretElement(ctx context.Context, rec *payload.MessageRecord, node *wire.Node, data []byte, ec *editContext) ([]byte, error) {
	if ec.metaTargetID == "" {
		return nil, errMissingTargetID
	}
	chat, err := wire.ParseJID(rec.Key.RemoteJID)
	if err != nil {
		return nil, fmt.Errorf("receive: invalid chat jid %q", rec.Key.RemoteJID)
	}
	stored, err := d.Store.GetMessage(ctx, chat, ec.metaTargetID)
	if err != nil {
		d.Log.Warn().Err(err).
			Str("target_id", ec.metaTargetID).
			Msg("Message store lookup failed for edit target")
		return nil, errTargetNotStored
	}
	if stored == nil {
		return nil, errTargetNotStored
	}
	if stored.ContextInfo == nil || len(stored.ContextInfo.MessageSecret) == 0 {
		return nil, errMissingSecret
	}

	if ec.editKind != BotEditLast {
		return nil, errSkipElement
	}
	if ec.editTargetID == "" {
		return nil, errMissingEditID
	}

	botJID, ok := node.AttrJID("from")
	if !ok {
		return nil, errors.New("receive: message node without valid from attribute")
	}
	me := d.MeID
	if botJID.IsHiddenUser() {
		me = d.MeLID
	}
	addr := e2ee.MessageAddressKey{
		TargetID:    ec.editTargetID,
		Participant: botJID.ToNonDevice().String(),
		MeID:        me.ToNonDevice().String(),
	}
	return e2ee.DecryptBotEdit(stored.ContextInfo.MessageSecret, addr, data)
}

func (d *Decryptor) decodeVerifiedName(rec *payload.MessageRecord, child *wire.Node) {
	data := child.Bytes()
	if data == nil {
		return
	}
	cert, err := payload.DecodeVerifiedNameCertificate(data)
	if err != nil {
		d.Log.Warn().Err(err).Str("message_id", rec.Key.ID).Msg("Failed to decode verified name certificate")
		return
	}
	name := cert.Details.VerifiedName
	rec.VerifiedName = &name
}
