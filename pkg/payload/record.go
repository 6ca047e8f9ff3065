// Package payload holds the message record assembled by the inbound pipeline
// and the structured message payload carried inside encrypted elements.
package payload

// MessageType classifies the conversational addressing topology of an
// inbound message. Exactly one value is assigned per decode.
type MessageType string

const (
	TypeChat             MessageType = "chat"
	TypeGroup            MessageType = "group"
	TypePeerBroadcast    MessageType = "peer_broadcast"
	TypeOtherBroadcast   MessageType = "other_broadcast"
	TypeDirectPeerStatus MessageType = "direct_peer_status"
	TypeOtherStatus      MessageType = "other_status"
	TypeNewsletter       MessageType = "newsletter"
)

// MessageStatus is the delivery state of a message from this device's
// perspective.
type MessageStatus int

const (
	StatusPending MessageStatus = iota + 1
	StatusServerAck
	StatusDeliveryAck
	StatusRead
)

// StubType marks records whose content could not be produced.
type StubType int

// StubCiphertext is the undecryptable marker: the record appears in history
// as a stub carrying a diagnostic string instead of content.
const StubCiphertext StubType = 1

// MessageKey uniquely identifies a message within a chat once combined with
// FromMe.
type MessageKey struct {
	RemoteJID   string  `json:"remoteJid"`
	FromMe      bool    `json:"fromMe"`
	ID          string  `json:"id"`
	Participant *string `json:"participant,omitempty"`
	LID         *string `json:"lid,omitempty"`
	ServerID    *string `json:"serverId,omitempty"`
}

// MessageRecord is the assembled inbound message. The dispatcher mutates it
// incrementally; it is never replaced wholesale.
type MessageRecord struct {
	Key                MessageKey    `json:"key"`
	Type               MessageType   `json:"-"`
	Timestamp          int64         `json:"messageTimestamp"`
	PushName           *string       `json:"pushName,omitempty"`
	Broadcast          bool          `json:"broadcast,omitempty"`
	Message            *Message      `json:"message,omitempty"`
	Status             MessageStatus `json:"status,omitempty"`
	VerifiedName       *string       `json:"verifiedBizName,omitempty"`
	NewsletterServerID *int64        `json:"newsletterServerId,omitempty"`
	StubType           StubType      `json:"messageStubType,omitempty"`
	StubParameters     []string      `json:"messageStubParameters,omitempty"`
}
