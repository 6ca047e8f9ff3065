package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// Known address namespaces (the part after the @).
const (
	UserServer       = "lutra.net"
	HiddenUserServer = "lid.lutra.net"
	GroupServer      = "g.lutra.net"
	BroadcastServer  = "broadcast.lutra.net"
	NewsletterServer = "news.lutra.net"
	BotServer        = "bot.lutra.net"
)

// StatusBroadcastUser is the user part of the status-update broadcast list.
const StatusBroadcastUser = "status"

// AssistantJID is the platform AI assistant identity.
var AssistantJID = JID{User: "assistant", Server: BotServer}

// JID is a protocol address: a user, hidden (lid-namespace) user, group,
// broadcast list, newsletter, or the platform assistant. The canonical text
// form is user[:device]@server.
type JID struct {
	User   string
	Device uint16
	Server string
}

// NewJID creates a device-less JID on the given server.
func NewJID(user, server string) JID {
	return JID{User: user, Server: server}
}

// ParseJID parses the canonical text form. A bare server (no @) is a valid
// server-level address.
func ParseJID(raw string) (JID, error) {
	user, server, found := strings.Cut(raw, "@")
	if !found {
		return JID{Server: raw}, nil
	}
	if server == "" {
		return JID{}, fmt.Errorf("wire: jid %q has empty server", raw)
	}
	jid := JID{User: user, Server: server}
	if userPart, devPart, ok := strings.Cut(user, ":"); ok {
		dev, err := strconv.ParseUint(devPart, 10, 16)
		if err != nil {
			return JID{}, fmt.Errorf("wire: invalid device in jid %q: %w", raw, err)
		}
		jid.User = userPart
		jid.Device = uint16(dev)
	}
	return jid, nil
}

func (j JID) String() string {
	if j.User == "" {
		return j.Server
	}
	if j.Device > 0 {
		return j.User + ":" + strconv.FormatUint(uint64(j.Device), 10) + "@" + j.Server
	}
	return j.User + "@" + j.Server
}

// IsEmpty reports whether the JID is the zero value.
func (j JID) IsEmpty() bool {
	return j.Server == ""
}

// ToNonDevice strips the device part, leaving the account-level address.
func (j JID) ToNonDevice() JID {
	j.Device = 0
	return j
}

func (j JID) IsUser() bool            { return j.Server == UserServer && j.User != "" }
func (j JID) IsHiddenUser() bool      { return j.Server == HiddenUserServer && j.User != "" }
func (j JID) IsGroup() bool           { return j.Server == GroupServer }
func (j JID) IsBroadcast() bool       { return j.Server == BroadcastServer }
func (j JID) IsNewsletter() bool      { return j.Server == NewsletterServer }
func (j JID) IsBot() bool             { return j.Server == BotServer }
func (j JID) IsStatusBroadcast() bool { return j.IsBroadcast() && j.User == StatusBroadcastUser }

// SameUser reports whether two JIDs refer to the same account, ignoring the
// device part. The server must match: a plain-namespace address never equals
// a lid-namespace address even for the same person.
func (j JID) SameUser(other JID) bool {
	return j.User == other.User && j.Server == other.Server
}
