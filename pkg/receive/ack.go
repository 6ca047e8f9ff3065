package receive

// NackReason is a protocol-level acknowledgment-rejection code. The inbound
// pipeline never selects among these itself; they are exposed for the
// caller's ack-routing decision after a failed decode.
type NackReason int

const (
	NackParsingError            NackReason = 487
	NackUnrecognizedStanza      NackReason = 488
	NackUnrecognizedStanzaClass NackReason = 489
	NackUnrecognizedStanzaType  NackReason = 490
	NackInvalidPayload          NackReason = 491
	NackMissingMessageSecret    NackReason = 495
	NackStaleCounter            NackReason = 496
	NackDeletedOnPeer           NackReason = 499
	NackUnhandledError          NackReason = 500
	NackUnsupportedAdminRevoke  NackReason = 550
	NackUnsupportedHiddenGroup  NackReason = 551
	NackStorageFailure          NackReason = 552
)
