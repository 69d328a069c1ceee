package packets

// Internal packets are in-process control messages: recognized by the
// dispatch sum so they can be carried alongside wire packets on the same
// channels, but never serialized. Spec §3/§9 models this as a per-variant
// Ignore flag rather than a separate subtype — here that's simply an
// EncodeBody that returns (nil, nil) and a type that is never registered
// in any wire decode table, so it can never be produced by decoding
// untrusted bytes.

// InternalServerInitialize is Internal/Server 0x00 (spec §6.3): the
// handover signal the reader sends once a Login Start has been accepted,
// carrying the identity the game layer should register under.
type InternalServerInitialize struct {
	UUID     string
	Username string
}

func (p *InternalServerInitialize) ID() byte                    { return 0x00 }
func (p *InternalServerInitialize) Name() string                { return "InternalServerInitialize" }
func (p *InternalServerInitialize) EncodeBody() ([]byte, error) { return nil, nil }

// InternalNetworkDisconnect is Internal/Network 0x00 (spec §6.3): a
// request, enqueued on the outgoing channel like any other packet, asking
// the writer task to terminate the connection with the given reason.
type InternalNetworkDisconnect struct {
	Reason string
}

func (p *InternalNetworkDisconnect) ID() byte                    { return 0x00 }
func (p *InternalNetworkDisconnect) Name() string                { return "InternalNetworkDisconnect" }
func (p *InternalNetworkDisconnect) EncodeBody() ([]byte, error) { return nil, nil }
