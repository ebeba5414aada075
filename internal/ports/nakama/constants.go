package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a
	// lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchName is the authoritative match handler name registered with
	// Nakama.
	MatchName = "liap_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame    int64 = 1
	OpDeclare      int64 = 2
	OpPlayTiles    int64 = 3
	OpRedealChoice int64 = 4

	// Server -> Client events
	OpPlayerJoined int64 = 101
	OpPlayerLeft   int64 = 102
	OpMatchState   int64 = 103
	OpHandDealt    int64 = 104 // sent privately
	OpPhaseEvent   int64 = 105
	OpGameError    int64 = 106
)
