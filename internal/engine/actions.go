package engine

import "liap/internal/domain"

// ActionType identifies the inbound action variants.
type ActionType int

const (
	ActionDeclare ActionType = iota + 1
	ActionPlay
	ActionRedealChoice
)

var actionNames = map[ActionType]string{
	ActionDeclare:      "declare",
	ActionPlay:         "play",
	ActionRedealChoice: "redeal_choice",
}

func (t ActionType) String() string {
	if name, ok := actionNames[t]; ok {
		return name
	}
	return "unknown"
}

// Action is one player input, human or bot. The engine treats a seat
// uniformly regardless of who supplies its actions.
type Action struct {
	Type   ActionType
	Seat   int
	Value  int           // ActionDeclare
	Tiles  []domain.Tile // ActionPlay
	Accept bool          // ActionRedealChoice
}

// Result reports the phase the engine settled in after an accepted action,
// cascaded transitions included.
type Result struct {
	Phase domain.Phase
}
