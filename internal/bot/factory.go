package bot

import "fmt"

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelGreedy BotLevel = iota + 1
	BotLevelPlanner
)

var levelNames = map[BotLevel]string{
	BotLevelGreedy:  "greedy",
	BotLevelPlanner: "planner",
}

func (l BotLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("BotLevel(%d)", int(l))
}

// ParseBotLevel resolves a configuration string to a level.
func ParseBotLevel(s string) (BotLevel, error) {
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown bot level: %q", s)
}

// NewBrain creates a brain for the given level. Brains carry per-round state,
// so every seat needs its own instance.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelGreedy:
		return &GreedyBot{tn: DefaultTuning}, nil
	case BotLevelPlanner:
		return &PlannerBot{tn: DefaultTuning}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
