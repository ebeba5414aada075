package nakama

import (
	"liap/internal/domain"
	"liap/internal/engine"
)

// WireTile is the JSON tile representation exchanged with clients.
type WireTile struct {
	Kind  string `json:"kind"`
	Color string `json:"color"`
}

func toWireTiles(tiles []domain.Tile) []WireTile {
	out := make([]WireTile, len(tiles))
	for i, t := range tiles {
		out[i] = WireTile{Kind: t.Kind.String(), Color: t.Color.String()}
	}
	return out
}

func fromWireTiles(tiles []WireTile) ([]domain.Tile, error) {
	out := make([]domain.Tile, len(tiles))
	for i, w := range tiles {
		kind, err := domain.ParseKind(w.Kind)
		if err != nil {
			return nil, err
		}
		color, err := domain.ParseColor(w.Color)
		if err != nil {
			return nil, err
		}
		out[i] = domain.Tile{Kind: kind, Color: color}
	}
	return out, nil
}

// Client -> Server payloads.
type (
	DeclareRequest struct {
		Value int `json:"value"`
	}

	PlayTilesRequest struct {
		Tiles []WireTile `json:"tiles"`
	}

	RedealChoiceRequest struct {
		Accept bool `json:"accept"`
	}
)

// Server -> Client payloads.
type (
	PlayerJoinedEvent struct {
		UserID string `json:"user_id"`
		Seat   int    `json:"seat"`
		Owner  bool   `json:"owner"`
	}

	PlayerLeftEvent struct {
		UserID string `json:"user_id"`
		Seat   int    `json:"seat"`
	}

	MatchStateEvent struct {
		Seats     [4]string `json:"seats"`
		OwnerSeat int       `json:"owner_seat"`
		Started   bool      `json:"started"`
	}

	HandDealtEvent struct {
		RoundNumber int        `json:"round_number"`
		Tiles       []WireTile `json:"tiles"`
	}

	PhaseEventMessage struct {
		Seq    uint64 `json:"seq"`
		Phase  string `json:"phase"`
		Reason string `json:"reason"`
		Data   any    `json:"data"`
	}

	GameErrorEvent struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
)

// Wire forms of the per-phase event payloads. Hands never ride on broadcast
// events; they go out privately as HandDealtEvent.
type (
	WirePlay struct {
		Seat  int        `json:"seat"`
		Tiles []WireTile `json:"tiles"`
		Combo string     `json:"combo"`
	}

	WirePreparation struct {
		RoundNumber  int   `json:"round_number"`
		StarterSeat  int   `json:"starter_seat"`
		Multiplier   int   `json:"multiplier"`
		WeakSeats    []int `json:"weak_seats"`
		PendingSeats []int `json:"pending_seats"`
	}

	WireDeclaration struct {
		RoundNumber  int     `json:"round_number"`
		TurnSeat     int     `json:"turn_seat"`
		MustNonzero  bool    `json:"must_nonzero"`
		Declarations [4]int  `json:"declarations"`
		Declared     [4]bool `json:"declared"`
	}

	WireTurn struct {
		RoundNumber   int        `json:"round_number"`
		TrickStarter  int        `json:"trick_starter"`
		TurnSeat      int        `json:"turn_seat"`
		RequiredCount int        `json:"required_count"`
		Plays         []WirePlay `json:"plays"`
		LastWinner    int        `json:"last_winner"`
		HandSizes     [4]int     `json:"hand_sizes"`
		Declarations  [4]int     `json:"declarations"`
		Captured      [4]int     `json:"captured"`
	}

	WireSeatScore struct {
		Seat     int `json:"seat"`
		Declared int `json:"declared"`
		Captured int `json:"captured"`
		Delta    int `json:"delta"`
		Total    int `json:"total"`
	}

	WireScoring struct {
		RoundNumber int              `json:"round_number"`
		Multiplier  int              `json:"multiplier"`
		Scores      [4]WireSeatScore `json:"scores"`
	}

	WireGameOver struct {
		WinnerSeat int    `json:"winner_seat"`
		Totals     [4]int `json:"totals"`
		Rounds     int    `json:"rounds"`
	}
)

// toWireEvent flattens an engine event into its broadcast form.
func toWireEvent(ev engine.PhaseChangeEvent) PhaseEventMessage {
	msg := PhaseEventMessage{
		Seq:    ev.Seq,
		Phase:  string(ev.Phase),
		Reason: ev.Reason,
	}

	switch data := ev.Data.(type) {
	case engine.PreparationData:
		msg.Data = WirePreparation{
			RoundNumber:  data.RoundNumber,
			StarterSeat:  data.StarterSeat,
			Multiplier:   data.RedealMultiplier,
			WeakSeats:    data.WeakSeats,
			PendingSeats: data.PendingSeats,
		}
	case engine.DeclarationData:
		msg.Data = WireDeclaration{
			RoundNumber:  data.RoundNumber,
			TurnSeat:     data.TurnSeat,
			MustNonzero:  data.MustDeclareNonzero,
			Declarations: data.Declarations,
			Declared:     data.Declared,
		}
	case engine.TurnData:
		wire := WireTurn{
			RoundNumber:   data.RoundNumber,
			TrickStarter:  data.TrickStarter,
			TurnSeat:      data.TurnSeat,
			RequiredCount: data.RequiredCount,
			LastWinner:    data.LastWinner,
			HandSizes:     data.HandSizes,
			Declarations:  data.Declarations,
			Captured:      data.Captured,
		}
		for _, p := range data.Plays {
			wire.Plays = append(wire.Plays, WirePlay{
				Seat:  p.Seat,
				Tiles: toWireTiles(p.Tiles),
				Combo: p.Combo.Type.String(),
			})
		}
		msg.Data = wire
	case engine.ScoringData:
		wire := WireScoring{RoundNumber: data.RoundNumber, Multiplier: data.Multiplier}
		for i, s := range data.Scores {
			wire.Scores[i] = WireSeatScore{
				Seat:     s.Seat,
				Declared: s.Declared,
				Captured: s.Captured,
				Delta:    s.Delta,
				Total:    s.Total,
			}
		}
		msg.Data = wire
	case engine.GameOverData:
		msg.Data = WireGameOver{
			WinnerSeat: data.WinnerSeat,
			Totals:     data.Totals,
			Rounds:     data.Rounds,
		}
	}
	return msg
}
