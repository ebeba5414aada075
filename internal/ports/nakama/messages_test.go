package nakama

import (
	"reflect"
	"testing"

	"liap/internal/domain"
	"liap/internal/engine"
)

func TestWireTileRoundTrip(t *testing.T) {
	tiles := []domain.Tile{
		{Kind: domain.Fish, Color: domain.Red},
		{Kind: domain.Dragon, Color: domain.Black},
	}

	got, err := fromWireTiles(toWireTiles(tiles))
	if err != nil {
		t.Fatalf("fromWireTiles: %v", err)
	}
	if !reflect.DeepEqual(got, tiles) {
		t.Errorf("round trip = %v, want %v", got, tiles)
	}
}

func TestFromWireTilesRejectsGarbage(t *testing.T) {
	if _, err := fromWireTiles([]WireTile{{Kind: "Kraken", Color: "R"}}); err == nil {
		t.Error("unknown kind must be rejected")
	}
	if _, err := fromWireTiles([]WireTile{{Kind: "Fish", Color: "Z"}}); err == nil {
		t.Error("unknown color must be rejected")
	}
}

func TestToWireEventTurnData(t *testing.T) {
	play := domain.TurnPlay{
		Seat:  2,
		Tiles: []domain.Tile{{Kind: domain.Crane, Color: domain.Red}},
		Combo: domain.IdentifyCombo([]domain.Tile{{Kind: domain.Crane, Color: domain.Red}}),
	}
	ev := engine.PhaseChangeEvent{
		Seq:    7,
		Phase:  domain.PhaseTurn,
		Reason: "tiles_played",
		Data: engine.TurnData{
			RoundNumber:   1,
			TurnSeat:      3,
			RequiredCount: 1,
			Plays:         []domain.TurnPlay{play},
		},
	}

	msg := toWireEvent(ev)
	if msg.Seq != 7 || msg.Phase != string(domain.PhaseTurn) || msg.Reason != "tiles_played" {
		t.Fatalf("envelope = %+v", msg)
	}
	wire, ok := msg.Data.(WireTurn)
	if !ok {
		t.Fatalf("data type = %T, want WireTurn", msg.Data)
	}
	if wire.TurnSeat != 3 || wire.RequiredCount != 1 {
		t.Errorf("turn payload = %+v", wire)
	}
	if len(wire.Plays) != 1 || wire.Plays[0].Combo != "single" || wire.Plays[0].Tiles[0].Kind != "Crane" {
		t.Errorf("plays = %+v", wire.Plays)
	}
}

func TestToWireEventGameOver(t *testing.T) {
	ev := engine.PhaseChangeEvent{
		Seq:    99,
		Phase:  domain.PhaseGameOver,
		Reason: "game_over",
		Data:   engine.GameOverData{WinnerSeat: 1, Totals: [4]int{10, 55, -3, 0}, Rounds: 6},
	}

	wire, ok := toWireEvent(ev).Data.(WireGameOver)
	if !ok {
		t.Fatalf("data type = %T, want WireGameOver", toWireEvent(ev).Data)
	}
	if wire.WinnerSeat != 1 || wire.Rounds != 6 || wire.Totals[1] != 55 {
		t.Errorf("game over payload = %+v", wire)
	}
}
