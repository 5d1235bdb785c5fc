package models

import (
	"time"

	"bowling-game/internal/scoring"
)

const (
	MinPlayers = 2
	MaxPlayers = 5
	FrameCount = scoring.FrameCount
)

type GameState string

const (
	Waiting    GameState = "waiting"
	InProgress GameState = "in_progress"
	Finished   GameState = "finished"
)

func (s GameState) Valid() bool {
	switch s {
	case Waiting, InProgress, Finished:
		return true
	}
	return false
}

type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerRolls is one player's roll history within a game. FrameScores is
// parallel to Rolls and holds running totals.
type PlayerRolls struct {
	PlayerID    string     `json:"player_id"`
	Rolls       [][]string `json:"rolls"`
	FrameScores []int      `json:"frame_scores"`
}

type Game struct {
	ID              string         `json:"id"`
	Players         []*PlayerRolls `json:"players"`
	CurrentFrame    int            `json:"current_frame"`
	CurrentPlayerID string         `json:"current_player_id,omitempty"`
	State           GameState      `json:"state"`
	CreatedAt       time.Time      `json:"created_at"`
	StartedAt       *time.Time     `json:"started_at,omitempty"`
	FinishedAt      *time.Time     `json:"finished_at,omitempty"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

const (
	EventGameSnapshot = "game_snapshot"
	EventGameUpdated  = "game_updated"
)

// GameEvent is pushed to subscribers of a game. Data carries a GameView.
type GameEvent struct {
	Type      string      `json:"type"`
	GameID    string      `json:"game_id"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewGame(id string, now time.Time) *Game {
	return &Game{
		ID:           id,
		Players:      make([]*PlayerRolls, 0, MaxPlayers),
		CurrentFrame: 1,
		State:        Waiting,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (g *Game) AddPlayer(playerID string) *PlayerRolls {
	player := &PlayerRolls{
		PlayerID:    playerID,
		Rolls:       [][]string{},
		FrameScores: []int{},
	}
	g.Players = append(g.Players, player)
	return player
}

func (g *Game) GetPlayer(playerID string) *PlayerRolls {
	for _, player := range g.Players {
		if player.PlayerID == playerID {
			return player
		}
	}
	return nil
}

func (g *Game) PlayerIDs() []string {
	ids := make([]string, len(g.Players))
	for i, player := range g.Players {
		ids[i] = player.PlayerID
	}
	return ids
}

func (g *Game) IsFull() bool {
	return len(g.Players) >= MaxPlayers
}

func (g *Game) StartGame(now time.Time) {
	g.State = InProgress
	g.CurrentFrame = 1
	g.CurrentPlayerID = g.Players[0].PlayerID
	g.StartedAt = &now
}

// NextTurn passes the turn to the next player in roster order. Wrapping back
// to the first player moves to the next frame, and moving past the last frame
// finishes the game.
func (g *Game) NextTurn(now time.Time) {
	next := 0
	for i, player := range g.Players {
		if player.PlayerID == g.CurrentPlayerID {
			next = (i + 1) % len(g.Players)
			break
		}
	}

	if next == 0 {
		if g.CurrentFrame == FrameCount {
			g.State = Finished
			g.CurrentPlayerID = ""
			g.FinishedAt = &now
			return
		}
		g.CurrentFrame++
	}
	g.CurrentPlayerID = g.Players[next].PlayerID
}

// Clone returns a deep copy so stored snapshots never alias live state.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make([]*PlayerRolls, len(g.Players))
	for i, player := range g.Players {
		c.Players[i] = player.Clone()
	}
	if g.StartedAt != nil {
		t := *g.StartedAt
		c.StartedAt = &t
	}
	if g.FinishedAt != nil {
		t := *g.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}

func (p *PlayerRolls) Clone() *PlayerRolls {
	c := &PlayerRolls{
		PlayerID:    p.PlayerID,
		Rolls:       make([][]string, len(p.Rolls)),
		FrameScores: make([]int, len(p.FrameScores)),
	}
	for i, frame := range p.Rolls {
		c.Rolls[i] = append([]string(nil), frame...)
	}
	copy(c.FrameScores, p.FrameScores)
	return c
}
