package models

// PlayerScore is a player's entry in the game read view.
type PlayerScore struct {
	PlayerID    string     `json:"player_id"`
	PlayerName  string     `json:"player_name"`
	Rolls       [][]string `json:"rolls"`
	FrameScores []int      `json:"frame_scores"`
}

// GameView is what callers see of a game.
type GameView struct {
	ID              string        `json:"id"`
	Players         []PlayerScore `json:"players"`
	CurrentFrame    int           `json:"current_frame"`
	CurrentPlayerID string        `json:"current_player_id,omitempty"`
	Status          GameState     `json:"status"`
}

// NewGameView joins the game with player names looked up by id.
func NewGameView(g *Game, names map[string]string) *GameView {
	view := &GameView{
		ID:              g.ID,
		Players:         make([]PlayerScore, len(g.Players)),
		CurrentFrame:    g.CurrentFrame,
		CurrentPlayerID: g.CurrentPlayerID,
		Status:          g.State,
	}
	for i, player := range g.Players {
		c := player.Clone()
		view.Players[i] = PlayerScore{
			PlayerID:    c.PlayerID,
			PlayerName:  names[c.PlayerID],
			Rolls:       c.Rolls,
			FrameScores: c.FrameScores,
		}
	}
	return view
}
