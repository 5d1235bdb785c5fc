package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bowling-game/internal/ids"
	"bowling-game/internal/logging"
	"bowling-game/internal/models"
	"bowling-game/internal/repository"
	"bowling-game/internal/scoring"
)

// PlayerRegistry resolves player names for the games that reference them.
type PlayerRegistry interface {
	CreatePlayer(ctx context.Context, name string) (*models.Player, error)
	GetPlayers(ctx context.Context, playerIDs []string) ([]*models.Player, error)
}

// Notifier receives an event after every committed mutation.
type Notifier interface {
	Publish(ctx context.Context, event models.GameEvent)
}

// GameService is the only writer of games. Every mutation runs
// load, validate, mutate and save while holding the game's lock.
type GameService struct {
	repo     repository.GameRepository
	players  PlayerRegistry
	notifier Notifier
	ids      ids.Generator
	locks    *gameLocks
	now      func() time.Time
}

// NewGameService wires the state machine. notifier may be nil.
func NewGameService(repo repository.GameRepository, players PlayerRegistry, notifier Notifier, gen ids.Generator) *GameService {
	return &GameService{
		repo:     repo,
		players:  players,
		notifier: notifier,
		ids:      gen,
		locks:    newGameLocks(),
		now:      time.Now,
	}
}

func (gs *GameService) CreateGame(ctx context.Context) (*models.GameView, error) {
	game := models.NewGame(gs.ids.NewID(), gs.now())
	if err := gs.repo.SaveGame(ctx, game); err != nil {
		return nil, fmt.Errorf("saving game %s: %w", game.ID, err)
	}

	logging.FromContext(ctx).Infow("game created", "game_id", game.ID)
	return gs.commit(ctx, game)
}

func (gs *GameService) AddPlayer(ctx context.Context, gameID, playerName string) (*models.GameView, error) {
	unlock := gs.locks.lock(gameID)
	defer unlock()

	game, err := gs.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State != models.Waiting {
		return nil, newGameError(ErrInvalidState, gameID, "Cannot add players. Game is already in progress.")
	}
	if game.IsFull() {
		return nil, newGameError(ErrCapacityExceeded, gameID,
			fmt.Sprintf("Cannot add more players. Maximum limit (%d) reached.", models.MaxPlayers))
	}

	player, err := gs.players.CreatePlayer(ctx, playerName)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx).With("game_id", gameID)
	now := gs.now()
	game.AddPlayer(player.ID)
	game.UpdatedAt = now
	logger.Infow("player added", "player_id", player.ID, "players", len(game.Players))

	if game.IsFull() {
		game.StartGame(now)
		logger.Infow("game started", "reason", "roster full", "current_player_id", game.CurrentPlayerID)
	}

	if err := gs.repo.SaveGame(ctx, game); err != nil {
		return nil, fmt.Errorf("saving game %s: %w", gameID, err)
	}
	return gs.commit(ctx, game)
}

func (gs *GameService) StartGame(ctx context.Context, gameID string) (*models.GameView, error) {
	unlock := gs.locks.lock(gameID)
	defer unlock()

	game, err := gs.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State != models.Waiting {
		return nil, newGameError(ErrInvalidState, gameID,
			fmt.Sprintf("Cannot start game. Status must be %q.", "WAITING"))
	}
	if len(game.Players) < models.MinPlayers {
		return nil, newGameError(ErrInsufficientPlayers, gameID,
			fmt.Sprintf("Cannot start the game. At least %d players are required.", models.MinPlayers))
	}

	now := gs.now()
	game.StartGame(now)
	game.UpdatedAt = now
	if err := gs.repo.SaveGame(ctx, game); err != nil {
		return nil, fmt.Errorf("saving game %s: %w", gameID, err)
	}

	logging.FromContext(ctx).Infow("game started", "game_id", gameID, "current_player_id", game.CurrentPlayerID)
	return gs.commit(ctx, game)
}

func (gs *GameService) GetGame(ctx context.Context, gameID string) (*models.GameView, error) {
	game, err := gs.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return gs.view(ctx, game)
}

// ListGames returns games in creation order. An empty state lists all games.
func (gs *GameService) ListGames(ctx context.Context, state models.GameState) ([]*models.GameView, error) {
	if state != "" && !state.Valid() {
		return nil, newGameError(ErrInvalidArgument, "", fmt.Sprintf("Unknown game status %q.", state))
	}

	games, err := gs.repo.ListGames(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}

	views := make([]*models.GameView, 0, len(games))
	for _, game := range games {
		view, err := gs.view(ctx, game)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// AddRollScores records rolls for the player whose turn it is. The rolls
// start the current frame or, when the player left it open, extend it. The
// player's whole history is rescored and the turn passes once the frame is
// complete.
func (gs *GameService) AddRollScores(ctx context.Context, gameID, playerID string, rolls []string) (*models.GameView, error) {
	unlock := gs.locks.lock(gameID)
	defer unlock()

	game, err := gs.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State != models.InProgress {
		return nil, newGameError(ErrInvalidState, gameID, "Cannot add scores. Game is not in progress.")
	}
	if playerID != game.CurrentPlayerID {
		return nil, newGameError(ErrInvalidTurn, gameID,
			fmt.Sprintf("Cannot add scores. It is not the turn of player %s.", playerID))
	}
	if err := scoring.CheckTokens(rolls); err != nil {
		return nil, wrapScoringError(gameID, err)
	}

	player := game.GetPlayer(playerID)
	if player == nil {
		return nil, newGameError(ErrPlayerNotInGame, gameID,
			fmt.Sprintf("Player with ID %s is not in game %q.", playerID, gameID))
	}

	index := game.CurrentFrame - 1
	if len(rolls) == 0 {
		return nil, wrapScoringError(gameID, &scoring.FrameError{
			Index:  index,
			Frame:  rolls,
			Reason: "A frame must contain at least one roll.",
		})
	}

	history := player.Clone().Rolls
	if len(history) > index {
		history[index] = append(history[index], rolls...)
	} else {
		history = append(history, append([]string(nil), rolls...))
	}

	frames, err := scoring.ParseFrames(history)
	if err != nil {
		return nil, wrapScoringError(gameID, err)
	}

	logger := logging.FromContext(ctx).With("game_id", gameID, "player_id", playerID)
	now := gs.now()
	player.Rolls = history
	player.FrameScores = scoring.ComputeFrameScores(frames)
	game.UpdatedAt = now
	logger.Debugw("rolls recorded", "frame", game.CurrentFrame, "rolls", history[index], "scores", player.FrameScores)

	if frames[index].Complete(game.CurrentFrame == models.FrameCount) {
		game.NextTurn(now)
		if game.State == models.Finished {
			logger.Infow("game finished", "scores", finalScores(game))
		} else {
			logger.Debugw("turn advanced", "frame", game.CurrentFrame, "current_player_id", game.CurrentPlayerID)
		}
	}

	if err := gs.repo.SaveGame(ctx, game); err != nil {
		return nil, fmt.Errorf("saving game %s: %w", gameID, err)
	}
	return gs.commit(ctx, game)
}

func (gs *GameService) load(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := gs.repo.GetGame(ctx, gameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, newGameError(ErrNotFound, gameID, fmt.Sprintf("Game with ID %q not found.", gameID))
	}
	if err != nil {
		return nil, fmt.Errorf("loading game %s: %w", gameID, err)
	}
	return game, nil
}

func (gs *GameService) view(ctx context.Context, game *models.Game) (*models.GameView, error) {
	players, err := gs.players.GetPlayers(ctx, game.PlayerIDs())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return models.NewGameView(game, names), nil
}

// commit builds the read view of a saved game and notifies subscribers.
func (gs *GameService) commit(ctx context.Context, game *models.Game) (*models.GameView, error) {
	view, err := gs.view(ctx, game)
	if err != nil {
		return nil, err
	}
	if gs.notifier != nil {
		gs.notifier.Publish(ctx, models.GameEvent{
			Type:      models.EventGameUpdated,
			GameID:    game.ID,
			Data:      view,
			Timestamp: game.UpdatedAt,
		})
	}
	return view, nil
}

func wrapScoringError(gameID string, err error) error {
	return &GameError{Err: err, GameID: gameID, Message: err.Error()}
}

func finalScores(game *models.Game) map[string]int {
	scores := make(map[string]int, len(game.Players))
	for _, p := range game.Players {
		if n := len(p.FrameScores); n > 0 {
			scores[p.PlayerID] = p.FrameScores[n-1]
		}
	}
	return scores
}
