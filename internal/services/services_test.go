package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bowling-game/internal/ids"
	"bowling-game/internal/models"
	"bowling-game/internal/repository"
)

var testNow = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.GameEvent
}

func (r *recordingNotifier) Publish(ctx context.Context, event models.GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type testEnv struct {
	repo     *repository.InMemoryRepository
	players  *PlayerService
	games    *GameService
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := repository.NewInMemoryRepository()
	players := NewPlayerService(repo, ids.NewSequence("player"))
	players.now = func() time.Time { return testNow }
	notifier := &recordingNotifier{}
	games := NewGameService(repo, players, notifier, ids.NewSequence("game"))
	games.now = func() time.Time { return testNow }
	return &testEnv{repo: repo, players: players, games: games, notifier: notifier}
}

// newStartedGame creates a game with the named players and starts it.
func (e *testEnv) newStartedGame(t *testing.T, names ...string) *models.GameView {
	t.Helper()
	ctx := context.Background()
	game, err := e.games.CreateGame(ctx)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	for _, name := range names {
		if _, err := e.games.AddPlayer(ctx, game.ID, name); err != nil {
			t.Fatalf("add player %s: %v", name, err)
		}
	}
	view, err := e.games.StartGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	return view
}

func (e *testEnv) roll(t *testing.T, gameID, playerID string, rolls ...string) *models.GameView {
	t.Helper()
	view, err := e.games.AddRollScores(context.Background(), gameID, playerID, rolls)
	if err != nil {
		t.Fatalf("add rolls %v for %s: %v", rolls, playerID, err)
	}
	return view
}

func assertGameError(t *testing.T, err, kind error, message string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("wanted %v, got %v", kind, err)
	}
	var gameErr *GameError
	if !errors.As(err, &gameErr) {
		t.Fatalf("wanted *GameError, got %T", err)
	}
	if message != "" && gameErr.Message != message {
		t.Errorf("wanted message %q, got %q", message, gameErr.Message)
	}
}
