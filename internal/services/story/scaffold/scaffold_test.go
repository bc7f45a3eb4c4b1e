package scaffold

import (
	"strings"
	"sync"
	"testing"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
	"github.com/louisbranch/pipdeck/internal/services/story/domain"
	"github.com/louisbranch/pipdeck/internal/services/story/seed"
)

func newTestScaffold(t *testing.T, opts ...Option) *Scaffold {
	t.Helper()
	opts = append([]Option{WithLogf(t.Logf)}, opts...)
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("new scaffold: %v", err)
	}
	return s
}

func newSeededScaffold(t *testing.T, opts ...Option) *Scaffold {
	t.Helper()
	s := newTestScaffold(t, opts...)
	result, err := s.LoadData(seed.Text())
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	if result.Rejected != 0 {
		t.Fatalf("seed rejected %d rows", result.Rejected)
	}
	return s
}

// storyFixture is a game with one act and one scene.
type storyFixture struct {
	game  domain.Game
	act   domain.Act
	scene domain.Scene
}

func newStory(t *testing.T, s *Scaffold) storyFixture {
	t.Helper()
	game, err := s.CreateGame(domain.Game{Name: "Alpha", Desc: "test"})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	act, err := s.CreateAct(game.ID, domain.Act{Name: "Act I"})
	if err != nil {
		t.Fatalf("create act: %v", err)
	}
	scene, err := s.CreateScene(act.ID, domain.Scene{Name: "Dock"})
	if err != nil {
		t.Fatalf("create scene: %v", err)
	}
	return storyFixture{game: game, act: act, scene: scene}
}

func premadeSlot(cardID int64, count int) domain.SlotChoice {
	return domain.SlotChoice{Selection: domain.SelectionPremade, CardID: cardID, Count: count}
}

// addOwnedCharacter creates an Active character owned by a fresh player with
// an empty starter inventory.
func addOwnedCharacter(t *testing.T, s *Scaffold, story storyFixture, name string, status domain.CharacterStatus) domain.Character {
	t.Helper()
	player, err := s.CreatePlayer(domain.Player{Name: name + "'s player"})
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	c, err := s.CreateCharacter(story.game.ID, story.scene.ID, domain.NewCharacter{
		Name:     name,
		Status:   status,
		PlayerID: &player.ID,
		Nature:   premadeSlot(0, 0),
		Strength: premadeSlot(0, 0),
		Weakness: premadeSlot(0, 0),
		Subplot:  premadeSlot(0, 0),
	})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	return c
}

func requireCode(t *testing.T, err error, want apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := apperrors.CodeOf(err); got != want {
		t.Fatalf("error code = %s, want %s (err: %v)", got, want, err)
	}
}

func TestSeedRoundTripThroughScaffold(t *testing.T) {
	t.Parallel()

	first := newSeededScaffold(t)
	raw := first.RawData()

	second := newTestScaffold(t)
	if _, err := second.LoadData(raw); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := second.RawData(); got != raw {
		t.Fatalf("round trip changed the data:\n%s\n---\n%s", got, raw)
	}

	for _, table := range []string{TableGames, TableChallenges, TablePlayedCards} {
		if !strings.Contains(raw, table+":") {
			t.Fatalf("raw data missing %s", table)
		}
	}
	wild, err := second.Card(3)
	if err != nil {
		t.Fatalf("card 3: %v", err)
	}
	if !wild.IsWild || wild.DefaultCardTypeID != nil {
		t.Fatalf("wild card = %+v", wild)
	}
}

func TestLoadDataReplacesEverything(t *testing.T) {
	t.Parallel()

	s := newSeededScaffold(t)
	if _, err := s.LoadData("tblPlayers:id|name\n9|Solo"); err != nil {
		t.Fatalf("load: %v", err)
	}
	games, _ := s.Games()
	if len(games) != 0 {
		t.Fatalf("games survived reload: %v", games)
	}
	players, _ := s.Players()
	if len(players) != 1 || players[0].ID != 9 {
		t.Fatalf("players = %v", players)
	}
	if len(s.Tables()) != 12 {
		t.Fatalf("tables = %v", s.Tables())
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	s := newSeededScaffold(t)
	rs, err := s.Search(TableCards, "is_wild = 1")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rs.Rows) != 3 {
		t.Fatalf("wild cards = %d, want 3", len(rs.Rows))
	}
	rs, err = s.Search(TableCharacters, `status = "Active" AND scene_id = 3`)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("characters = %d, want 2", len(rs.Rows))
	}
	_, err = s.Search("tblNope", "")
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = s.Search(TableCards, "bogus = 1")
	requireCode(t, err, apperrors.CodeInvalidArgument)
}

func TestSessionSerializesAccess(t *testing.T) {
	t.Parallel()

	session := NewSession(newSeededScaffold(t))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = session.Update(func(s *Scaffold) error {
				_, err := s.LoadData(seed.Text())
				return err
			})
		}()
		go func() {
			defer wg.Done()
			_ = session.View(func(s *Scaffold) error {
				games, err := s.Games()
				if err != nil {
					return err
				}
				if len(games) != 2 {
					t.Errorf("observed partial reload: %d games", len(games))
				}
				return nil
			})
		}()
	}
	wg.Wait()
}
