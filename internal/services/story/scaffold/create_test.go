package scaffold

import (
	"testing"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
	"github.com/louisbranch/pipdeck/internal/services/story/domain"
)

func TestCreateCharacterBuildsStarterInventory(t *testing.T) {
	t.Parallel()

	s := newSeededScaffold(t)
	player := int64(1)
	c, err := s.CreateCharacter(1, 1, domain.NewCharacter{
		Name:     "Mabel",
		Status:   domain.StatusActive,
		PlayerID: &player,
		Nature:   premadeSlot(8, 2),
		Strength: domain.SlotChoice{Selection: domain.SelectionCustom, Name: "Iron Grip", Desc: "Never lets go.", Count: 2},
		Weakness: premadeSlot(2, 1),
		Subplot:  premadeSlot(11, 3),
	})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}

	owner, owned, _ := s.OwnerOf(c.ID)
	if !owned || owner.ID != 1 {
		t.Fatalf("owner = %+v, %v", owner, owned)
	}

	custom, err := s.CardByName("Iron Grip")
	if err != nil {
		t.Fatalf("custom card: %v", err)
	}
	strength, _ := s.CardTypeByName(domain.CardTypeStrength)
	if custom.DefaultCardTypeID == nil || *custom.DefaultCardTypeID != strength.ID || custom.IsWild {
		t.Fatalf("custom card = %+v", custom)
	}

	inventory, err := s.CardsForCharacter(c.ID)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	want := map[string]int{
		"Defining Nature":              2,
		"Iron Grip":                    2,
		"Shadowy Past":                 1,
		"Unfolding Subplot":            3,
		domain.CardUnnamedWildStrength: 2,
		domain.CardUnnamedWildWeakness: 2,
	}
	if len(inventory) != len(want) {
		t.Fatalf("inventory = %d lines, want %d: %+v", len(inventory), len(want), inventory)
	}
	for _, line := range inventory {
		if want[line.Card.Name] != line.Count {
			t.Errorf("%s count = %d, want %d", line.Card.Name, line.Count, want[line.Card.Name])
		}
	}
	for _, line := range inventory {
		if line.Card.Name == domain.CardUnnamedWildStrength && line.CardType.Name != domain.CardTypeWildStr {
			t.Fatalf("wild strength type = %s", line.CardType.Name)
		}
	}
}

func TestCreateCharacterSkipsUnresolvedWilds(t *testing.T) {
	t.Parallel()

	s := newTestScaffold(t)
	story := newStory(t, s)
	c := addOwnedCharacter(t, s, story, "Vivian", domain.StatusActive)
	if n := s.characterCards.Count(byID(colCharacterID, c.ID)); n != 0 {
		t.Fatalf("inventory lines = %d, want 0 without card types", n)
	}
}

func TestCreateCharacterValidatesBeforeWriting(t *testing.T) {
	t.Parallel()

	s := newTestScaffold(t)
	story := newStory(t, s)

	_, err := s.CreateCharacter(story.game.ID, story.scene.ID, domain.NewCharacter{Name: "X", Status: "Asleep"})
	requireCode(t, err, apperrors.CodeInvalidArgument)

	_, err = s.CreateCharacter(story.game.ID, story.scene.ID, domain.NewCharacter{
		Name:     "X",
		Status:   domain.StatusActive,
		Nature:   domain.SlotChoice{Selection: "borrowed"},
		Strength: premadeSlot(0, 0),
		Weakness: premadeSlot(0, 0),
		Subplot:  premadeSlot(0, 0),
	})
	requireCode(t, err, apperrors.CodeInvalidArgument)
	if got := apperrors.MetadataOf(err)["Field"]; got != "nature_selection" {
		t.Fatalf("field = %s", got)
	}

	if n := s.characters.Count(nil); n != 0 {
		t.Fatalf("characters = %d, want 0", n)
	}
}

func TestReadsOmitUnresolvedRows(t *testing.T) {
	t.Parallel()

	s := newSeededScaffold(t)
	// Character card 1 references card 1; removing the card row directly
	// leaves the line and its play dangling.
	if err := s.cards.Delete(1); err != nil {
		t.Fatalf("delete card row: %v", err)
	}
	inventory, _ := s.CardsForCharacter(1)
	if len(inventory) != 1 {
		t.Fatalf("inventory = %d lines, want 1", len(inventory))
	}
	plays, _ := s.PlayedCardsForChallenge(1)
	if len(plays) != 0 {
		t.Fatalf("plays = %d, want 0", len(plays))
	}
	// Challenge 2 uses card 13, challenge 1 uses card 12; both remain.
	details, _ := s.ChallengeDetails(1)
	if len(details) != 2 {
		t.Fatalf("details = %d, want 2", len(details))
	}
	if details[0].Pips != 3 || details[0].PlayedCount != 1 {
		t.Fatalf("detail = %+v", details[0])
	}
}

func TestSeedLookups(t *testing.T) {
	t.Parallel()

	s := newSeededScaffold(t)
	players, err := s.PlayersByGame(2)
	if err != nil {
		t.Fatalf("players by game: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("players = %v", players)
	}
	if _, err := s.CardTypeByName("Nope"); apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("missing card type err = %v", err)
	}
	budget, err := s.SceneBudget(3)
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if budget.Max != 6 || budget.Used != 6 || budget.Available() != 0 {
		t.Fatalf("budget = %+v", budget)
	}
	acts, _ := s.Acts(1)
	scenes, _ := s.Scenes(acts[0].ID)
	if len(acts) != 2 || len(scenes) != 1 || scenes[0].Name != "The Emerald Room" {
		t.Fatalf("acts = %v scenes = %v", acts, scenes)
	}
}
