package scaffold

import (
	"errors"

	"github.com/louisbranch/pipdeck/internal/services/story/domain"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/crud"
)

const (
	// PipsPerCharacter is the budget each qualifying character adds to a scene.
	PipsPerCharacter = 3
	// MaxChallengePips caps the pips of a single challenge.
	MaxChallengePips = 9
)

// PipBudget computes the maximum pips of a scene.
type PipBudget func(s *Scaffold, sceneID int64) (int, error)

// ActiveOwnedCharacters grants PipsPerCharacter for every Active character in
// the scene that is owned by an existing player.
func ActiveOwnedCharacters(s *Scaffold, sceneID int64) (int, error) {
	characters, err := s.Characters(sceneID)
	if err != nil {
		return 0, err
	}
	qualifying := 0
	for _, c := range characters {
		if c.Status != domain.StatusActive {
			continue
		}
		_, owned, err := s.OwnerOf(c.ID)
		if err != nil {
			return 0, err
		}
		if owned {
			qualifying++
		}
	}
	return PipsPerCharacter * qualifying, nil
}

// PlayersInGame grants PipsPerCharacter for every player owning a character
// anywhere in the scene's game, regardless of status or location.
func PlayersInGame(s *Scaffold, sceneID int64) (int, error) {
	scene, err := s.Scene(sceneID)
	if errors.Is(err, crud.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	act, err := s.Act(scene.ActID)
	if errors.Is(err, crud.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	players, err := s.PlayersByGame(act.GameID)
	if err != nil {
		return 0, err
	}
	return PipsPerCharacter * len(players), nil
}

// SceneMaxPips returns the pip budget of a scene. Unknown scenes have none.
func (s *Scaffold) SceneMaxPips(sceneID int64) (int, error) {
	return s.budget(s, sceneID)
}

// ScenePipsUsed sums the pips of every challenge in a scene.
func (s *Scaffold) ScenePipsUsed(sceneID int64) (int, error) {
	challenges, err := s.Challenges(sceneID)
	if err != nil {
		return 0, err
	}
	used := 0
	for _, c := range challenges {
		pips, err := s.PipsForChallenge(c.ID)
		if err != nil {
			return 0, err
		}
		used += pips
	}
	return used, nil
}

// SceneBudget returns the maximum and used pips of a scene.
func (s *Scaffold) SceneBudget(sceneID int64) (domain.SceneBudget, error) {
	maxPips, err := s.SceneMaxPips(sceneID)
	if err != nil {
		return domain.SceneBudget{}, err
	}
	used, err := s.ScenePipsUsed(sceneID)
	if err != nil {
		return domain.SceneBudget{}, err
	}
	return domain.SceneBudget{SceneID: sceneID, Max: maxPips, Used: used}, nil
}

// validatePips checks that a challenge in sceneID may move from oldPips to
// newPips. oldPips is zero for a new challenge.
func (s *Scaffold) validatePips(sceneID int64, newPips, oldPips int) error {
	if newPips < 0 {
		return invalidArgument(colPips, newPips)
	}
	maxPips, err := s.SceneMaxPips(sceneID)
	if err != nil {
		return err
	}
	used, err := s.ScenePipsUsed(sceneID)
	if err != nil {
		return err
	}
	others := used - oldPips
	available := maxPips - others
	if others+newPips > maxPips {
		return sceneBudgetExceeded(available, newPips, maxPips)
	}
	if capPips := min(MaxChallengePips, maxPips); newPips > capPips {
		return challengeCapExceeded(available, newPips, capPips)
	}
	return nil
}
