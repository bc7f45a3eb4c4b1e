package scaffold

import (
	"errors"

	"github.com/louisbranch/pipdeck/internal/services/story/storage/crud"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/memdb"
)

// DeleteGame deletes a game after its acts and characters.
func (s *Scaffold) DeleteGame(id int64) error {
	acts, err := s.Acts(id)
	if err != nil {
		return err
	}
	for _, act := range acts {
		if err := s.DeleteAct(act.ID); err != nil {
			return err
		}
	}
	characters, err := s.CharactersByGame(id)
	if err != nil {
		return err
	}
	for _, c := range characters {
		if err := s.DeleteCharacter(c.ID); err != nil {
			return err
		}
	}
	return s.games.Delete(id)
}

// DeleteAct deletes an act after its scenes.
func (s *Scaffold) DeleteAct(id int64) error {
	scenes, err := s.Scenes(id)
	if err != nil {
		return err
	}
	for _, scene := range scenes {
		if err := s.DeleteScene(scene.ID); err != nil {
			return err
		}
	}
	return s.acts.Delete(id)
}

// DeleteScene deletes a scene after its characters and challenges.
func (s *Scaffold) DeleteScene(id int64) error {
	characters, err := s.Characters(id)
	if err != nil {
		return err
	}
	for _, c := range characters {
		if err := s.DeleteCharacter(c.ID); err != nil {
			return err
		}
	}
	challenges, err := s.Challenges(id)
	if err != nil {
		return err
	}
	for _, c := range challenges {
		if err := s.DeleteChallenge(c.ID); err != nil {
			return err
		}
	}
	return s.scenes.Delete(id)
}

// DeletePlayer deletes a player and its ownership links. Characters stay.
func (s *Scaffold) DeletePlayer(id int64) error {
	if err := s.deleteWhere(s.ownerships.Table(), byID(colPlayerID, id)); err != nil {
		return err
	}
	return s.players.Delete(id)
}

// DeleteCharacter deletes a character after its inventory, the plays spent
// from that inventory, and its ownership links.
func (s *Scaffold) DeleteCharacter(id int64) error {
	lines, err := s.characterCards.ReadAll(byID(colCharacterID, id))
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := s.deleteWhere(s.played.Table(), byID(colCharacterCardID, line.ID)); err != nil {
			return err
		}
		if err := s.characterCards.Delete(line.ID); err != nil {
			return err
		}
	}
	if err := s.deleteWhere(s.ownerships.Table(), byID(colCharacterID, id)); err != nil {
		return err
	}
	return s.characters.Delete(id)
}

// DeleteChallenge deletes a challenge after its pips and played cards.
// Played cards are discarded without restoring inventory counts.
func (s *Scaffold) DeleteChallenge(id int64) error {
	if err := s.deleteWhere(s.pips.Table(), byID(colChallengeID, id)); err != nil {
		return err
	}
	if err := s.deleteWhere(s.played.Table(), byID(colChallengeID, id)); err != nil {
		return err
	}
	return s.challenges.Delete(id)
}

// DeleteCard deletes a catalog card. It fails while any character holds it.
func (s *Scaffold) DeleteCard(id int64) error {
	lines, err := s.characterCards.ReadAll(byID(colCardID, id))
	if err != nil {
		return err
	}
	if len(lines) > 0 {
		holders := map[int64]bool{}
		for _, line := range lines {
			holders[line.CharacterID] = true
		}
		return cardInUse(len(holders))
	}
	return s.cards.Delete(id)
}

// RemoveCardFromCharacter deletes an inventory line. It fails while the line
// has plays on any challenge.
func (s *Scaffold) RemoveCardFromCharacter(id int64) error {
	if plays := s.played.Count(byID(colCharacterCardID, id)); plays > 0 {
		return characterCardPlayed(plays)
	}
	return s.characterCards.Delete(id)
}

// RemoveCardFromChallenge undoes a play, restoring one use to the inventory
// line when it still exists. A missing play is a no-op.
func (s *Scaffold) RemoveCardFromChallenge(playedCardID int64) error {
	play, err := s.played.Get(playedCardID)
	if errors.Is(err, crud.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	line, err := s.characterCards.Get(play.CharacterCardID)
	switch {
	case err == nil:
		restored := line.Count + 1
		if err := s.characterCards.Update(line.ID, memdb.Fields{colCount: memdb.Int(int64(restored))}); err != nil {
			return err
		}
	case !errors.Is(err, crud.ErrNotFound):
		return err
	}
	return s.played.Delete(playedCardID)
}

func (s *Scaffold) deleteWhere(table *memdb.Table, filter memdb.Fields) error {
	for _, row := range table.Find(filter) {
		if err := s.db.Delete(table.Name(), row.ID()); err != nil {
			return err
		}
	}
	return nil
}
