package scaffold

import (
	"errors"

	"github.com/louisbranch/pipdeck/internal/services/story/domain"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/crud"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/memdb"
)

// UpdateGame applies a partial game update. A missing game is a no-op.
func (s *Scaffold) UpdateGame(id int64, changes domain.GameChanges) error {
	fields := memdb.Fields{}
	putText(fields, colName, changes.Name)
	putText(fields, "desc", changes.Desc)
	return s.games.Update(id, fields)
}

// UpdateAct applies a partial act update. A missing act is a no-op.
func (s *Scaffold) UpdateAct(id int64, changes domain.ActChanges) error {
	fields := memdb.Fields{}
	putText(fields, colName, changes.Name)
	putText(fields, "desc", changes.Desc)
	putInt(fields, colGameID, changes.GameID)
	return s.acts.Update(id, fields)
}

// UpdateScene applies a partial scene update. A missing scene is a no-op.
func (s *Scaffold) UpdateScene(id int64, changes domain.SceneChanges) error {
	fields := memdb.Fields{}
	putText(fields, colName, changes.Name)
	putText(fields, "desc", changes.Desc)
	putInt(fields, "place_card_id", changes.PlaceCardID)
	if changes.ClearPlaceCard {
		fields["place_card_id"] = memdb.Null()
	}
	putInt(fields, colActID, changes.ActID)
	return s.scenes.Update(id, fields)
}

// UpdatePlayer applies a partial player update. A missing player is a no-op.
func (s *Scaffold) UpdatePlayer(id int64, changes domain.PlayerChanges) error {
	fields := memdb.Fields{}
	putText(fields, colName, changes.Name)
	return s.players.Update(id, fields)
}

// UpdateCharacter applies a partial character update. A missing character
// is a no-op.
func (s *Scaffold) UpdateCharacter(id int64, changes domain.CharacterChanges) error {
	fields := memdb.Fields{}
	if changes.Status != nil {
		status, ok := domain.NormalizeStatus(string(*changes.Status))
		if !ok {
			return invalidArgument("status", *changes.Status)
		}
		putText(fields, "status", &status)
	}
	putText(fields, colName, changes.Name)
	putInt(fields, colSceneID, changes.SceneID)
	putInt(fields, colGameID, changes.GameID)
	return s.characters.Update(id, fields)
}

// UpdateCard applies a partial catalog card update. A missing card is a
// no-op.
func (s *Scaffold) UpdateCard(id int64, changes domain.CardChanges) error {
	fields := memdb.Fields{}
	putText(fields, colName, changes.Name)
	putText(fields, "desc", changes.Desc)
	if changes.IsWild != nil {
		fields["is_wild"] = memdb.Bool(*changes.IsWild)
	}
	putInt(fields, "default_card_type_id", changes.DefaultCardTypeID)
	if changes.ClearDefaultCardType {
		fields["default_card_type_id"] = memdb.Null()
	}
	return s.cards.Update(id, fields)
}

// UpdateCharacterCard applies a partial inventory-line update. When the new
// card and type collide with another line of the same character, the count
// is folded into that line, plays move with it, and this line is deleted.
// A missing line is a no-op.
func (s *Scaffold) UpdateCharacterCard(id int64, changes domain.CharacterCardChanges) error {
	if changes.Count != nil && *changes.Count < 0 {
		return invalidArgument(colCount, *changes.Count)
	}
	line, err := s.characterCards.Get(id)
	if errors.Is(err, crud.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	cardID, cardTypeID, count := line.CardID, line.CardTypeID, line.Count
	if changes.CardID != nil {
		cardID = *changes.CardID
	}
	if changes.CardTypeID != nil {
		cardTypeID = *changes.CardTypeID
	}
	if changes.Count != nil {
		count = *changes.Count
	}

	target, collides, err := s.lineFor(line.CharacterID, cardID, cardTypeID, id)
	if err != nil {
		return err
	}
	if !collides {
		fields := memdb.Fields{}
		putInt(fields, colCardID, changes.CardID)
		putInt(fields, colCardTypeID, changes.CardTypeID)
		putInt(fields, colCount, changes.Count)
		return s.characterCards.Update(id, fields)
	}

	total := target.Count + count
	if err := s.characterCards.Update(target.ID, memdb.Fields{colCount: memdb.Int(int64(total))}); err != nil {
		return err
	}
	plays, err := s.played.ReadAll(byID(colCharacterCardID, id))
	if err != nil {
		return err
	}
	for _, play := range plays {
		if err := s.played.Update(play.ID, byID(colCharacterCardID, target.ID)); err != nil {
			return err
		}
	}
	return s.characterCards.Delete(id)
}

// UpdateCharacterOwnership assigns a character to a player, or clears its
// owner when playerID is nil.
func (s *Scaffold) UpdateCharacterOwnership(characterID int64, playerID *int64) error {
	links, err := s.ownerships.ReadAll(byID(colCharacterID, characterID))
	if err != nil {
		return err
	}
	if playerID == nil {
		for _, link := range links {
			if err := s.ownerships.Delete(link.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if len(links) == 0 {
		_, err := s.ownerships.Create(domain.Ownership{PlayerID: *playerID, CharacterID: characterID})
		return err
	}
	if err := s.ownerships.Update(links[0].ID, byID(colPlayerID, *playerID)); err != nil {
		return err
	}
	for _, extra := range links[1:] {
		if err := s.ownerships.Delete(extra.ID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateChallenge applies a partial challenge update. A pip change is
// checked against the scene budget before anything is written.
func (s *Scaffold) UpdateChallenge(id int64, changes domain.ChallengeChanges) error {
	challenge, err := s.challenges.Get(id)
	if err != nil {
		return err
	}
	fields := memdb.Fields{}
	if changes.Difficulty != nil {
		difficulty, ok := domain.NormalizeDifficulty(string(*changes.Difficulty))
		if !ok {
			return invalidArgument("difficulty", *changes.Difficulty)
		}
		putText(fields, "difficulty", &difficulty)
	}
	putInt(fields, colCardID, changes.CardID)
	putText(fields, "strong_outcome", changes.StrongOutcome)
	putText(fields, "weak_outcome", changes.WeakOutcome)
	if err := crud.CheckText(fields); err != nil {
		return err
	}
	if changes.Pips != nil {
		oldPips, err := s.PipsForChallenge(id)
		if err != nil {
			return err
		}
		if err := s.validatePips(challenge.SceneID, *changes.Pips, oldPips); err != nil {
			return err
		}
		if err := s.UpdatePipsForChallenge(id, *changes.Pips); err != nil {
			return err
		}
	}
	return s.challenges.Update(id, fields)
}

// UpdatePipsForChallenge sets the pip allotment of a challenge, creating the
// row when missing. It does not check the scene budget.
func (s *Scaffold) UpdatePipsForChallenge(challengeID int64, pips int) error {
	if pips < 0 {
		return invalidArgument(colPips, pips)
	}
	rows, err := s.pips.ReadAll(byID(colChallengeID, challengeID))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := s.CreatePipsForChallenge(challengeID, pips)
		return err
	}
	return s.pips.Update(rows[0].ID, memdb.Fields{colPips: memdb.Int(int64(pips))})
}

func putText[S ~string](fields memdb.Fields, column string, value *S) {
	if value != nil {
		fields[column] = memdb.String(string(*value))
	}
}

func putInt[I ~int | ~int64](fields memdb.Fields, column string, value *I) {
	if value != nil {
		fields[column] = memdb.Int(int64(*value))
	}
}
