package scaffold

import (
	"errors"

	"github.com/louisbranch/pipdeck/internal/services/story/domain"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/crud"
)

// Games returns every game.
func (s *Scaffold) Games() ([]domain.Game, error) {
	return s.games.ReadAll(nil)
}

// Game returns one game.
func (s *Scaffold) Game(id int64) (domain.Game, error) {
	return s.games.Get(id)
}

// Acts returns the acts of a game.
func (s *Scaffold) Acts(gameID int64) ([]domain.Act, error) {
	return s.acts.ReadAll(byID(colGameID, gameID))
}

// Act returns one act.
func (s *Scaffold) Act(id int64) (domain.Act, error) {
	return s.acts.Get(id)
}

// Scenes returns the scenes of an act.
func (s *Scaffold) Scenes(actID int64) ([]domain.Scene, error) {
	return s.scenes.ReadAll(byID(colActID, actID))
}

// Scene returns one scene.
func (s *Scaffold) Scene(id int64) (domain.Scene, error) {
	return s.scenes.Get(id)
}

// Players returns every player.
func (s *Scaffold) Players() ([]domain.Player, error) {
	return s.players.ReadAll(nil)
}

// Player returns one player.
func (s *Scaffold) Player(id int64) (domain.Player, error) {
	return s.players.Get(id)
}

// PlayersByGame returns the players owning at least one character of a game.
func (s *Scaffold) PlayersByGame(gameID int64) ([]domain.Player, error) {
	characters, err := s.characters.ReadAll(byID(colGameID, gameID))
	if err != nil {
		return nil, err
	}
	inGame := make(map[int64]bool, len(characters))
	for _, c := range characters {
		inGame[c.ID] = true
	}
	ownerships, err := s.Ownerships()
	if err != nil {
		return nil, err
	}
	owners := map[int64]bool{}
	for _, o := range ownerships {
		if inGame[o.CharacterID] {
			owners[o.PlayerID] = true
		}
	}
	players, err := s.Players()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Player, 0, len(owners))
	for _, p := range players {
		if owners[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// Characters returns the characters located in a scene.
func (s *Scaffold) Characters(sceneID int64) ([]domain.Character, error) {
	return s.characters.ReadAll(byID(colSceneID, sceneID))
}

// CharactersByGame returns the characters belonging to a game.
func (s *Scaffold) CharactersByGame(gameID int64) ([]domain.Character, error) {
	return s.characters.ReadAll(byID(colGameID, gameID))
}

// Character returns one character.
func (s *Scaffold) Character(id int64) (domain.Character, error) {
	return s.characters.Get(id)
}

// Challenges returns the challenges of a scene.
func (s *Scaffold) Challenges(sceneID int64) ([]domain.Challenge, error) {
	return s.challenges.ReadAll(byID(colSceneID, sceneID))
}

// Challenge returns one challenge.
func (s *Scaffold) Challenge(id int64) (domain.Challenge, error) {
	return s.challenges.Get(id)
}

// ChallengeDetails returns the challenges of a scene with their card, pips,
// and played-card count. Challenges whose card is missing are omitted.
func (s *Scaffold) ChallengeDetails(sceneID int64) ([]domain.ChallengeDetail, error) {
	challenges, err := s.Challenges(sceneID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ChallengeDetail, 0, len(challenges))
	for _, c := range challenges {
		card, err := s.cards.Get(c.CardID)
		if errors.Is(err, crud.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		pips, err := s.PipsForChallenge(c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ChallengeDetail{
			Challenge:   c,
			Card:        card,
			Pips:        pips,
			PlayedCount: s.played.Count(byID(colChallengeID, c.ID)),
		})
	}
	return out, nil
}

// Cards returns the whole card catalog.
func (s *Scaffold) Cards() ([]domain.Card, error) {
	return s.cards.ReadAll(nil)
}

// Card returns one catalog card.
func (s *Scaffold) Card(id int64) (domain.Card, error) {
	return s.cards.Get(id)
}

// CardByName returns the first catalog card with the given name.
func (s *Scaffold) CardByName(name string) (domain.Card, error) {
	cards := s.cards.FindText(colName, name)
	if len(cards) == 0 {
		return domain.Card{}, notFoundByName(s.cards.Entity(), name)
	}
	return cards[0], nil
}

// CardTypes returns the card type vocabulary.
func (s *Scaffold) CardTypes() ([]domain.CardType, error) {
	return s.cardTypes.ReadAll(nil)
}

// CardType returns one card type.
func (s *Scaffold) CardType(id int64) (domain.CardType, error) {
	return s.cardTypes.Get(id)
}

// CardTypeByName returns the card type with the given name.
func (s *Scaffold) CardTypeByName(name string) (domain.CardType, error) {
	types := s.cardTypes.FindText(colName, name)
	if len(types) == 0 {
		return domain.CardType{}, notFoundByName(s.cardTypes.Entity(), name)
	}
	return types[0], nil
}

// CharacterCard returns one inventory line.
func (s *Scaffold) CharacterCard(id int64) (domain.CharacterCard, error) {
	return s.characterCards.Get(id)
}

// CardsForCharacter returns a character's inventory resolved against the
// catalog. Lines whose card or card type is missing are omitted.
func (s *Scaffold) CardsForCharacter(characterID int64) ([]domain.InventoryCard, error) {
	lines, err := s.characterCards.ReadAll(byID(colCharacterID, characterID))
	if err != nil {
		return nil, err
	}
	out := make([]domain.InventoryCard, 0, len(lines))
	for _, line := range lines {
		card, cardType, ok, err := s.resolveLine(line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, domain.InventoryCard{
			CharacterCardID: line.ID,
			Card:            card,
			CardType:        cardType,
			Count:           line.Count,
		})
	}
	return out, nil
}

// PipsForChallenge returns the pip allotment of a challenge, or zero when it
// has none.
func (s *Scaffold) PipsForChallenge(challengeID int64) (int, error) {
	rows, err := s.pips.ReadAll(byID(colChallengeID, challengeID))
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	return rows[0].Pips, nil
}

// PlayedCardsForChallenge returns the cards played against a challenge.
// Plays whose inventory line, card, or card type is missing are omitted.
func (s *Scaffold) PlayedCardsForChallenge(challengeID int64) ([]domain.PlayedCardView, error) {
	plays, err := s.played.ReadAll(byID(colChallengeID, challengeID))
	if err != nil {
		return nil, err
	}
	out := make([]domain.PlayedCardView, 0, len(plays))
	for _, play := range plays {
		line, err := s.characterCards.Get(play.CharacterCardID)
		if errors.Is(err, crud.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		card, cardType, ok, err := s.resolveLine(line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, domain.PlayedCardView{
			PlayedCardID:    play.ID,
			CharacterCardID: line.ID,
			Card:            card,
			CardType:        cardType,
		})
	}
	return out, nil
}

// Ownerships returns every player-character link.
func (s *Scaffold) Ownerships() ([]domain.Ownership, error) {
	return s.ownerships.ReadAll(nil)
}

// OwnerOf returns the player owning a character. The second result is false
// when the character has no owner or the owner no longer exists.
func (s *Scaffold) OwnerOf(characterID int64) (domain.Player, bool, error) {
	links, err := s.ownerships.ReadAll(byID(colCharacterID, characterID))
	if err != nil || len(links) == 0 {
		return domain.Player{}, false, err
	}
	player, err := s.players.Get(links[0].PlayerID)
	if errors.Is(err, crud.ErrNotFound) {
		return domain.Player{}, false, nil
	}
	if err != nil {
		return domain.Player{}, false, err
	}
	return player, true, nil
}

func (s *Scaffold) resolveLine(line domain.CharacterCard) (domain.Card, domain.CardType, bool, error) {
	card, err := s.cards.Get(line.CardID)
	if errors.Is(err, crud.ErrNotFound) {
		return domain.Card{}, domain.CardType{}, false, nil
	}
	if err != nil {
		return domain.Card{}, domain.CardType{}, false, err
	}
	cardType, err := s.cardTypes.Get(line.CardTypeID)
	if errors.Is(err, crud.ErrNotFound) {
		return domain.Card{}, domain.CardType{}, false, nil
	}
	if err != nil {
		return domain.Card{}, domain.CardType{}, false, err
	}
	return card, cardType, true, nil
}
