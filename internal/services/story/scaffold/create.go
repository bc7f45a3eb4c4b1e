package scaffold

import (
	"errors"
	"strings"

	"github.com/louisbranch/pipdeck/internal/services/story/domain"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/crud"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/memdb"
)

// CreateGame creates a game.
func (s *Scaffold) CreateGame(game domain.Game) (domain.Game, error) {
	return s.games.Create(game)
}

// CreateAct creates an act in a game.
func (s *Scaffold) CreateAct(gameID int64, act domain.Act) (domain.Act, error) {
	act.GameID = gameID
	return s.acts.Create(act)
}

// CreateScene creates a scene in an act.
func (s *Scaffold) CreateScene(actID int64, scene domain.Scene) (domain.Scene, error) {
	scene.ActID = actID
	return s.scenes.Create(scene)
}

// CreatePlayer creates a player.
func (s *Scaffold) CreatePlayer(player domain.Player) (domain.Player, error) {
	return s.players.Create(player)
}

// CreateCard creates a catalog card.
func (s *Scaffold) CreateCard(card domain.Card) (domain.Card, error) {
	return s.cards.Create(card)
}

// CreateCharacter creates a character in a scene with its starter inventory.
//
// Each starter slot uses either a premade catalog card or a new card created
// from the slot's name and description, typed with the slot's card type. The
// character also receives both unnamed wild cards; wild lines whose card or
// card type cannot be found are skipped.
func (s *Scaffold) CreateCharacter(gameID, sceneID int64, payload domain.NewCharacter) (domain.Character, error) {
	status, ok := domain.NormalizeStatus(string(payload.Status))
	if !ok {
		return domain.Character{}, invalidArgument("status", payload.Status)
	}
	slots := payload.Slots()
	for i, slot := range slots {
		selection, ok := domain.NormalizeSelection(string(slot.Choice.Selection))
		if !ok {
			return domain.Character{}, invalidArgument(strings.ToLower(slot.TypeName)+"_selection", slot.Choice.Selection)
		}
		if slot.Choice.Count < 0 {
			return domain.Character{}, invalidArgument(strings.ToLower(slot.TypeName)+"_count", slot.Choice.Count)
		}
		slots[i].Choice.Selection = selection
	}
	texts := memdb.Fields{colName: memdb.String(payload.Name)}
	for _, slot := range slots {
		if slot.Choice.Selection == domain.SelectionCustom {
			prefix := strings.ToLower(slot.TypeName)
			texts[prefix+"_name"] = memdb.String(slot.Choice.Name)
			texts[prefix+"_desc"] = memdb.String(slot.Choice.Desc)
		}
	}
	if err := crud.CheckText(texts); err != nil {
		return domain.Character{}, err
	}

	character, err := s.characters.Create(domain.Character{
		Name:    payload.Name,
		Status:  status,
		SceneID: sceneID,
		GameID:  gameID,
	})
	if err != nil {
		return domain.Character{}, err
	}
	if payload.PlayerID != nil {
		if err := s.UpdateCharacterOwnership(character.ID, payload.PlayerID); err != nil {
			return character, err
		}
	}

	for _, slot := range slots {
		cardType, found, err := s.lookupCardType(slot.TypeName)
		if err != nil {
			return character, err
		}
		cardID := slot.Choice.CardID
		if slot.Choice.Selection == domain.SelectionCustom {
			card := domain.Card{Name: slot.Choice.Name, Desc: slot.Choice.Desc}
			if found {
				card.DefaultCardTypeID = &cardType.ID
			}
			created, err := s.CreateCard(card)
			if err != nil {
				return character, err
			}
			cardID = created.ID
		}
		if !found || cardID == 0 {
			continue
		}
		if _, err := s.AddCardToCharacter(character.ID, cardID, cardType.ID, slot.Choice.Count); err != nil {
			return character, err
		}
	}

	wilds := []struct{ typeName, cardName string }{
		{domain.CardTypeWildStr, domain.CardUnnamedWildStrength},
		{domain.CardTypeWildWeak, domain.CardUnnamedWildWeakness},
	}
	for _, wild := range wilds {
		cardType, found, err := s.lookupCardType(wild.typeName)
		if err != nil {
			return character, err
		}
		if !found {
			continue
		}
		card, err := s.CardByName(wild.cardName)
		if errors.Is(err, crud.ErrNotFound) {
			continue
		}
		if err != nil {
			return character, err
		}
		if _, err := s.AddCardToCharacter(character.ID, card.ID, cardType.ID, domain.WildStartingCount); err != nil {
			return character, err
		}
	}
	return character, nil
}

// CreateChallenge creates a challenge in a scene with its pip allotment. The
// pips are checked against the scene budget before anything is written.
func (s *Scaffold) CreateChallenge(sceneID int64, input domain.NewChallenge) (domain.Challenge, error) {
	difficulty, ok := domain.NormalizeDifficulty(string(input.Difficulty))
	if !ok {
		return domain.Challenge{}, invalidArgument("difficulty", input.Difficulty)
	}
	if err := s.validatePips(sceneID, input.Pips, 0); err != nil {
		return domain.Challenge{}, err
	}
	challenge, err := s.challenges.Create(domain.Challenge{
		SceneID:       sceneID,
		CardID:        input.CardID,
		Difficulty:    difficulty,
		StrongOutcome: input.StrongOutcome,
		WeakOutcome:   input.WeakOutcome,
	})
	if err != nil {
		return domain.Challenge{}, err
	}
	if _, err := s.CreatePipsForChallenge(challenge.ID, input.Pips); err != nil {
		return challenge, err
	}
	return challenge, nil
}

// CreatePipsForChallenge stores the pip allotment row of a challenge.
func (s *Scaffold) CreatePipsForChallenge(challengeID int64, pips int) (domain.ChallengePips, error) {
	if pips < 0 {
		return domain.ChallengePips{}, invalidArgument(colPips, pips)
	}
	return s.pips.Create(domain.ChallengePips{ChallengeID: challengeID, Pips: pips})
}

// AddCardToCharacter adds count uses of a card under a card type to a
// character. An existing line for the same card and type absorbs the count.
func (s *Scaffold) AddCardToCharacter(characterID, cardID, cardTypeID int64, count int) (domain.CharacterCard, error) {
	if count < 0 {
		return domain.CharacterCard{}, invalidArgument(colCount, count)
	}
	existing, found, err := s.lineFor(characterID, cardID, cardTypeID, 0)
	if err != nil {
		return domain.CharacterCard{}, err
	}
	if found {
		total := existing.Count + count
		if err := s.UpdateCharacterCard(existing.ID, domain.CharacterCardChanges{Count: &total}); err != nil {
			return domain.CharacterCard{}, err
		}
		return s.characterCards.Get(existing.ID)
	}
	return s.characterCards.Create(domain.CharacterCard{
		CharacterID: characterID,
		CardTypeID:  cardTypeID,
		CardID:      cardID,
		Count:       count,
	})
}

// PlayCardOnChallenge spends one use of an inventory line against a
// challenge.
func (s *Scaffold) PlayCardOnChallenge(challengeID, characterCardID int64) (domain.PlayedCard, error) {
	line, err := s.characterCards.Get(characterCardID)
	if err != nil {
		return domain.PlayedCard{}, err
	}
	if _, err := s.challenges.Get(challengeID); err != nil {
		return domain.PlayedCard{}, err
	}
	if line.Count <= 0 {
		return domain.PlayedCard{}, outOfUses()
	}
	pips, err := s.PipsForChallenge(challengeID)
	if err != nil {
		return domain.PlayedCard{}, err
	}
	if s.played.Count(byID(colChallengeID, challengeID)) >= pips {
		return domain.PlayedCard{}, challengeFull()
	}

	remaining := line.Count - 1
	if err := s.characterCards.Update(line.ID, memdb.Fields{colCount: memdb.Int(int64(remaining))}); err != nil {
		return domain.PlayedCard{}, err
	}
	return s.played.Create(domain.PlayedCard{ChallengeID: challengeID, CharacterCardID: line.ID})
}

// lineFor returns the inventory line of characterID for the card and type,
// ignoring the line with id except.
func (s *Scaffold) lineFor(characterID, cardID, cardTypeID, except int64) (domain.CharacterCard, bool, error) {
	lines, err := s.characterCards.ReadAll(memdb.Fields{
		colCharacterID: memdb.Int(characterID),
		colCardID:      memdb.Int(cardID),
		colCardTypeID:  memdb.Int(cardTypeID),
	})
	if err != nil {
		return domain.CharacterCard{}, false, err
	}
	for _, line := range lines {
		if line.ID != except {
			return line, true, nil
		}
	}
	return domain.CharacterCard{}, false, nil
}

func (s *Scaffold) lookupCardType(name string) (domain.CardType, bool, error) {
	cardType, err := s.CardTypeByName(name)
	if errors.Is(err, crud.ErrNotFound) {
		return domain.CardType{}, false, nil
	}
	if err != nil {
		return domain.CardType{}, false, err
	}
	return cardType, true, nil
}
