package tools

import "github.com/louisbranch/pipdeck/internal/services/story/domain"

// GameEntry is a readable game.
type GameEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// ActEntry is a readable act.
type ActEntry struct {
	ID     int64  `json:"id"`
	GameID int64  `json:"game_id"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
}

// SceneEntry is a readable scene.
type SceneEntry struct {
	ID          int64  `json:"id"`
	ActID       int64  `json:"act_id"`
	Name        string `json:"name"`
	Desc        string `json:"desc"`
	PlaceCardID *int64 `json:"place_card_id,omitempty"`
}

// PlayerEntry is a readable player.
type PlayerEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CharacterEntry is a readable character.
type CharacterEntry struct {
	ID      int64  `json:"id"`
	GameID  int64  `json:"game_id"`
	SceneID int64  `json:"scene_id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
}

// CardEntry is a readable catalog card.
type CardEntry struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Desc              string `json:"desc"`
	IsWild            bool   `json:"is_wild"`
	DefaultCardTypeID *int64 `json:"default_card_type_id,omitempty"`
}

// CardTypeEntry is a readable card type.
type CardTypeEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// InventoryEntry is one inventory line of a character.
type InventoryEntry struct {
	CharacterCardID int64  `json:"character_card_id"`
	CardID          int64  `json:"card_id"`
	CardName        string `json:"card_name"`
	CardType        string `json:"card_type"`
	Count           int    `json:"count"`
}

// ChallengeEntry is a readable challenge with its pips.
type ChallengeEntry struct {
	ID            int64  `json:"id"`
	SceneID       int64  `json:"scene_id"`
	CardID        int64  `json:"card_id"`
	CardName      string `json:"card_name,omitempty"`
	Difficulty    string `json:"difficulty"`
	StrongOutcome string `json:"strong_outcome"`
	WeakOutcome   string `json:"weak_outcome"`
	Pips          int    `json:"pips"`
	PlayedCount   int    `json:"played_count"`
}

// PlayedCardEntry is one card played against a challenge.
type PlayedCardEntry struct {
	PlayedCardID    int64  `json:"played_card_id"`
	CharacterCardID int64  `json:"character_card_id"`
	CardID          int64  `json:"card_id"`
	CardName        string `json:"card_name"`
	CardType        string `json:"card_type"`
}

// BudgetEntry is the pip budget of a scene.
type BudgetEntry struct {
	SceneID   int64 `json:"scene_id"`
	Max       int   `json:"max"`
	Used      int   `json:"used"`
	Available int   `json:"available"`
}

func gameEntry(g domain.Game) GameEntry {
	return GameEntry{ID: g.ID, Name: g.Name, Desc: g.Desc}
}

func actEntry(a domain.Act) ActEntry {
	return ActEntry{ID: a.ID, GameID: a.GameID, Name: a.Name, Desc: a.Desc}
}

func sceneEntry(s domain.Scene) SceneEntry {
	return SceneEntry{ID: s.ID, ActID: s.ActID, Name: s.Name, Desc: s.Desc, PlaceCardID: s.PlaceCardID}
}

func playerEntry(p domain.Player) PlayerEntry {
	return PlayerEntry{ID: p.ID, Name: p.Name}
}

func characterEntry(c domain.Character) CharacterEntry {
	return CharacterEntry{ID: c.ID, GameID: c.GameID, SceneID: c.SceneID, Name: c.Name, Status: string(c.Status)}
}

func cardEntry(c domain.Card) CardEntry {
	return CardEntry{ID: c.ID, Name: c.Name, Desc: c.Desc, IsWild: c.IsWild, DefaultCardTypeID: c.DefaultCardTypeID}
}

func inventoryEntry(c domain.InventoryCard) InventoryEntry {
	return InventoryEntry{
		CharacterCardID: c.CharacterCardID,
		CardID:          c.Card.ID,
		CardName:        c.Card.Name,
		CardType:        c.CardType.Name,
		Count:           c.Count,
	}
}

func challengeEntry(d domain.ChallengeDetail) ChallengeEntry {
	return ChallengeEntry{
		ID:            d.Challenge.ID,
		SceneID:       d.Challenge.SceneID,
		CardID:        d.Challenge.CardID,
		CardName:      d.Card.Name,
		Difficulty:    string(d.Challenge.Difficulty),
		StrongOutcome: d.Challenge.StrongOutcome,
		WeakOutcome:   d.Challenge.WeakOutcome,
		Pips:          d.Pips,
		PlayedCount:   d.PlayedCount,
	}
}

func budgetEntry(b domain.SceneBudget) BudgetEntry {
	return BudgetEntry{SceneID: b.SceneID, Max: b.Max, Used: b.Used, Available: b.Available()}
}

func mapEntries[T, E any](items []T, fn func(T) E) []E {
	out := make([]E, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
