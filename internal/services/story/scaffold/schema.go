package scaffold

import (
	"github.com/louisbranch/pipdeck/internal/services/story/domain"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/crud"
)

// Table names of the story schema.
const (
	TableGames          = "tblGames"
	TablePlayers        = "tblPlayers"
	TableActs           = "tblActs"
	TableScenes         = "tblScenes"
	TableCharacters     = "tblCharacters"
	TableOwnerships     = "tblPlayersCharactersOwnership"
	TableCardTypes      = "tblCardTypes"
	TableCards          = "tblCards"
	TableCharacterCards = "tblCardsWTypesWCharacter"
	TableChallenges     = "tblChallenges"
	TablePips           = "tblPipsperChallenge"
	TablePlayedCards    = "tblCardsPlayedOnChallenges"
)

// Column names referenced by rules.
const (
	colName            = "name"
	colGameID          = "game_id"
	colActID           = "act_id"
	colSceneID         = "scene_id"
	colPlayerID        = "player_id"
	colCharacterID     = "character_id"
	colCardID          = "card_id"
	colCardTypeID      = "card_type_id"
	colCount           = "count"
	colChallengeID     = "challenge_id"
	colPips            = "pips"
	colCharacterCardID = "CharacterwCards_id"
)

type repos struct {
	games          *crud.Repo[domain.Game]
	players        *crud.Repo[domain.Player]
	acts           *crud.Repo[domain.Act]
	scenes         *crud.Repo[domain.Scene]
	characters     *crud.Repo[domain.Character]
	ownerships     *crud.Repo[domain.Ownership]
	cardTypes      *crud.Repo[domain.CardType]
	cards          *crud.Repo[domain.Card]
	characterCards *crud.Repo[domain.CharacterCard]
	challenges     *crud.Repo[domain.Challenge]
	pips           *crud.Repo[domain.ChallengePips]
	played         *crud.Repo[domain.PlayedCard]
}

// defineSchema registers every story table with m, in serialization order.
func defineSchema(m *crud.Mapper) (repos, error) {
	var (
		r   repos
		err error
	)
	if r.games, err = crud.Define(m, crud.Schema[domain.Game]{
		Table:  TableGames,
		Entity: "game",
		ID:     crud.ID(func(g *domain.Game) *int64 { return &g.ID }),
		Fields: []crud.Field[domain.Game]{
			crud.Text(colName, func(g *domain.Game) *string { return &g.Name }),
			crud.Text("desc", func(g *domain.Game) *string { return &g.Desc }),
		},
		DisplayField: colName,
	}); err != nil {
		return r, err
	}
	if r.players, err = crud.Define(m, crud.Schema[domain.Player]{
		Table:  TablePlayers,
		Entity: "player",
		ID:     crud.ID(func(p *domain.Player) *int64 { return &p.ID }),
		Fields: []crud.Field[domain.Player]{
			crud.Text(colName, func(p *domain.Player) *string { return &p.Name }),
		},
		DisplayField: colName,
	}); err != nil {
		return r, err
	}
	if r.acts, err = crud.Define(m, crud.Schema[domain.Act]{
		Table:  TableActs,
		Entity: "act",
		ID:     crud.ID(func(a *domain.Act) *int64 { return &a.ID }),
		Fields: []crud.Field[domain.Act]{
			crud.Text(colName, func(a *domain.Act) *string { return &a.Name }),
			crud.Text("desc", func(a *domain.Act) *string { return &a.Desc }),
			crud.Int(colGameID, func(a *domain.Act) *int64 { return &a.GameID }),
		},
		DisplayField: colName,
	}); err != nil {
		return r, err
	}
	if r.scenes, err = crud.Define(m, crud.Schema[domain.Scene]{
		Table:  TableScenes,
		Entity: "scene",
		ID:     crud.ID(func(s *domain.Scene) *int64 { return &s.ID }),
		Fields: []crud.Field[domain.Scene]{
			crud.Text(colName, func(s *domain.Scene) *string { return &s.Name }),
			crud.Text("desc", func(s *domain.Scene) *string { return &s.Desc }),
			crud.NullableInt("place_card_id", func(s *domain.Scene) **int64 { return &s.PlaceCardID }),
			crud.Int(colActID, func(s *domain.Scene) *int64 { return &s.ActID }),
		},
		DisplayField: colName,
	}); err != nil {
		return r, err
	}
	if r.characters, err = crud.Define(m, crud.Schema[domain.Character]{
		Table:  TableCharacters,
		Entity: "character",
		ID:     crud.ID(func(c *domain.Character) *int64 { return &c.ID }),
		Fields: []crud.Field[domain.Character]{
			crud.Text(colName, func(c *domain.Character) *string { return &c.Name }),
			crud.Text("status", func(c *domain.Character) *domain.CharacterStatus { return &c.Status }),
			crud.Int(colSceneID, func(c *domain.Character) *int64 { return &c.SceneID }),
			crud.Int(colGameID, func(c *domain.Character) *int64 { return &c.GameID }),
		},
		DisplayField: colName,
	}); err != nil {
		return r, err
	}
	if r.ownerships, err = crud.Define(m, crud.Schema[domain.Ownership]{
		Table:  TableOwnerships,
		Entity: "ownership",
		ID:     crud.ID(func(o *domain.Ownership) *int64 { return &o.ID }),
		Fields: []crud.Field[domain.Ownership]{
			crud.Int(colPlayerID, func(o *domain.Ownership) *int64 { return &o.PlayerID }),
			crud.Int(colCharacterID, func(o *domain.Ownership) *int64 { return &o.CharacterID }),
		},
	}); err != nil {
		return r, err
	}
	if r.cardTypes, err = crud.Define(m, crud.Schema[domain.CardType]{
		Table:  TableCardTypes,
		Entity: "card type",
		ID:     crud.ID(func(c *domain.CardType) *int64 { return &c.ID }),
		Fields: []crud.Field[domain.CardType]{
			crud.Text(colName, func(c *domain.CardType) *string { return &c.Name }),
		},
		Unique:       [][]string{{colName}},
		DisplayField: colName,
	}); err != nil {
		return r, err
	}
	if r.cards, err = crud.Define(m, crud.Schema[domain.Card]{
		Table:  TableCards,
		Entity: "card",
		ID:     crud.ID(func(c *domain.Card) *int64 { return &c.ID }),
		Fields: []crud.Field[domain.Card]{
			crud.Text(colName, func(c *domain.Card) *string { return &c.Name }),
			crud.Text("desc", func(c *domain.Card) *string { return &c.Desc }),
			crud.Flag("is_wild", func(c *domain.Card) *bool { return &c.IsWild }),
			crud.NullableInt("default_card_type_id", func(c *domain.Card) **int64 { return &c.DefaultCardTypeID }),
		},
		DisplayField: colName,
	}); err != nil {
		return r, err
	}
	if r.characterCards, err = crud.Define(m, crud.Schema[domain.CharacterCard]{
		Table:  TableCharacterCards,
		Entity: "character card",
		ID:     crud.ID(func(c *domain.CharacterCard) *int64 { return &c.ID }),
		Fields: []crud.Field[domain.CharacterCard]{
			crud.Int(colCharacterID, func(c *domain.CharacterCard) *int64 { return &c.CharacterID }),
			crud.Int(colCardTypeID, func(c *domain.CharacterCard) *int64 { return &c.CardTypeID }),
			crud.Int(colCardID, func(c *domain.CharacterCard) *int64 { return &c.CardID }),
			crud.Int(colCount, func(c *domain.CharacterCard) *int { return &c.Count }),
		},
		Unique: [][]string{{colCharacterID, colCardID, colCardTypeID}},
	}); err != nil {
		return r, err
	}
	if r.challenges, err = crud.Define(m, crud.Schema[domain.Challenge]{
		Table:  TableChallenges,
		Entity: "challenge",
		ID:     crud.ID(func(c *domain.Challenge) *int64 { return &c.ID }),
		Fields: []crud.Field[domain.Challenge]{
			crud.Int(colSceneID, func(c *domain.Challenge) *int64 { return &c.SceneID }),
			crud.Int(colCardID, func(c *domain.Challenge) *int64 { return &c.CardID }),
			crud.Text("difficulty", func(c *domain.Challenge) *domain.Difficulty { return &c.Difficulty }),
			crud.Text("strong_outcome", func(c *domain.Challenge) *string { return &c.StrongOutcome }),
			crud.Text("weak_outcome", func(c *domain.Challenge) *string { return &c.WeakOutcome }),
		},
	}); err != nil {
		return r, err
	}
	if r.pips, err = crud.Define(m, crud.Schema[domain.ChallengePips]{
		Table:  TablePips,
		Entity: "challenge pips",
		ID:     crud.ID(func(p *domain.ChallengePips) *int64 { return &p.ID }),
		Fields: []crud.Field[domain.ChallengePips]{
			crud.Int(colChallengeID, func(p *domain.ChallengePips) *int64 { return &p.ChallengeID }),
			crud.Int(colPips, func(p *domain.ChallengePips) *int { return &p.Pips }),
		},
	}); err != nil {
		return r, err
	}
	if r.played, err = crud.Define(m, crud.Schema[domain.PlayedCard]{
		Table:  TablePlayedCards,
		Entity: "played card",
		ID:     crud.ID(func(p *domain.PlayedCard) *int64 { return &p.ID }),
		Fields: []crud.Field[domain.PlayedCard]{
			crud.Int(colChallengeID, func(p *domain.PlayedCard) *int64 { return &p.ChallengeID }),
			crud.Int(colCharacterCardID, func(p *domain.PlayedCard) *int64 { return &p.CharacterCardID }),
		},
	}); err != nil {
		return r, err
	}
	return r, nil
}
