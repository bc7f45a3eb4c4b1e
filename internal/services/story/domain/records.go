package domain

// Game is the root of a story and owns Acts.
type Game struct {
	ID   int64
	Name string
	Desc string
}

// Player is a person at the table. Players own characters through
// Ownership rows.
type Player struct {
	ID   int64
	Name string
}

// Act groups scenes within one game.
type Act struct {
	ID     int64
	Name   string
	Desc   string
	GameID int64
}

// Scene is one stage of an act. It holds characters and challenges.
type Scene struct {
	ID   int64
	Name string
	Desc string
	// PlaceCardID points at a catalog card describing the location. It is
	// descriptive only and never enforced.
	PlaceCardID *int64
	ActID       int64
}

// Character is located in one scene and belongs to one game.
type Character struct {
	ID      int64
	Name    string
	Status  CharacterStatus
	SceneID int64
	GameID  int64
}

// Ownership links a player to a character. A character has at most one.
type Ownership struct {
	ID          int64
	PlayerID    int64
	CharacterID int64
}

// CardType is an entry of the card type vocabulary.
type CardType struct {
	ID   int64
	Name string
}

// Card is a master catalog entry usable by any character.
type Card struct {
	ID                int64
	Name              string
	Desc              string
	IsWild            bool
	DefaultCardTypeID *int64
}

// CharacterCard is one inventory line: uses left of a card held by a
// character under a card type. (CharacterID, CardID, CardTypeID) is unique.
type CharacterCard struct {
	ID          int64
	CharacterID int64
	CardTypeID  int64
	CardID      int64
	Count       int
}

// Challenge is an obstacle in a scene.
type Challenge struct {
	ID            int64
	SceneID       int64
	CardID        int64
	Difficulty    Difficulty
	StrongOutcome string
	WeakOutcome   string
}

// ChallengePips stores the pip allotment of one challenge.
type ChallengePips struct {
	ID          int64
	ChallengeID int64
	Pips        int
}

// PlayedCard records one inventory-line use spent against a challenge.
type PlayedCard struct {
	ID              int64
	ChallengeID     int64
	CharacterCardID int64
}
