package domain

// SlotChoice fills one starter slot of a new character.
type SlotChoice struct {
	Selection Selection
	// CardID is used for premade selections.
	CardID int64
	// Name and Desc describe the card created for custom selections.
	Name string
	Desc string
	// Count is the starting number of uses.
	Count int
}

// NewCharacter is the payload for character creation.
type NewCharacter struct {
	Name     string
	Status   CharacterStatus
	PlayerID *int64

	Nature   SlotChoice
	Strength SlotChoice
	Weakness SlotChoice
	Subplot  SlotChoice
}

// Slots returns the starter slots paired with the card type each fills, in
// creation order.
func (n NewCharacter) Slots() []StarterSlot {
	return []StarterSlot{
		{TypeName: CardTypeNature, Choice: n.Nature},
		{TypeName: CardTypeStrength, Choice: n.Strength},
		{TypeName: CardTypeWeakness, Choice: n.Weakness},
		{TypeName: CardTypeSubplot, Choice: n.Subplot},
	}
}

// StarterSlot pairs a slot choice with its card type name.
type StarterSlot struct {
	TypeName string
	Choice   SlotChoice
}

// DefaultStartingCounts are the conventional starter counts for the Nature,
// Strength, Weakness and Subplot slots. Hosts fill payloads with them.
var DefaultStartingCounts = map[string]int{
	CardTypeNature:   2,
	CardTypeStrength: 2,
	CardTypeWeakness: 1,
	CardTypeSubplot:  3,
}

// NewChallenge is the payload for challenge creation.
type NewChallenge struct {
	CardID        int64
	Difficulty    Difficulty
	StrongOutcome string
	WeakOutcome   string
	Pips          int
}

// ChallengeChanges is a partial challenge update. Nil fields are left alone.
type ChallengeChanges struct {
	CardID        *int64
	Difficulty    *Difficulty
	StrongOutcome *string
	WeakOutcome   *string
	Pips          *int
}

// CharacterCardChanges is a partial inventory-line update.
type CharacterCardChanges struct {
	CardID     *int64
	CardTypeID *int64
	Count      *int
}

// GameChanges is a partial game update.
type GameChanges struct {
	Name *string
	Desc *string
}

// ActChanges is a partial act update.
type ActChanges struct {
	Name   *string
	Desc   *string
	GameID *int64
}

// SceneChanges is a partial scene update. ClearPlaceCard unsets the place
// card and wins over PlaceCardID.
type SceneChanges struct {
	Name           *string
	Desc           *string
	PlaceCardID    *int64
	ClearPlaceCard bool
	ActID          *int64
}

// PlayerChanges is a partial player update.
type PlayerChanges struct {
	Name *string
}

// CharacterChanges is a partial character update.
type CharacterChanges struct {
	Name    *string
	Status  *CharacterStatus
	SceneID *int64
	GameID  *int64
}

// CardChanges is a partial catalog card update. ClearDefaultCardType unsets
// the default type and wins over DefaultCardTypeID.
type CardChanges struct {
	Name                 *string
	Desc                 *string
	IsWild               *bool
	DefaultCardTypeID    *int64
	ClearDefaultCardType bool
}
