package domain

// InventoryCard is a character's inventory line resolved against the catalog.
type InventoryCard struct {
	CharacterCardID int64
	Card            Card
	CardType        CardType
	Count           int
}

// PlayedCardView is a played card resolved to the inventory line and card it
// spent.
type PlayedCardView struct {
	PlayedCardID    int64
	CharacterCardID int64
	Card            Card
	CardType        CardType
}

// ChallengeDetail is a challenge with its card, pip allotment, and the number
// of cards played against it.
type ChallengeDetail struct {
	Challenge   Challenge
	Card        Card
	Pips        int
	PlayedCount int
}

// SceneBudget summarizes the pip budget of a scene.
type SceneBudget struct {
	SceneID int64
	Max     int
	Used    int
}

// Available returns the pips left in the budget.
func (b SceneBudget) Available() int {
	return b.Max - b.Used
}
