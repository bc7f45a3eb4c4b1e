package domain

import "strings"

// CharacterStatus reports whether a character is taking part in its scene.
type CharacterStatus string

const (
	StatusActive CharacterStatus = "Active"
	StatusIdle   CharacterStatus = "Idle"
)

// NormalizeStatus parses a status label into a canonical value.
func NormalizeStatus(value string) (CharacterStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "active":
		return StatusActive, true
	case "idle":
		return StatusIdle, true
	default:
		return "", false
	}
}

// Difficulty rates a challenge.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// NormalizeDifficulty parses a difficulty label into a canonical value.
func NormalizeDifficulty(value string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	default:
		return "", false
	}
}

// Selection chooses how a starter slot is filled at character creation.
type Selection string

const (
	// SelectionPremade uses an existing catalog card.
	SelectionPremade Selection = "premade"
	// SelectionCustom creates a new catalog card from a name and description.
	SelectionCustom Selection = "custom"
)

// NormalizeSelection parses a selection label into a canonical value.
func NormalizeSelection(value string) (Selection, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "premade":
		return SelectionPremade, true
	case "custom":
		return SelectionCustom, true
	default:
		return "", false
	}
}

// Card type names the engine resolves by name.
const (
	CardTypeNature   = "Nature"
	CardTypeStrength = "Strength"
	CardTypeWeakness = "Weakness"
	CardTypeSubplot  = "Subplot"
	CardTypeWildStr  = "Wild(Str)"
	CardTypeWildWeak = "Wild(Weak)"
)

// Catalog cards granted to every new character.
const (
	CardUnnamedWildStrength = "Unnamed Wild (Strength)"
	CardUnnamedWildWeakness = "Unnamed Wild (Weakness)"

	// WildStartingCount is the starting count of each unnamed wild line.
	WildStartingCount = 2
)
