package domain

// EditingState describes what a host is currently editing or creating. It is
// a closed set: only types in this package implement it.
type EditingState interface {
	editingKind() string
}

// EditingKind returns the kind label of s, or "" for nil.
func EditingKind(s EditingState) string {
	if s == nil {
		return ""
	}
	return s.editingKind()
}

type (
	EditGame      struct{ Game Game }
	EditAct       struct{ Act Act }
	EditScene     struct{ Scene Scene }
	EditPlayer    struct{ Player Player }
	EditCard      struct{ Card Card }
	EditCharacter struct {
		Character Character
		PlayerID  *int64
	}
	EditChallenge struct {
		Challenge Challenge
		Card      Card
		Pips      int
	}
	EditCharacterCard struct {
		CharacterCardID int64
		CardID          int64
		CardTypeID      int64
		Count           int
	}
)

type (
	NewPlayerDraft struct{ Name string }
	NewGameDraft   struct{ Name, Desc string }
	NewActDraft    struct{ Name, Desc string }
	NewSceneDraft  struct{ Name, Desc string }
	NewCardDraft   struct {
		Name              string
		Desc              string
		IsWild            bool
		DefaultCardTypeID *int64
	}
	NewChallengeDraft struct{ Challenge NewChallenge }
)

func (EditGame) editingKind() string          { return "game" }
func (EditAct) editingKind() string           { return "act" }
func (EditScene) editingKind() string         { return "scene" }
func (EditPlayer) editingKind() string        { return "player" }
func (EditCard) editingKind() string          { return "card" }
func (EditCharacter) editingKind() string     { return "character" }
func (EditChallenge) editingKind() string     { return "challenge" }
func (EditCharacterCard) editingKind() string { return "character_card" }
func (NewPlayerDraft) editingKind() string    { return "new_player" }
func (NewGameDraft) editingKind() string      { return "new_game" }
func (NewActDraft) editingKind() string       { return "new_act" }
func (NewSceneDraft) editingKind() string     { return "new_scene" }
func (NewCardDraft) editingKind() string      { return "new_card" }
func (NewChallengeDraft) editingKind() string { return "new_challenge" }
