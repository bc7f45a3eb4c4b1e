package tools

import (
	"context"

	"github.com/louisbranch/pipdeck/internal/services/story/domain"
	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ChallengeListInput lists the challenges of a scene.
type ChallengeListInput struct {
	SceneID int64 `json:"scene_id" jsonschema:"scene identifier"`
}

// ChallengeListResult holds challenges with the scene budget.
type ChallengeListResult struct {
	Challenges []ChallengeEntry `json:"challenges"`
	Budget     BudgetEntry      `json:"budget"`
}

// ChallengeCreateInput creates a challenge with its pips.
type ChallengeCreateInput struct {
	SceneID       int64  `json:"scene_id" jsonschema:"scene identifier"`
	CardID        int64  `json:"card_id" jsonschema:"card describing the obstacle"`
	Difficulty    string `json:"difficulty" jsonschema:"Easy, Medium or Hard"`
	StrongOutcome string `json:"strong_outcome,omitempty" jsonschema:"outcome when the challenge is won"`
	WeakOutcome   string `json:"weak_outcome,omitempty" jsonschema:"outcome when the challenge is lost"`
	Pips          int    `json:"pips" jsonschema:"pips allotted from the scene budget"`
}

// ChallengeUpdateInput changes a challenge.
type ChallengeUpdateInput struct {
	ID            int64   `json:"id" jsonschema:"challenge identifier"`
	CardID        *int64  `json:"card_id,omitempty" jsonschema:"new card"`
	Difficulty    *string `json:"difficulty,omitempty" jsonschema:"Easy, Medium or Hard"`
	StrongOutcome *string `json:"strong_outcome,omitempty" jsonschema:"new strong outcome"`
	WeakOutcome   *string `json:"weak_outcome,omitempty" jsonschema:"new weak outcome"`
	Pips          *int    `json:"pips,omitempty" jsonschema:"new pip allotment"`
}

// PlayInput spends an inventory line against a challenge.
type PlayInput struct {
	ChallengeID     int64 `json:"challenge_id" jsonschema:"challenge identifier"`
	CharacterCardID int64 `json:"character_card_id" jsonschema:"inventory line to spend"`
}

// PlayResult reports a play and the challenge after it.
type PlayResult struct {
	PlayedCardID int64          `json:"played_card_id"`
	Challenge    ChallengeEntry `json:"challenge"`
	UsesLeft     int            `json:"uses_left"`
}

// UnplayInput takes a played card back.
type UnplayInput struct {
	PlayedCardID int64 `json:"played_card_id" jsonschema:"played card identifier"`
}

// PlayedListInput lists cards played against a challenge.
type PlayedListInput struct {
	ChallengeID int64 `json:"challenge_id" jsonschema:"challenge identifier"`
}

// PlayedListResult holds played cards.
type PlayedListResult struct {
	Played []PlayedCardEntry `json:"played"`
}

func (h *Host) registerChallengeTools(server *mcp.Server) {
	addTool(server, h, accessRead, "challenge_list", "Lists the challenges of a scene with its pip budget", h.listChallenges)
	addTool(server, h, accessWrite, "challenge_create", "Creates a challenge within the scene pip budget", h.createChallenge)
	addTool(server, h, accessWrite, "challenge_update", "Changes a challenge and its pips", h.updateChallenge)
	addTool(server, h, accessWrite, "challenge_delete", "Deletes a challenge with its pips and plays", h.deleteChallenge)
	addTool(server, h, accessWrite, "card_play", "Spends one use of an inventory line against a challenge", h.playCard)
	addTool(server, h, accessWrite, "card_unplay", "Takes back a played card and restores its use", h.unplayCard)
	addTool(server, h, accessRead, "challenge_played", "Lists the cards played against a challenge", h.listPlayed)
}

func (h *Host) listChallenges(_ context.Context, s *scaffold.Scaffold, in ChallengeListInput) (ChallengeListResult, error) {
	if _, err := s.Scene(in.SceneID); err != nil {
		return ChallengeListResult{}, err
	}
	details, err := s.ChallengeDetails(in.SceneID)
	if err != nil {
		return ChallengeListResult{}, err
	}
	budget, err := s.SceneBudget(in.SceneID)
	if err != nil {
		return ChallengeListResult{}, err
	}
	return ChallengeListResult{
		Challenges: mapEntries(details, challengeEntry),
		Budget:     budgetEntry(budget),
	}, nil
}

// detailFor returns the resolved view of one challenge.
func detailFor(s *scaffold.Scaffold, id int64) (ChallengeEntry, error) {
	challenge, err := s.Challenge(id)
	if err != nil {
		return ChallengeEntry{}, err
	}
	details, err := s.ChallengeDetails(challenge.SceneID)
	if err != nil {
		return ChallengeEntry{}, err
	}
	for _, detail := range details {
		if detail.Challenge.ID == id {
			return challengeEntry(detail), nil
		}
	}
	pips, err := s.PipsForChallenge(id)
	if err != nil {
		return ChallengeEntry{}, err
	}
	return challengeEntry(domain.ChallengeDetail{Challenge: challenge, Pips: pips}), nil
}

func (h *Host) createChallenge(ctx context.Context, s *scaffold.Scaffold, in ChallengeCreateInput) (ChallengeEntry, error) {
	if _, err := s.Scene(in.SceneID); err != nil {
		return ChallengeEntry{}, err
	}
	if _, err := s.Card(in.CardID); err != nil {
		return ChallengeEntry{}, err
	}
	challenge, err := s.CreateChallenge(in.SceneID, domain.NewChallenge{
		CardID:        in.CardID,
		Difficulty:    domain.Difficulty(in.Difficulty),
		StrongOutcome: in.StrongOutcome,
		WeakOutcome:   in.WeakOutcome,
		Pips:          in.Pips,
	})
	if err != nil {
		return ChallengeEntry{}, err
	}
	h.notifyAll(ctx, entityURI("challenge", challenge.ID))
	return detailFor(s, challenge.ID)
}

func (h *Host) updateChallenge(ctx context.Context, s *scaffold.Scaffold, in ChallengeUpdateInput) (ChallengeEntry, error) {
	changes := domain.ChallengeChanges{
		CardID:        in.CardID,
		StrongOutcome: in.StrongOutcome,
		WeakOutcome:   in.WeakOutcome,
		Pips:          in.Pips,
	}
	if in.Difficulty != nil {
		difficulty := domain.Difficulty(*in.Difficulty)
		changes.Difficulty = &difficulty
	}
	if err := s.UpdateChallenge(in.ID, changes); err != nil {
		return ChallengeEntry{}, err
	}
	h.notifyAll(ctx, entityURI("challenge", in.ID))
	return detailFor(s, in.ID)
}

func (h *Host) deleteChallenge(ctx context.Context, s *scaffold.Scaffold, in IDInput) (DeleteResult, error) {
	if err := requireID("id", in.ID); err != nil {
		return DeleteResult{}, err
	}
	if err := s.DeleteChallenge(in.ID); err != nil {
		return DeleteResult{}, err
	}
	h.notifyAll(ctx, entityURI("challenge", in.ID))
	return deleted(in.ID), nil
}

func (h *Host) playCard(ctx context.Context, s *scaffold.Scaffold, in PlayInput) (PlayResult, error) {
	played, err := s.PlayCardOnChallenge(in.ChallengeID, in.CharacterCardID)
	if err != nil {
		return PlayResult{}, err
	}
	line, err := s.CharacterCard(in.CharacterCardID)
	if err != nil {
		return PlayResult{}, err
	}
	challenge, err := detailFor(s, in.ChallengeID)
	if err != nil {
		return PlayResult{}, err
	}
	h.notifyAll(ctx, entityURI("challenge", in.ChallengeID), entityURI("character", line.CharacterID))
	return PlayResult{PlayedCardID: played.ID, Challenge: challenge, UsesLeft: line.Count}, nil
}

func (h *Host) unplayCard(ctx context.Context, s *scaffold.Scaffold, in UnplayInput) (DeleteResult, error) {
	if err := requireID("played_card_id", in.PlayedCardID); err != nil {
		return DeleteResult{}, err
	}
	if err := s.RemoveCardFromChallenge(in.PlayedCardID); err != nil {
		return DeleteResult{}, err
	}
	h.notifyAll(ctx, rawDataURI)
	return deleted(in.PlayedCardID), nil
}

func (h *Host) listPlayed(_ context.Context, s *scaffold.Scaffold, in PlayedListInput) (PlayedListResult, error) {
	if _, err := s.Challenge(in.ChallengeID); err != nil {
		return PlayedListResult{}, err
	}
	played, err := s.PlayedCardsForChallenge(in.ChallengeID)
	if err != nil {
		return PlayedListResult{}, err
	}
	return PlayedListResult{Played: mapEntries(played, func(p domain.PlayedCardView) PlayedCardEntry {
		return PlayedCardEntry{
			PlayedCardID:    p.PlayedCardID,
			CharacterCardID: p.CharacterCardID,
			CardID:          p.Card.ID,
			CardName:        p.Card.Name,
			CardType:        p.CardType.Name,
		}
	})}, nil
}
