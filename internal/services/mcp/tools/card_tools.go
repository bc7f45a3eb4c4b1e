package tools

import (
	"context"

	"github.com/louisbranch/pipdeck/internal/services/story/domain"
	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CardListInput lists the catalog.
type CardListInput struct {
	WildOnly bool `json:"wild_only,omitempty" jsonschema:"only wild cards"`
}

// CardListResult holds catalog cards.
type CardListResult struct {
	Cards []CardEntry `json:"cards"`
}

// CardTypeListInput lists card types.
type CardTypeListInput struct{}

// CardTypeListResult holds card types.
type CardTypeListResult struct {
	CardTypes []CardTypeEntry `json:"card_types"`
}

// CardCreateInput creates a catalog card.
type CardCreateInput struct {
	Name              string `json:"name" jsonschema:"card name"`
	Desc              string `json:"desc,omitempty" jsonschema:"card description"`
	IsWild            bool   `json:"is_wild,omitempty" jsonschema:"wild cards can stand in for any trait"`
	DefaultCardTypeID *int64 `json:"default_card_type_id,omitempty" jsonschema:"card type suggested when adding the card"`
}

// CardUpdateInput changes a catalog card.
type CardUpdateInput struct {
	ID                   int64   `json:"id" jsonschema:"card identifier"`
	Name                 *string `json:"name,omitempty" jsonschema:"new name"`
	Desc                 *string `json:"desc,omitempty" jsonschema:"new description"`
	IsWild               *bool   `json:"is_wild,omitempty" jsonschema:"new wild flag"`
	DefaultCardTypeID    *int64  `json:"default_card_type_id,omitempty" jsonschema:"new default card type"`
	ClearDefaultCardType bool    `json:"clear_default_card_type,omitempty" jsonschema:"remove the default card type"`
}

func (h *Host) registerCardTools(server *mcp.Server) {
	addTool(server, h, accessRead, "card_list", "Lists the card catalog", h.listCards)
	addTool(server, h, accessRead, "card_type_list", "Lists the card types", h.listCardTypes)
	addTool(server, h, accessWrite, "card_create", "Adds a card to the catalog", h.createCard)
	addTool(server, h, accessWrite, "card_update", "Changes a catalog card", h.updateCard)
	addTool(server, h, accessWrite, "card_delete", "Deletes a catalog card no character holds", h.deleteCard)
}

func (h *Host) listCards(_ context.Context, s *scaffold.Scaffold, in CardListInput) (CardListResult, error) {
	cards, err := s.Cards()
	if err != nil {
		return CardListResult{}, err
	}
	if in.WildOnly {
		wild := cards[:0]
		for _, card := range cards {
			if card.IsWild {
				wild = append(wild, card)
			}
		}
		cards = wild
	}
	return CardListResult{Cards: mapEntries(cards, cardEntry)}, nil
}

func (h *Host) listCardTypes(_ context.Context, s *scaffold.Scaffold, _ CardTypeListInput) (CardTypeListResult, error) {
	types, err := s.CardTypes()
	if err != nil {
		return CardTypeListResult{}, err
	}
	return CardTypeListResult{CardTypes: mapEntries(types, func(t domain.CardType) CardTypeEntry {
		return CardTypeEntry{ID: t.ID, Name: t.Name}
	})}, nil
}

func (h *Host) createCard(ctx context.Context, s *scaffold.Scaffold, in CardCreateInput) (CardEntry, error) {
	if in.DefaultCardTypeID != nil {
		if _, err := s.CardType(*in.DefaultCardTypeID); err != nil {
			return CardEntry{}, err
		}
	}
	card, err := s.CreateCard(domain.Card{
		Name:              in.Name,
		Desc:              in.Desc,
		IsWild:            in.IsWild,
		DefaultCardTypeID: in.DefaultCardTypeID,
	})
	if err != nil {
		return CardEntry{}, err
	}
	h.notifyAll(ctx, cardsURI)
	return cardEntry(card), nil
}

func (h *Host) updateCard(ctx context.Context, s *scaffold.Scaffold, in CardUpdateInput) (CardEntry, error) {
	if _, err := s.Card(in.ID); err != nil {
		return CardEntry{}, err
	}
	changes := domain.CardChanges{
		Name:                 in.Name,
		Desc:                 in.Desc,
		IsWild:               in.IsWild,
		DefaultCardTypeID:    in.DefaultCardTypeID,
		ClearDefaultCardType: in.ClearDefaultCardType,
	}
	if err := s.UpdateCard(in.ID, changes); err != nil {
		return CardEntry{}, err
	}
	card, err := s.Card(in.ID)
	if err != nil {
		return CardEntry{}, err
	}
	h.notifyAll(ctx, cardsURI)
	return cardEntry(card), nil
}

func (h *Host) deleteCard(ctx context.Context, s *scaffold.Scaffold, in IDInput) (DeleteResult, error) {
	if err := requireID("id", in.ID); err != nil {
		return DeleteResult{}, err
	}
	if err := s.DeleteCard(in.ID); err != nil {
		return DeleteResult{}, err
	}
	h.notifyAll(ctx, cardsURI)
	return deleted(in.ID), nil
}
