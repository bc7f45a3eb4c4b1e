package tools

import (
	"context"

	"github.com/louisbranch/pipdeck/internal/services/story/domain"
	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CharacterListInput lists characters of a scene or, without a scene, of a game.
type CharacterListInput struct {
	SceneID int64 `json:"scene_id,omitempty" jsonschema:"scene identifier"`
	GameID  int64 `json:"game_id,omitempty" jsonschema:"game identifier, used when scene_id is omitted"`
}

// CharacterListResult holds characters.
type CharacterListResult struct {
	Characters []CharacterEntry `json:"characters"`
}

// CharacterSheet is a character with its owner and inventory.
type CharacterSheet struct {
	Character CharacterEntry   `json:"character"`
	Owner     *PlayerEntry     `json:"owner,omitempty"`
	Inventory []InventoryEntry `json:"inventory"`
}

// SlotInput fills one starter slot.
type SlotInput struct {
	Selection string `json:"selection" jsonschema:"premade or custom"`
	CardID    int64  `json:"card_id,omitempty" jsonschema:"catalog card for premade selections"`
	Name      string `json:"name,omitempty" jsonschema:"card name for custom selections"`
	Desc      string `json:"desc,omitempty" jsonschema:"card description for custom selections"`
	Count     *int   `json:"count,omitempty" jsonschema:"starting uses; defaults per slot"`
}

// CharacterCreateInput creates a character with its starter inventory.
type CharacterCreateInput struct {
	GameID   int64     `json:"game_id" jsonschema:"game identifier"`
	SceneID  int64     `json:"scene_id" jsonschema:"scene identifier"`
	Name     string    `json:"name" jsonschema:"character name"`
	Status   string    `json:"status,omitempty" jsonschema:"Active or Idle; defaults to Active"`
	PlayerID *int64    `json:"player_id,omitempty" jsonschema:"owning player"`
	Nature   SlotInput `json:"nature" jsonschema:"Nature slot"`
	Strength SlotInput `json:"strength" jsonschema:"Strength slot"`
	Weakness SlotInput `json:"weakness" jsonschema:"Weakness slot"`
	Subplot  SlotInput `json:"subplot" jsonschema:"Subplot slot"`
}

// CharacterUpdateInput changes a character.
type CharacterUpdateInput struct {
	ID      int64   `json:"id" jsonschema:"character identifier"`
	Name    *string `json:"name,omitempty" jsonschema:"new name"`
	Status  *string `json:"status,omitempty" jsonschema:"Active or Idle"`
	SceneID *int64  `json:"scene_id,omitempty" jsonschema:"move to another scene"`
	GameID  *int64  `json:"game_id,omitempty" jsonschema:"move to another game"`
}

// CharacterOwnerInput sets or clears the owner of a character.
type CharacterOwnerInput struct {
	CharacterID int64  `json:"character_id" jsonschema:"character identifier"`
	PlayerID    *int64 `json:"player_id,omitempty" jsonschema:"new owner; omit to clear"`
}

// InventoryAddInput adds uses of a card to a character.
type InventoryAddInput struct {
	CharacterID int64 `json:"character_id" jsonschema:"character identifier"`
	CardID      int64 `json:"card_id" jsonschema:"catalog card"`
	CardTypeID  int64 `json:"card_type_id" jsonschema:"card type the card is held under"`
	Count       int   `json:"count" jsonschema:"uses to add"`
}

// InventoryUpdateInput changes an inventory line.
type InventoryUpdateInput struct {
	ID         int64  `json:"id" jsonschema:"inventory line identifier"`
	CardID     *int64 `json:"card_id,omitempty" jsonschema:"new card"`
	CardTypeID *int64 `json:"card_type_id,omitempty" jsonschema:"new card type"`
	Count      *int   `json:"count,omitempty" jsonschema:"new uses left"`
}

// InventoryLineEntry is a raw inventory line.
type InventoryLineEntry struct {
	ID          int64 `json:"id"`
	CharacterID int64 `json:"character_id"`
	CardID      int64 `json:"card_id"`
	CardTypeID  int64 `json:"card_type_id"`
	Count       int   `json:"count"`
}

func (h *Host) registerCharacterTools(server *mcp.Server) {
	addTool(server, h, accessRead, "character_list", "Lists characters of a scene or game", h.listCharacters)
	addTool(server, h, accessRead, "character_get", "Shows a character with owner and inventory", h.characterSheet)
	addTool(server, h, accessWrite, "character_create", "Creates a character with starter and wild cards", h.createCharacter)
	addTool(server, h, accessWrite, "character_update", "Changes a character", h.updateCharacter)
	addTool(server, h, accessWrite, "character_set_owner", "Sets or clears the player owning a character", h.setCharacterOwner)
	addTool(server, h, accessWrite, "character_delete", "Deletes a character with its inventory", h.deleteCharacter)

	addTool(server, h, accessWrite, "inventory_add", "Adds uses of a card to a character", h.addInventory)
	addTool(server, h, accessWrite, "inventory_update", "Changes an inventory line, merging duplicates", h.updateInventory)
	addTool(server, h, accessWrite, "inventory_remove", "Removes an inventory line that was never played", h.removeInventory)
}

func (h *Host) listCharacters(_ context.Context, s *scaffold.Scaffold, in CharacterListInput) (CharacterListResult, error) {
	var (
		characters []domain.Character
		err        error
	)
	switch {
	case in.SceneID > 0:
		characters, err = s.Characters(in.SceneID)
	case in.GameID > 0:
		characters, err = s.CharactersByGame(in.GameID)
	default:
		return CharacterListResult{}, requireID("scene_id", in.SceneID)
	}
	if err != nil {
		return CharacterListResult{}, err
	}
	return CharacterListResult{Characters: mapEntries(characters, characterEntry)}, nil
}

func (h *Host) characterSheet(_ context.Context, s *scaffold.Scaffold, in IDInput) (CharacterSheet, error) {
	return sheetFor(s, in.ID)
}

func sheetFor(s *scaffold.Scaffold, id int64) (CharacterSheet, error) {
	character, err := s.Character(id)
	if err != nil {
		return CharacterSheet{}, err
	}
	cards, err := s.CardsForCharacter(id)
	if err != nil {
		return CharacterSheet{}, err
	}
	sheet := CharacterSheet{
		Character: characterEntry(character),
		Inventory: mapEntries(cards, inventoryEntry),
	}
	owner, ok, err := s.OwnerOf(id)
	if err != nil {
		return CharacterSheet{}, err
	}
	if ok {
		entry := playerEntry(owner)
		sheet.Owner = &entry
	}
	return sheet, nil
}

func slotChoice(typeName string, in SlotInput) domain.SlotChoice {
	count := domain.DefaultStartingCounts[typeName]
	if in.Count != nil {
		count = *in.Count
	}
	return domain.SlotChoice{
		Selection: domain.Selection(in.Selection),
		CardID:    in.CardID,
		Name:      in.Name,
		Desc:      in.Desc,
		Count:     count,
	}
}

func (h *Host) createCharacter(ctx context.Context, s *scaffold.Scaffold, in CharacterCreateInput) (CharacterSheet, error) {
	if _, err := s.Game(in.GameID); err != nil {
		return CharacterSheet{}, err
	}
	if _, err := s.Scene(in.SceneID); err != nil {
		return CharacterSheet{}, err
	}
	status := domain.CharacterStatus(in.Status)
	if in.Status == "" {
		status = domain.StatusActive
	}
	character, err := s.CreateCharacter(in.GameID, in.SceneID, domain.NewCharacter{
		Name:     in.Name,
		Status:   status,
		PlayerID: in.PlayerID,
		Nature:   slotChoice(domain.CardTypeNature, in.Nature),
		Strength: slotChoice(domain.CardTypeStrength, in.Strength),
		Weakness: slotChoice(domain.CardTypeWeakness, in.Weakness),
		Subplot:  slotChoice(domain.CardTypeSubplot, in.Subplot),
	})
	if err != nil {
		return CharacterSheet{}, err
	}
	h.notifyAll(ctx, entityURI("character", character.ID))
	return sheetFor(s, character.ID)
}

func (h *Host) updateCharacter(ctx context.Context, s *scaffold.Scaffold, in CharacterUpdateInput) (CharacterSheet, error) {
	if _, err := s.Character(in.ID); err != nil {
		return CharacterSheet{}, err
	}
	changes := domain.CharacterChanges{Name: in.Name, SceneID: in.SceneID, GameID: in.GameID}
	if in.Status != nil {
		status := domain.CharacterStatus(*in.Status)
		changes.Status = &status
	}
	if err := s.UpdateCharacter(in.ID, changes); err != nil {
		return CharacterSheet{}, err
	}
	h.notifyAll(ctx, entityURI("character", in.ID))
	return sheetFor(s, in.ID)
}

func (h *Host) setCharacterOwner(ctx context.Context, s *scaffold.Scaffold, in CharacterOwnerInput) (CharacterSheet, error) {
	if _, err := s.Character(in.CharacterID); err != nil {
		return CharacterSheet{}, err
	}
	if in.PlayerID != nil {
		if _, err := s.Player(*in.PlayerID); err != nil {
			return CharacterSheet{}, err
		}
	}
	if err := s.UpdateCharacterOwnership(in.CharacterID, in.PlayerID); err != nil {
		return CharacterSheet{}, err
	}
	h.notifyAll(ctx, entityURI("character", in.CharacterID))
	return sheetFor(s, in.CharacterID)
}

func (h *Host) deleteCharacter(ctx context.Context, s *scaffold.Scaffold, in IDInput) (DeleteResult, error) {
	if err := requireID("id", in.ID); err != nil {
		return DeleteResult{}, err
	}
	if err := s.DeleteCharacter(in.ID); err != nil {
		return DeleteResult{}, err
	}
	h.notifyAll(ctx, entityURI("character", in.ID))
	return deleted(in.ID), nil
}

func lineEntry(line domain.CharacterCard) InventoryLineEntry {
	return InventoryLineEntry{
		ID:          line.ID,
		CharacterID: line.CharacterID,
		CardID:      line.CardID,
		CardTypeID:  line.CardTypeID,
		Count:       line.Count,
	}
}

func (h *Host) addInventory(ctx context.Context, s *scaffold.Scaffold, in InventoryAddInput) (InventoryLineEntry, error) {
	if _, err := s.Character(in.CharacterID); err != nil {
		return InventoryLineEntry{}, err
	}
	if _, err := s.Card(in.CardID); err != nil {
		return InventoryLineEntry{}, err
	}
	if _, err := s.CardType(in.CardTypeID); err != nil {
		return InventoryLineEntry{}, err
	}
	line, err := s.AddCardToCharacter(in.CharacterID, in.CardID, in.CardTypeID, in.Count)
	if err != nil {
		return InventoryLineEntry{}, err
	}
	h.notifyAll(ctx, entityURI("character", in.CharacterID))
	return lineEntry(line), nil
}

func (h *Host) updateInventory(ctx context.Context, s *scaffold.Scaffold, in InventoryUpdateInput) (CharacterSheet, error) {
	line, err := s.CharacterCard(in.ID)
	if err != nil {
		return CharacterSheet{}, err
	}
	changes := domain.CharacterCardChanges{CardID: in.CardID, CardTypeID: in.CardTypeID, Count: in.Count}
	if err := s.UpdateCharacterCard(in.ID, changes); err != nil {
		return CharacterSheet{}, err
	}
	h.notifyAll(ctx, entityURI("character", line.CharacterID))
	return sheetFor(s, line.CharacterID)
}

func (h *Host) removeInventory(ctx context.Context, s *scaffold.Scaffold, in IDInput) (DeleteResult, error) {
	line, err := s.CharacterCard(in.ID)
	if err != nil {
		return DeleteResult{}, err
	}
	if err := s.RemoveCardFromCharacter(in.ID); err != nil {
		return DeleteResult{}, err
	}
	h.notifyAll(ctx, entityURI("character", line.CharacterID))
	return deleted(in.ID), nil
}
