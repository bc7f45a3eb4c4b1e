package tools

import (
	"context"

	"github.com/louisbranch/pipdeck/internal/services/story/domain"
	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GameListInput lists every game.
type GameListInput struct{}

// GameListResult holds games.
type GameListResult struct {
	Games []GameEntry `json:"games"`
}

// GameCreateInput creates a game.
type GameCreateInput struct {
	Name string `json:"name" jsonschema:"game name"`
	Desc string `json:"desc,omitempty" jsonschema:"game description"`
}

// GameUpdateInput changes a game. Omitted fields are kept.
type GameUpdateInput struct {
	ID   int64   `json:"id" jsonschema:"game identifier"`
	Name *string `json:"name,omitempty" jsonschema:"new name"`
	Desc *string `json:"desc,omitempty" jsonschema:"new description"`
}

// IDInput addresses one row.
type IDInput struct {
	ID int64 `json:"id" jsonschema:"row identifier"`
}

// ActListInput lists the acts of a game.
type ActListInput struct {
	GameID int64 `json:"game_id" jsonschema:"game identifier"`
}

// ActListResult holds acts.
type ActListResult struct {
	Acts []ActEntry `json:"acts"`
}

// ActCreateInput creates an act in a game.
type ActCreateInput struct {
	GameID int64  `json:"game_id" jsonschema:"game identifier"`
	Name   string `json:"name" jsonschema:"act name"`
	Desc   string `json:"desc,omitempty" jsonschema:"act description"`
}

// ActUpdateInput changes an act.
type ActUpdateInput struct {
	ID     int64   `json:"id" jsonschema:"act identifier"`
	Name   *string `json:"name,omitempty" jsonschema:"new name"`
	Desc   *string `json:"desc,omitempty" jsonschema:"new description"`
	GameID *int64  `json:"game_id,omitempty" jsonschema:"move the act to another game"`
}

// SceneListInput lists the scenes of an act.
type SceneListInput struct {
	ActID int64 `json:"act_id" jsonschema:"act identifier"`
}

// SceneListResult holds scenes.
type SceneListResult struct {
	Scenes []SceneEntry `json:"scenes"`
}

// SceneCreateInput creates a scene in an act.
type SceneCreateInput struct {
	ActID       int64  `json:"act_id" jsonschema:"act identifier"`
	Name        string `json:"name" jsonschema:"scene name"`
	Desc        string `json:"desc,omitempty" jsonschema:"scene description"`
	PlaceCardID *int64 `json:"place_card_id,omitempty" jsonschema:"catalog card describing the place"`
}

// SceneUpdateInput changes a scene.
type SceneUpdateInput struct {
	ID             int64   `json:"id" jsonschema:"scene identifier"`
	Name           *string `json:"name,omitempty" jsonschema:"new name"`
	Desc           *string `json:"desc,omitempty" jsonschema:"new description"`
	PlaceCardID    *int64  `json:"place_card_id,omitempty" jsonschema:"new place card"`
	ClearPlaceCard bool    `json:"clear_place_card,omitempty" jsonschema:"remove the place card"`
	ActID          *int64  `json:"act_id,omitempty" jsonschema:"move the scene to another act"`
}

// SceneBudgetInput addresses a scene budget.
type SceneBudgetInput struct {
	SceneID int64 `json:"scene_id" jsonschema:"scene identifier"`
}

// PlayerListInput lists players, optionally only those with characters in a game.
type PlayerListInput struct {
	GameID int64 `json:"game_id,omitempty" jsonschema:"only players owning characters in this game"`
}

// PlayerListResult holds players.
type PlayerListResult struct {
	Players []PlayerEntry `json:"players"`
}

// PlayerCreateInput creates a player.
type PlayerCreateInput struct {
	Name string `json:"name" jsonschema:"player name"`
}

// PlayerUpdateInput renames a player.
type PlayerUpdateInput struct {
	ID   int64   `json:"id" jsonschema:"player identifier"`
	Name *string `json:"name,omitempty" jsonschema:"new name"`
}

func (h *Host) registerStoryTools(server *mcp.Server) {
	addTool(server, h, accessRead, "game_list", "Lists every game", h.listGames)
	addTool(server, h, accessWrite, "game_create", "Creates a game", h.createGame)
	addTool(server, h, accessWrite, "game_update", "Changes a game's name or description", h.updateGame)
	addTool(server, h, accessWrite, "game_delete", "Deletes a game with its acts, scenes, characters and challenges", h.deleteGame)

	addTool(server, h, accessRead, "act_list", "Lists the acts of a game", h.listActs)
	addTool(server, h, accessWrite, "act_create", "Creates an act in a game", h.createAct)
	addTool(server, h, accessWrite, "act_update", "Changes an act", h.updateAct)
	addTool(server, h, accessWrite, "act_delete", "Deletes an act with its scenes", h.deleteAct)

	addTool(server, h, accessRead, "scene_list", "Lists the scenes of an act", h.listScenes)
	addTool(server, h, accessWrite, "scene_create", "Creates a scene in an act", h.createScene)
	addTool(server, h, accessWrite, "scene_update", "Changes a scene", h.updateScene)
	addTool(server, h, accessWrite, "scene_delete", "Deletes a scene with its characters and challenges", h.deleteScene)
	addTool(server, h, accessRead, "scene_budget", "Reports the pip budget of a scene", h.sceneBudget)

	addTool(server, h, accessRead, "player_list", "Lists players", h.listPlayers)
	addTool(server, h, accessWrite, "player_create", "Creates a player", h.createPlayer)
	addTool(server, h, accessWrite, "player_update", "Renames a player", h.updatePlayer)
	addTool(server, h, accessWrite, "player_delete", "Deletes a player and releases their characters", h.deletePlayer)
}

func (h *Host) listGames(_ context.Context, s *scaffold.Scaffold, _ GameListInput) (GameListResult, error) {
	games, err := s.Games()
	if err != nil {
		return GameListResult{}, err
	}
	return GameListResult{Games: mapEntries(games, gameEntry)}, nil
}

func (h *Host) createGame(ctx context.Context, s *scaffold.Scaffold, in GameCreateInput) (GameEntry, error) {
	game, err := s.CreateGame(domain.Game{Name: in.Name, Desc: in.Desc})
	if err != nil {
		return GameEntry{}, err
	}
	h.notifyAll(ctx, gamesURI)
	return gameEntry(game), nil
}

func (h *Host) updateGame(ctx context.Context, s *scaffold.Scaffold, in GameUpdateInput) (GameEntry, error) {
	if _, err := s.Game(in.ID); err != nil {
		return GameEntry{}, err
	}
	if err := s.UpdateGame(in.ID, domain.GameChanges{Name: in.Name, Desc: in.Desc}); err != nil {
		return GameEntry{}, err
	}
	game, err := s.Game(in.ID)
	if err != nil {
		return GameEntry{}, err
	}
	h.notifyAll(ctx, gamesURI)
	return gameEntry(game), nil
}

func (h *Host) deleteGame(ctx context.Context, s *scaffold.Scaffold, in IDInput) (DeleteResult, error) {
	if err := requireID("id", in.ID); err != nil {
		return DeleteResult{}, err
	}
	if err := s.DeleteGame(in.ID); err != nil {
		return DeleteResult{}, err
	}
	h.notifyAll(ctx, gamesURI, rawDataURI)
	return deleted(in.ID), nil
}

func (h *Host) listActs(_ context.Context, s *scaffold.Scaffold, in ActListInput) (ActListResult, error) {
	acts, err := s.Acts(in.GameID)
	if err != nil {
		return ActListResult{}, err
	}
	return ActListResult{Acts: mapEntries(acts, actEntry)}, nil
}

func (h *Host) createAct(_ context.Context, s *scaffold.Scaffold, in ActCreateInput) (ActEntry, error) {
	if _, err := s.Game(in.GameID); err != nil {
		return ActEntry{}, err
	}
	act, err := s.CreateAct(in.GameID, domain.Act{Name: in.Name, Desc: in.Desc})
	if err != nil {
		return ActEntry{}, err
	}
	return actEntry(act), nil
}

func (h *Host) updateAct(_ context.Context, s *scaffold.Scaffold, in ActUpdateInput) (ActEntry, error) {
	if _, err := s.Act(in.ID); err != nil {
		return ActEntry{}, err
	}
	if err := s.UpdateAct(in.ID, domain.ActChanges{Name: in.Name, Desc: in.Desc, GameID: in.GameID}); err != nil {
		return ActEntry{}, err
	}
	act, err := s.Act(in.ID)
	if err != nil {
		return ActEntry{}, err
	}
	return actEntry(act), nil
}

func (h *Host) deleteAct(_ context.Context, s *scaffold.Scaffold, in IDInput) (DeleteResult, error) {
	if err := requireID("id", in.ID); err != nil {
		return DeleteResult{}, err
	}
	if err := s.DeleteAct(in.ID); err != nil {
		return DeleteResult{}, err
	}
	return deleted(in.ID), nil
}

func (h *Host) listScenes(_ context.Context, s *scaffold.Scaffold, in SceneListInput) (SceneListResult, error) {
	scenes, err := s.Scenes(in.ActID)
	if err != nil {
		return SceneListResult{}, err
	}
	return SceneListResult{Scenes: mapEntries(scenes, sceneEntry)}, nil
}

func (h *Host) createScene(_ context.Context, s *scaffold.Scaffold, in SceneCreateInput) (SceneEntry, error) {
	if _, err := s.Act(in.ActID); err != nil {
		return SceneEntry{}, err
	}
	scene, err := s.CreateScene(in.ActID, domain.Scene{Name: in.Name, Desc: in.Desc, PlaceCardID: in.PlaceCardID})
	if err != nil {
		return SceneEntry{}, err
	}
	return sceneEntry(scene), nil
}

func (h *Host) updateScene(_ context.Context, s *scaffold.Scaffold, in SceneUpdateInput) (SceneEntry, error) {
	if _, err := s.Scene(in.ID); err != nil {
		return SceneEntry{}, err
	}
	changes := domain.SceneChanges{
		Name:           in.Name,
		Desc:           in.Desc,
		PlaceCardID:    in.PlaceCardID,
		ClearPlaceCard: in.ClearPlaceCard,
		ActID:          in.ActID,
	}
	if err := s.UpdateScene(in.ID, changes); err != nil {
		return SceneEntry{}, err
	}
	scene, err := s.Scene(in.ID)
	if err != nil {
		return SceneEntry{}, err
	}
	return sceneEntry(scene), nil
}

func (h *Host) deleteScene(_ context.Context, s *scaffold.Scaffold, in IDInput) (DeleteResult, error) {
	if err := requireID("id", in.ID); err != nil {
		return DeleteResult{}, err
	}
	if err := s.DeleteScene(in.ID); err != nil {
		return DeleteResult{}, err
	}
	return deleted(in.ID), nil
}

func (h *Host) sceneBudget(_ context.Context, s *scaffold.Scaffold, in SceneBudgetInput) (BudgetEntry, error) {
	if _, err := s.Scene(in.SceneID); err != nil {
		return BudgetEntry{}, err
	}
	budget, err := s.SceneBudget(in.SceneID)
	if err != nil {
		return BudgetEntry{}, err
	}
	return budgetEntry(budget), nil
}

func (h *Host) listPlayers(_ context.Context, s *scaffold.Scaffold, in PlayerListInput) (PlayerListResult, error) {
	var (
		players []domain.Player
		err     error
	)
	if in.GameID > 0 {
		players, err = s.PlayersByGame(in.GameID)
	} else {
		players, err = s.Players()
	}
	if err != nil {
		return PlayerListResult{}, err
	}
	return PlayerListResult{Players: mapEntries(players, playerEntry)}, nil
}

func (h *Host) createPlayer(_ context.Context, s *scaffold.Scaffold, in PlayerCreateInput) (PlayerEntry, error) {
	player, err := s.CreatePlayer(domain.Player{Name: in.Name})
	if err != nil {
		return PlayerEntry{}, err
	}
	return playerEntry(player), nil
}

func (h *Host) updatePlayer(_ context.Context, s *scaffold.Scaffold, in PlayerUpdateInput) (PlayerEntry, error) {
	if _, err := s.Player(in.ID); err != nil {
		return PlayerEntry{}, err
	}
	if err := s.UpdatePlayer(in.ID, domain.PlayerChanges{Name: in.Name}); err != nil {
		return PlayerEntry{}, err
	}
	player, err := s.Player(in.ID)
	if err != nil {
		return PlayerEntry{}, err
	}
	return playerEntry(player), nil
}

func (h *Host) deletePlayer(_ context.Context, s *scaffold.Scaffold, in IDInput) (DeleteResult, error) {
	if err := requireID("id", in.ID); err != nil {
		return DeleteResult{}, err
	}
	if err := s.DeletePlayer(in.ID); err != nil {
		return DeleteResult{}, err
	}
	return deleted(in.ID), nil
}
