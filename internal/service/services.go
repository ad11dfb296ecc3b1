package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/commands"
	"github.com/jask/voxelcmd/internal/database/repository"
)

// Services bundles the collaborators the command interpreter runs against.
type Services struct {
	World       *WorldService
	BlockData   *BlockDataService
	Registry    *RegistryService
	Inventory   *InventoryService
	Player      *PlayerService
	Plugins     *PluginManager
	Maintenance *MaintenanceService
}

// New wires the services over a migrated and seeded database.
func New(ctx context.Context, db *sql.DB, homes HomeStore, log *zap.Logger) (*Services, error) {
	log = logger(log)
	types := repository.NewBlockTypeRepo(db)
	items := repository.NewItemRepo(db)
	terrain, err := FlatTerrain(ctx, types)
	if err != nil {
		return nil, err
	}
	player := NewPlayer(homes, log.Named("player"))
	return &Services{
		World: &WorldService{
			Blocks:  repository.NewBlockRepo(db),
			Types:   types,
			Camera:  player,
			Terrain: terrain,
			Logger:  log.Named("world"),
		},
		BlockData:   &BlockDataService{Data: repository.NewBlockDataRepo(db), Logger: log.Named("blockdata")},
		Registry:    &RegistryService{Items: items, Types: types, Logger: log.Named("registry")},
		Inventory:   &InventoryService{Inventory: repository.NewInventoryRepo(db), Items: items, Logger: log.Named("inventory")},
		Player:      player,
		Plugins:     &PluginManager{States: repository.NewPluginRepo(db), Logger: log.Named("plugins")},
		Maintenance: &MaintenanceService{DB: db},
	}, nil
}

// Deps returns the interpreter dependencies. network may be nil when offline.
func (s *Services) Deps(console commands.Console, network commands.Network, reach float64) commands.Deps {
	return commands.Deps{
		Console:       console,
		Registry:      s.Registry,
		Plugins:       s.Plugins,
		Player:        s.Player,
		Inventory:     s.Inventory,
		World:         s.World,
		BlockData:     s.BlockData,
		Network:       network,
		ReachDistance: reach,
	}
}
