package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/commands"
	"github.com/jask/voxelcmd/internal/database/repository"
)

// RegistryService implements commands.ItemRegistry over the item and block
// tables. Every block has an item of the same name.
type RegistryService struct {
	Items  *repository.ItemRepo
	Types  *repository.BlockTypeRepo
	Logger *zap.Logger
}

func (s *RegistryService) ItemProps(name string) (commands.ItemProps, bool) {
	it, err := s.Items.ByName(context.Background(), name)
	if err != nil {
		logger(s.Logger).Warn("item lookup failed", zap.String("item", name), zap.Error(err))
		return commands.ItemProps{}, false
	}
	if it == nil {
		return commands.ItemProps{}, false
	}
	return commands.ItemProps{
		Name:        it.Name,
		DisplayName: it.DisplayName,
		MaxStack:    it.MaxStack,
		IsBlock:     it.BlockID != nil,
	}, true
}

func (s *RegistryService) BlockIndex(name string) (int, bool) {
	bt, err := s.Types.ByName(context.Background(), name)
	if err != nil {
		logger(s.Logger).Warn("block lookup failed", zap.String("block", name), zap.Error(err))
		return 0, false
	}
	if bt == nil {
		return 0, false
	}
	return bt.ID, true
}

// BlockName returns "" for unknown ids.
func (s *RegistryService) BlockName(id int) string {
	bt, err := s.Types.Get(context.Background(), id)
	if err != nil {
		logger(s.Logger).Warn("block lookup failed", zap.Int("id", id), zap.Error(err))
		return ""
	}
	if bt == nil {
		return ""
	}
	return bt.Name
}
