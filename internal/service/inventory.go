package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/commands"
	"github.com/jask/voxelcmd/internal/database/repository"
)

// InventoryService implements commands.Inventory.
type InventoryService struct {
	Inventory *repository.InventoryRepo
	Items     *repository.ItemRepo
	Logger    *zap.Logger
}

// Add stores a pile, stacking up to the item's max stack.
func (s *InventoryService) Add(ctx context.Context, pile commands.ItemPile) error {
	it, err := s.Items.ByName(ctx, pile.Item)
	if err != nil {
		return err
	}
	if it == nil {
		return fmt.Errorf("give %s: unknown item", pile.Item)
	}
	var tags *string
	if pile.Tags != nil {
		raw, err := json.Marshal(pile.Tags)
		if err != nil {
			return fmt.Errorf("encode tags: %w", err)
		}
		str := string(raw)
		tags = &str
	}
	return s.Inventory.Give(ctx, pile.Item, pile.Count, tags, it.MaxStack)
}

// Contents lists the inventory slots in order.
func (s *InventoryService) Contents(ctx context.Context) ([]commands.ItemPile, error) {
	rows, err := s.Inventory.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]commands.ItemPile, 0, len(rows))
	for _, r := range rows {
		pile := commands.ItemPile{Item: r.Item, Count: r.Count}
		if r.Tags != nil {
			if err := json.Unmarshal([]byte(*r.Tags), &pile.Tags); err != nil {
				return nil, fmt.Errorf("decode tags for slot %d: %w", r.Slot, err)
			}
		}
		out = append(out, pile)
	}
	return out, nil
}

func (s *InventoryService) Give(pile commands.ItemPile) {
	if err := s.Add(context.Background(), pile); err != nil {
		logger(s.Logger).Warn("give failed", zap.String("item", pile.Item), zap.Error(err))
	}
}

func (s *InventoryService) Clear() {
	if err := s.Inventory.Clear(context.Background()); err != nil {
		logger(s.Logger).Warn("clear inventory failed", zap.Error(err))
	}
}
