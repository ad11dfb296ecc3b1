package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/database/repository"
)

// BlockDataService implements commands.BlockData. Setting nil clears the cell.
type BlockDataService struct {
	Data   *repository.BlockDataRepo
	Logger *zap.Logger
}

func (s *BlockDataService) Get(x, y, z int) (any, bool) {
	data, ok, err := s.Data.Get(context.Background(), x, y, z)
	if err != nil {
		logger(s.Logger).Warn("read block data failed", zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (s *BlockDataService) Set(x, y, z int, data any) {
	ctx := context.Background()
	var err error
	if data == nil {
		err = s.Data.Delete(ctx, x, y, z)
	} else {
		err = s.Data.Set(ctx, x, y, z, data)
	}
	if err != nil {
		logger(s.Logger).Warn("write block data failed", zap.Error(err))
	}
}

func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
