package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/commands"
	"github.com/jask/voxelcmd/internal/content"
	"github.com/jask/voxelcmd/internal/database/repository"
)

// Camera supplies the eye position and look direction for raycasts.
type Camera interface {
	CameraPosition() commands.Vec3
	CameraVector() commands.Vec3
}

// Terrain returns the generated block id for a cell nobody has edited.
type Terrain func(x, y, z int) int

// FlatTerrain is grass at y=-1, three layers of dirt, then stone. Names that
// are missing from the block table fall back to air.
func FlatTerrain(ctx context.Context, types *repository.BlockTypeRepo) (Terrain, error) {
	ids := map[string]int{}
	for _, name := range []string{"grass", "dirt", "stone"} {
		bt, err := types.ByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("terrain block %s: %w", name, err)
		}
		ids[name] = content.AirID
		if bt != nil {
			ids[name] = bt.ID
		}
	}
	grass, dirt, stone := ids["grass"], ids["dirt"], ids["stone"]
	return func(_, y, _ int) int {
		switch {
		case y >= 0:
			return content.AirID
		case y == -1:
			return grass
		case y >= -4:
			return dirt
		default:
			return stone
		}
	}, nil
}

// WorldService implements commands.World over the block table.
type WorldService struct {
	Blocks  *repository.BlockRepo
	Types   *repository.BlockTypeRepo
	Camera  Camera
	Terrain Terrain
	Logger  *zap.Logger

	mu    sync.Mutex
	solid map[int]bool
}

// BlockAt returns the stored block or the generated terrain for the cell.
func (s *WorldService) BlockAt(ctx context.Context, v commands.Voxel) (int, error) {
	id, ok, err := s.Blocks.Get(ctx, v[0], v[1], v[2])
	if err != nil {
		return 0, err
	}
	if ok {
		return id, nil
	}
	if s.Terrain == nil {
		return content.AirID, nil
	}
	return s.Terrain(v[0], v[1], v[2]), nil
}

// Place stores a block at v.
func (s *WorldService) Place(ctx context.Context, v commands.Voxel, id int) error {
	if err := s.Blocks.Set(ctx, v[0], v[1], v[2], id); err != nil {
		return fmt.Errorf("set block at %v: %w", v, err)
	}
	return nil
}

// Raycast walks the voxel grid from origin along direction (Amanatides & Woo)
// and returns the first solid cell within maxDistance.
func (s *WorldService) Raycast(ctx context.Context, origin, direction commands.Vec3, maxDistance float64) (commands.Hit, bool, error) {
	length := math.Sqrt(direction.X*direction.X + direction.Y*direction.Y + direction.Z*direction.Z)
	if length == 0 || maxDistance <= 0 {
		return commands.Hit{}, false, nil
	}
	dir := [3]float64{direction.X / length, direction.Y / length, direction.Z / length}
	pos := [3]float64{origin.X, origin.Y, origin.Z}

	var cell commands.Voxel
	var step [3]int
	var tMax, tDelta [3]float64
	for i := range 3 {
		cell[i] = int(math.Floor(pos[i]))
		switch {
		case dir[i] > 0:
			step[i] = 1
			tDelta[i] = 1 / dir[i]
			tMax[i] = (float64(cell[i]+1) - pos[i]) / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tDelta[i] = -1 / dir[i]
			tMax[i] = (pos[i] - float64(cell[i])) / -dir[i]
		default:
			tDelta[i] = math.Inf(1)
			tMax[i] = math.Inf(1)
		}
	}

	t := 0.0
	for t <= maxDistance {
		id, err := s.BlockAt(ctx, cell)
		if err != nil {
			return commands.Hit{}, false, err
		}
		solid, err := s.isSolid(ctx, id)
		if err != nil {
			return commands.Hit{}, false, err
		}
		if solid {
			return commands.Hit{Voxel: cell, Value: id}, true, nil
		}
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
	}
	return commands.Hit{}, false, nil
}

func (s *WorldService) isSolid(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.solid == nil {
		types, err := s.Types.List(ctx)
		if err != nil {
			return false, fmt.Errorf("load block types: %w", err)
		}
		s.solid = make(map[int]bool, len(types))
		for _, bt := range types {
			s.solid[bt.ID] = bt.Solid
		}
	}
	return s.solid[id], nil
}

// RaycastVoxels implements commands.World. Storage errors count as a miss.
func (s *WorldService) RaycastVoxels(origin, direction commands.Vec3, maxDistance float64) (commands.Hit, bool) {
	hit, ok, err := s.Raycast(context.Background(), origin, direction, maxDistance)
	if err != nil {
		logger(s.Logger).Warn("raycast failed", zap.Error(err))
		return commands.Hit{}, false
	}
	return hit, ok
}

func (s *WorldService) SetBlock(v commands.Voxel, id int) {
	if err := s.Place(context.Background(), v, id); err != nil {
		logger(s.Logger).Warn("set block failed", zap.Error(err))
	}
}

func (s *WorldService) CameraPosition() commands.Vec3 { return s.Camera.CameraPosition() }

func (s *WorldService) CameraVector() commands.Vec3 { return s.Camera.CameraVector() }
