// Package sample builds a small demo structure so a fresh world has something
// to point the block command at.
package sample

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/jask/voxelcmd/internal/commands"
)

// Placer writes blocks.
type Placer interface {
	Place(ctx context.Context, v commands.Voxel, id int) error
}

// Blocks resolves block names.
type Blocks interface {
	BlockIndex(name string) (int, bool)
}

// Result counts what Build placed.
type Result struct {
	Blocks int
	Rocks  int
}

// Build puts a 5x5 hut with its floor at origin and scatters a few rocks
// around it. seed fixes the rock layout. The first corner post gets a sign.
func Build(ctx context.Context, world Placer, data commands.BlockData, names Blocks, origin commands.Voxel, seed uint64) (Result, error) {
	ids := map[string]int{}
	for _, name := range []string{"plankOak", "logOak", "glass", "cobblestone"} {
		id, ok := names.BlockIndex(name)
		if !ok {
			return Result{}, fmt.Errorf("sample needs block %s", name)
		}
		ids[name] = id
	}

	var res Result
	place := func(dx, dy, dz int, id int) error {
		v := commands.Voxel{origin[0] + dx, origin[1] + dy, origin[2] + dz}
		if err := world.Place(ctx, v, id); err != nil {
			return err
		}
		res.Blocks++
		return nil
	}

	const size, height = 5, 3
	for x := range size {
		for z := range size {
			if err := place(x, 0, z, ids["plankOak"]); err != nil {
				return res, err
			}
			edgeX, edgeZ := x == 0 || x == size-1, z == 0 || z == size-1
			for y := 1; y <= height; y++ {
				var id int
				switch {
				case edgeX && edgeZ:
					id = ids["logOak"]
				case x == size/2 && z == 0 && y <= 2:
					continue // doorway
				case (edgeX || edgeZ) && y == 2:
					id = ids["glass"]
				case edgeX || edgeZ:
					id = ids["plankOak"]
				default:
					continue
				}
				if err := place(x, y, z, id); err != nil {
					return res, err
				}
			}
			if err := place(x, height+1, z, ids["plankOak"]); err != nil {
				return res, err
			}
		}
	}
	if data != nil {
		data.Set(origin[0], origin[1]+1, origin[2], map[string]any{"text": "Welcome home"})
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rocks := map[[2]int]bool{}
	for range 6 {
		dx, dz := rng.IntN(15)-5, rng.IntN(15)-5
		if dx >= -1 && dx <= size && dz >= -1 && dz <= size || rocks[[2]int{dx, dz}] {
			continue
		}
		rocks[[2]int{dx, dz}] = true
		if err := place(dx, 0, dz, ids["cobblestone"]); err != nil {
			return res, err
		}
		res.Rocks++
	}
	return res, nil
}
