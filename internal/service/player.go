package service

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/commands"
	"github.com/jask/voxelcmd/internal/prefs"
)

// EyeHeight is the camera offset above the player's feet.
const EyeHeight = 1.6

// Spawn is where players start and where Home sends them until a home is saved.
var Spawn = commands.Vec3{X: 0.5, Y: 0, Z: 0.5}

// HomeStore persists the home position.
type HomeStore interface {
	SaveHome(prefs.Home) error
	LoadHome() (prefs.Home, bool, error)
}

// PlayerService implements commands.Player and the camera used by the world.
// Yaw is measured in radians around +Y from -Z; pitch is positive looking up.
type PlayerService struct {
	Homes  HomeStore
	Logger *zap.Logger

	mu         sync.Mutex
	pos        commands.Vec3
	yaw, pitch float64
}

// NewPlayer places a player at spawn looking straight ahead.
func NewPlayer(homes HomeStore, logger *zap.Logger) *PlayerService {
	return &PlayerService{Homes: homes, Logger: logger, pos: Spawn}
}

func (p *PlayerService) MoveTo(x, y, z float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = commands.Vec3{X: x, Y: y, Z: z}
}

func (p *PlayerService) Position() commands.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

// Look sets the view direction. Pitch is clamped to straight up or down.
func (p *PlayerService) Look(yaw, pitch float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.yaw = yaw
	p.pitch = max(-math.Pi/2, min(math.Pi/2, pitch))
}

// Home teleports to the saved home, or to spawn when none is saved.
func (p *PlayerService) Home() {
	target := Spawn
	if p.Homes != nil {
		h, ok, err := p.Homes.LoadHome()
		switch {
		case err != nil:
			logger(p.Logger).Warn("load home failed", zap.Error(err))
		case ok:
			target = commands.Vec3{X: h.X, Y: h.Y, Z: h.Z}
		}
	}
	p.MoveTo(target.X, target.Y, target.Z)
}

// SetHome saves the current position as home.
func (p *PlayerService) SetHome() error {
	pos := p.Position()
	if p.Homes == nil {
		return nil
	}
	return p.Homes.SaveHome(prefs.Home{X: pos.X, Y: pos.Y, Z: pos.Z})
}

func (p *PlayerService) CameraPosition() commands.Vec3 {
	pos := p.Position()
	pos.Y += EyeHeight
	return pos
}

func (p *PlayerService) CameraVector() commands.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := math.Cos(p.pitch)
	return commands.Vec3{
		X: -math.Sin(p.yaw) * cp,
		Y: math.Sin(p.pitch),
		Z: -math.Cos(p.yaw) * cp,
	}
}
