package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/commands"
	"github.com/jask/voxelcmd/internal/content"
	"github.com/jask/voxelcmd/internal/database"
	"github.com/jask/voxelcmd/internal/network"
	"github.com/jask/voxelcmd/internal/prefs"
	"github.com/jask/voxelcmd/internal/secrets"
	"github.com/jask/voxelcmd/internal/service"
	"github.com/jask/voxelcmd/internal/tui"
)

var (
	serverURL  string
	playerName string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the console",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serverURL != "" {
			cfg.Network.ServerURL = serverURL
		}
		if playerName != "" {
			cfg.Player.Name = playerName
		}
		return runPlay(cmd.Context())
	},
}

func init() {
	playCmd.Flags().StringVar(&serverURL, "server", "", "hub websocket URL, e.g. ws://localhost:8765/ws")
	playCmd.Flags().StringVar(&playerName, "name", "", "player name shown to others")
}

// openWorld migrates, opens and seeds the world database.
func openWorld(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	pack, err := loadPack()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := database.SeedDefaults(ctx, db, pack); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	return db, nil
}

func loadPack() (content.Pack, error) {
	if cfg.World.Content == "" {
		return content.Default()
	}
	return content.Load(cfg.World.Content)
}

func runPlay(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := openWorld(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	homes, err := prefs.Default()
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	svc, err := service.New(ctx, db, homes, logger)
	if err != nil {
		return err
	}

	console := tui.NewConsole("voxelcmd - "+cfg.Player.Name, cfg.Console.Prompt)
	program := tea.NewProgram(console, tea.WithAltScreen())

	var net commands.Network
	status := "offline"
	if cfg.Network.ServerURL != "" {
		client, err := dialHub(ctx, tui.Post(program))
		if err != nil {
			logger.Warn("hub unavailable", zap.String("url", cfg.Network.ServerURL), zap.Error(err))
			console.Log(fmt.Sprintf("Could not connect to %s: %v", cfg.Network.ServerURL, err))
		} else {
			defer client.Close()
			net = client
			status = "online: " + cfg.Network.ServerURL
		}
	}
	console.SetStatus(status)

	interp, err := commands.New(svc.Deps(console, net, cfg.World.ReachDistance), commands.WithLogger(logger))
	if err != nil {
		return err
	}
	sethome := commands.Func(func([]string) {
		if err := svc.Player.SetHome(); err != nil {
			console.Log(fmt.Sprintf("Failed to save home: %v", err))
			return
		}
		console.Log("Home saved")
	})
	if err := interp.Register("sethome", sethome, "", "save the current position as home"); err != nil {
		return err
	}
	if err := svc.Plugins.Host(interp); err != nil {
		return err
	}
	if err := svc.Plugins.Host(&service.WeatherPlugin{Host: interp, Console: console}); err != nil {
		return err
	}
	if err := svc.Plugins.Restore(ctx); err != nil {
		return err
	}
	if !interp.Enabled() {
		// the console is useless without the interpreter
		svc.Plugins.Enable(commands.PluginName)
	}

	console.Log("Type " + commands.Marker + "help for commands")
	_, err = program.Run()
	return err
}

func dialHub(ctx context.Context, post func(func())) (*network.Client, error) {
	opts := []network.DialOption{
		network.WithName(cfg.Player.Name),
		network.WithPost(post),
		network.WithLogger(logger.Named("network")),
	}
	if store, err := secrets.Default(); err == nil {
		token, err := store.FetchToken(cfg.Network.ServerURL)
		switch {
		case err == nil:
			opts = append(opts, network.WithToken(token))
		case !errors.Is(err, secrets.ErrNoToken):
			logger.Warn("read hub token failed", zap.Error(err))
		}
	}
	return network.Dial(ctx, cfg.Network.ServerURL, opts...)
}
