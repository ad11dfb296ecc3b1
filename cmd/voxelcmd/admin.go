package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/voxelcmd/internal/commands"
	"github.com/jask/voxelcmd/internal/sample"
	"github.com/jask/voxelcmd/internal/secrets"
	"github.com/jask/voxelcmd/internal/service"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage hub tokens",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <server-url> <token>",
	Short: "Store the token sent to a hub",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.Default()
		if err != nil {
			return err
		}
		if err := store.StoreToken(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored token for %s\n", args[0])
		return nil
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:   "delete <server-url>",
	Short: "Forget the token for a hub",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.Default()
		if err != nil {
			return err
		}
		return store.DeleteToken(args[0])
	},
}

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe placed blocks, block data, the inventory and plugin state",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return fmt.Errorf("refusing to reset %s without --yes", cfg.Database.Path)
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		db, err := openWorld(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := (&service.MaintenanceService{DB: db}).Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "world reset")
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenDeleteCmd)
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm")
}

var sampleSeed uint64

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Build a small hut next to spawn",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		db, err := openWorld(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		svc, err := service.New(ctx, db, nil, logger)
		if err != nil {
			return err
		}
		res, err := sample.Build(ctx, svc.World, svc.BlockData, svc.Registry, commands.Voxel{3, 0, -8}, sampleSeed)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "placed %d blocks (%d rocks)\n", res.Blocks, res.Rocks)
		return nil
	},
}

func init() {
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 1, "rock layout seed")
	rootCmd.AddCommand(sampleCmd)
}
