package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"terrapulse/internal/catalog"
	"terrapulse/internal/config"
	"terrapulse/internal/db"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Seed the TerraPulse database",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for database work")
	cmd.AddCommand(catalogCmd(&timeout), indexesCmd(&timeout))
	return cmd
}

func catalogCmd(timeout *time.Duration) *cobra.Command {
	var drop, dryRun bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Upsert the embedded NFT catalog into the nfts collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()

			svc, err := catalog.LoadService(ctx, catalog.NewEmbeddedSource())
			if err != nil {
				return err
			}
			items := svc.Items()

			if dryRun {
				for _, item := range items {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%d %s\n", item.ID, item.Slug, item.Category, item.Price, item.Currency)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d items, nothing written\n", len(items))
				return nil
			}

			return withDatabase(ctx, func(cols *db.Collections) error {
				repo := catalog.NewRepository(cols.NFTs)
				if drop {
					deleted, err := repo.DeleteAll(ctx)
					if err != nil {
						return fmt.Errorf("drop nfts: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "dropped %d items\n", deleted)
				}
				if err := db.EnsureIndexes(ctx, cols); err != nil {
					return fmt.Errorf("ensure indexes: %w", err)
				}
				written, err := repo.Upsert(ctx, items)
				if err != nil {
					return fmt.Errorf("upsert nfts: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d items (%d written)\n", len(items), written)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "delete every stored item first")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the items without writing")
	return cmd
}

func indexesCmd(timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the collection indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()
			return withDatabase(ctx, func(cols *db.Collections) error {
				if err := db.EnsureIndexes(ctx, cols); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
				return nil
			})
		},
	}
}

func withDatabase(ctx context.Context, fn func(cols *db.Collections) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer client.Disconnect(context.Background())
	return fn(cols)
}
