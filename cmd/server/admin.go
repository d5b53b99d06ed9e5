package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ipl-prediction-backend/internal/database"
	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/services"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := database.AutoMigrate(a.db); err != nil {
				return err
			}
			fmt.Println("Migration completed")
			return nil
		},
	}
}

func recomputeRanksCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-ranks",
		Short: "Reassign every user's rank from current points",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			if err := services.NewRankingService(a.store).RecomputeRanks(ctx); err != nil {
				return err
			}
			fmt.Println("Ranks recomputed")
			return nil
		},
	}
}

func createAdminCmd(configPath *string) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator or promote an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}

			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			auth := services.NewAuthService(a.store, a.cfg.Auth.JWTSecret, time.Duration(a.cfg.Auth.TokenTTLHours)*time.Hour)
			user, err := auth.CreateAdmin(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Printf("Admin %q ready (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// teamsFile is the layout of the seed file:
//
//	teams:
//	  - name: Chennai Super Kings
//	    short_name: CSK
//	    logo_url: https://...
type teamsFile struct {
	Teams []models.Team `yaml:"teams"`
}

func loadTeams(path string) ([]services.TeamInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file teamsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(file.Teams) == 0 {
		return nil, fmt.Errorf("%s lists no teams", path)
	}

	inputs := make([]services.TeamInput, 0, len(file.Teams))
	for _, t := range file.Teams {
		inputs = append(inputs, services.TeamInput{Name: t.Name, ShortName: t.ShortName, LogoURL: t.LogoURL})
	}
	return inputs, nil
}

func seedTeamsCmd(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-teams",
		Short: "Create or refresh teams from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := loadTeams(file)
			if err != nil {
				return err
			}

			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := database.AutoMigrate(a.db); err != nil {
				return err
			}
			created, updated, err := services.NewTeamService(a.store).SeedTeams(cmd.Context(), teams)
			if err != nil {
				return err
			}
			fmt.Printf("Teams seeded: %d created, %d updated\n", created, updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "config/teams.yaml", "Seed file")
	return cmd
}
