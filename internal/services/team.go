package services

import (
	"context"
	stderrors "errors"
	"strings"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"
	"ipl-prediction-backend/pkg/logger"

	"gorm.io/gorm"
)

type TeamService struct {
	store *repository.Store
}

func NewTeamService(store *repository.Store) *TeamService {
	return &TeamService{store: store}
}

type TeamInput struct {
	Name      string
	ShortName string
	LogoURL   string
}

func (in TeamInput) normalize() (TeamInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ShortName = strings.ToUpper(strings.TrimSpace(in.ShortName))
	in.LogoURL = strings.TrimSpace(in.LogoURL)
	if in.Name == "" || in.ShortName == "" {
		return in, errors.InvalidArgument("name and short_name are required")
	}
	return in, nil
}

func (s *TeamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.store.Teams.List(ctx)
	if err != nil {
		return nil, errors.Internal("failed to list teams", err)
	}
	return teams, nil
}

func (s *TeamService) GetTeam(ctx context.Context, id uint) (*models.Team, error) {
	team, err := s.store.Teams.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Internal("failed to load team", err)
	}
	if team == nil {
		return nil, errors.NotFound("team not found")
	}
	return team, nil
}

func (s *TeamService) CreateTeam(ctx context.Context, in TeamInput) (*models.Team, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	team := &models.Team{Name: in.Name, ShortName: in.ShortName, LogoURL: in.LogoURL}
	if err := s.store.Teams.Create(ctx, team); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Conflict("team already exists")
		}
		return nil, errors.Internal("failed to create team", err)
	}
	return team, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, id uint, in TeamInput) (*models.Team, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Name = in.Name
	team.ShortName = in.ShortName
	team.LogoURL = in.LogoURL

	if err := s.store.Teams.Save(ctx, team); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Conflict("team already exists")
		}
		return nil, errors.Internal("failed to update team", err)
	}
	return team, nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, id uint) error {
	used, err := s.store.Matches.CountByTeam(ctx, id)
	if err != nil {
		return errors.Internal("failed to check team usage", err)
	}
	if used > 0 {
		return errors.InvalidState("team is used by a match")
	}

	rows, err := s.store.Teams.Delete(ctx, id)
	if err != nil {
		return errors.Internal("failed to delete team", err)
	}
	if rows == 0 {
		return errors.NotFound("team not found")
	}
	return nil
}

// SeedTeams creates teams that do not exist yet and refreshes the short name and
// logo of those that do, matching on name.
func (s *TeamService) SeedTeams(ctx context.Context, teams []TeamInput) (created, updated int, err error) {
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		for _, in := range teams {
			in, err := in.normalize()
			if err != nil {
				return err
			}

			existing, err := tx.Teams.GetByName(ctx, in.Name)
			if err != nil {
				return err
			}
			if existing == nil {
				if err := tx.Teams.Create(ctx, &models.Team{Name: in.Name, ShortName: in.ShortName, LogoURL: in.LogoURL}); err != nil {
					return err
				}
				created++
				continue
			}

			existing.ShortName = in.ShortName
			existing.LogoURL = in.LogoURL
			if err := tx.Teams.Save(ctx, existing); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, 0, passThrough(err, "failed to seed teams")
	}

	logger.WithFields(map[string]interface{}{
		"created": created,
		"updated": updated,
	}).Info("teams seeded")
	return created, updated, nil
}
