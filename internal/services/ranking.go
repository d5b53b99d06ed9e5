package services

import (
	"context"
	"sort"

	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"
	"ipl-prediction-backend/pkg/logger"
)

type RankingService struct {
	store *repository.Store
}

func NewRankingService(store *repository.Store) *RankingService {
	return &RankingService{store: store}
}

// AssignRanks orders standings by points descending, breaking ties by user id
// ascending, and returns the 1-based rank of every user. Ranks are contiguous and
// never shared.
func AssignRanks(standings []repository.Standing) map[uint]int {
	ordered := make([]repository.Standing, len(standings))
	copy(ordered, standings)

	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].Points != ordered[b].Points {
			return ordered[a].Points > ordered[b].Points
		}
		return ordered[a].ID < ordered[b].ID
	})

	ranks := make(map[uint]int, len(ordered))
	for i, st := range ordered {
		ranks[st.ID] = i + 1
	}
	return ranks
}

// RecomputeRanks reassigns every user's rank from current points. Only users whose
// rank changed are written.
func (s *RankingService) RecomputeRanks(ctx context.Context) error {
	var updated int
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		standings, err := tx.Users.ListStandings(ctx)
		if err != nil {
			return err
		}

		ranks := AssignRanks(standings)
		for _, st := range standings {
			rank := ranks[st.ID]
			if st.Rank != nil && *st.Rank == rank {
				continue
			}
			if err := tx.Users.UpdateRank(ctx, st.ID, rank); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return errors.Internal("failed to recompute ranks", err)
	}

	logger.WithFields(map[string]interface{}{
		"updated": updated,
	}).Debug("ranks recomputed")
	return nil
}
