package repository

import (
	"context"

	"gorm.io/gorm"
)

// Page is an offset/limit window over a list query.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}

// Store groups the repositories that share one database handle.
type Store struct {
	db            *gorm.DB
	Users         *UserRepository
	Teams         *TeamRepository
	Matches       *MatchRepository
	Polls         *PollRepository
	Votes         *VoteRepository
	Notifications *NotificationRepository
	Comments      *CommentRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Teams:         NewTeamRepository(db),
		Matches:       NewMatchRepository(db),
		Polls:         NewPollRepository(db),
		Votes:         NewVoteRepository(db),
		Notifications: NewNotificationRepository(db),
		Comments:      NewCommentRepository(db),
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// Any error returned by fn rolls the transaction back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
