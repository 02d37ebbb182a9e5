package seed

import (
	"context"
	"fmt"
	"log/slog"

	"chirper/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "password123"

// Options controls how much data Generate produces.
type Options struct {
	Users            int
	TweetsPerUser    int
	CommentsPerTweet int
	Seed             int64
}

// Summary counts the rows a seeding run inserted.
type Summary struct {
	Users    int
	Tweets   int
	Comments int
}

// Seeder writes demo data through a gorm handle.
type Seeder struct {
	db     *gorm.DB
	logger *slog.Logger
	cost   int
}

// NewSeeder creates a seeder bound to db.
func NewSeeder(db *gorm.DB, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, logger: logger, cost: bcrypt.DefaultCost}
}

// Generate inserts fake users, each with tweets that carry comments, in one
// transaction.
func (s *Seeder) Generate(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	if opts.Users <= 0 {
		return sum, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), s.cost)
	if err != nil {
		return sum, fmt.Errorf("hash default password: %w", err)
	}
	f := NewFactory(opts.Seed, string(hash))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sum = Summary{}
		for i := 0; i < opts.Users; i++ {
			user := f.User()
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			sum.Users++

			for j := 0; j < opts.TweetsPerUser; j++ {
				tweet := f.Tweet(user)
				if err := tx.Create(tweet).Error; err != nil {
					return fmt.Errorf("create tweet: %w", err)
				}
				sum.Tweets++

				if opts.CommentsPerTweet <= 0 {
					continue
				}
				comments := make([]*models.Comment, 0, opts.CommentsPerTweet)
				for k := 0; k < opts.CommentsPerTweet; k++ {
					comments = append(comments, f.Comment(tweet))
				}
				if err := tx.CreateInBatches(comments, 100).Error; err != nil {
					return fmt.Errorf("create comments: %w", err)
				}
				sum.Comments += len(comments)
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	s.logger.InfoContext(ctx, "seeded generated data",
		slog.Int("users", sum.Users), slog.Int("tweets", sum.Tweets), slog.Int("comments", sum.Comments))
	return sum, nil
}
