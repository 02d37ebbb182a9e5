package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"chirper/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is the layout of a fixtures file: users own tweets, tweets own
// comments.
type Fixtures struct {
	Users []UserFixture `yaml:"users"`
}

type UserFixture struct {
	Username string         `yaml:"username"`
	Name     string         `yaml:"name"`
	Email    string         `yaml:"email"`
	Password string         `yaml:"password"`
	Role     string         `yaml:"role"`
	Tweets   []TweetFixture `yaml:"tweets"`
}

type TweetFixture struct {
	Text        string           `yaml:"text"`
	LikeCounter int              `yaml:"likeCounter"`
	Comments    []CommentFixture `yaml:"comments"`
}

type CommentFixture struct {
	Text        string `yaml:"text"`
	LikeCounter int    `yaml:"likeCounter"`
}

// LoadFixtures decodes a fixtures document. Unknown keys are rejected.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		if err == io.EOF {
			return &fx, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &fx, nil
}

// LoadFixturesFile reads fixtures from path.
func LoadFixturesFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadFixtures(f)
}

// ApplyFixtures inserts the fixtures in one transaction. Users are validated
// the same way the API validates them; any failure rolls everything back.
func (s *Seeder) ApplyFixtures(ctx context.Context, fx *Fixtures) (Summary, error) {
	var sum Summary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sum = Summary{}
		for i, uf := range fx.Users {
			role := strings.TrimSpace(uf.Role)
			if role == "" {
				role = models.RoleUser
			}
			user := &models.User{
				Username: uf.Username,
				Name:     uf.Name,
				Email:    strings.ToLower(uf.Email),
				Password: uf.Password,
				Role:     role,
			}
			if err := user.Validate(); err != nil {
				return fmt.Errorf("user %d (%s): %w", i, uf.Username, err)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(uf.Password), s.cost)
			if err != nil {
				return fmt.Errorf("hash password of %s: %w", uf.Username, err)
			}
			user.Password = string(hash)
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("create user %s: %w", uf.Username, err)
			}
			sum.Users++

			for _, tf := range uf.Tweets {
				tweet := &models.Tweet{Text: tf.Text, LikeCounter: tf.LikeCounter, UserID: user.ID}
				if err := tweet.Validate(); err != nil {
					return fmt.Errorf("tweet of %s: %w", uf.Username, err)
				}
				if err := tx.Create(tweet).Error; err != nil {
					return fmt.Errorf("create tweet: %w", err)
				}
				sum.Tweets++

				for _, cf := range tf.Comments {
					if strings.TrimSpace(cf.Text) == "" || cf.LikeCounter < 0 {
						return fmt.Errorf("invalid comment on tweet %d", tweet.ID)
					}
					comment := &models.Comment{Text: cf.Text, LikeCounter: cf.LikeCounter, TweetID: tweet.ID}
					if err := tx.Create(comment).Error; err != nil {
						return fmt.Errorf("create comment: %w", err)
					}
					sum.Comments++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	s.logger.InfoContext(ctx, "applied fixtures",
		slog.Int("users", sum.Users), slog.Int("tweets", sum.Tweets), slog.Int("comments", sum.Comments))
	return sum, nil
}
