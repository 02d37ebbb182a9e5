// Package seed fills a database with demo data, either generated or loaded
// from a YAML fixtures file. It is meant for development and tests.
package seed

import (
	"fmt"
	"strings"

	"chirper/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

const maxTweetLength = 280

// Factory builds domain entities with fake content. It does not persist them.
type Factory struct {
	faker        *gofakeit.Faker
	passwordHash string
	seq          int
}

// NewFactory creates a factory. A zero seed picks a random one. Every built
// user gets passwordHash as its password.
func NewFactory(seed int64, passwordHash string) *Factory {
	return &Factory{faker: gofakeit.New(seed), passwordHash: passwordHash}
}

// User builds a user whose username and email are unique within the factory.
func (f *Factory) User() *models.User {
	f.seq++
	handle := strings.ToLower(f.faker.Username())
	if len(handle) > 40 {
		handle = handle[:40]
	}
	return &models.User{
		Username: fmt.Sprintf("%s%d", handle, f.seq),
		Name:     f.faker.Name(),
		Email:    fmt.Sprintf("%s%d@%s", handle, f.seq, f.faker.DomainName()),
		Password: f.passwordHash,
		Role:     models.RoleUser,
	}
}

// Tweet builds a tweet owned by user.
func (f *Factory) Tweet(user *models.User) *models.Tweet {
	return &models.Tweet{
		Text:        clip(f.faker.HipsterSentence(f.faker.Number(4, 18)), maxTweetLength),
		LikeCounter: f.faker.Number(0, 250),
		UserID:      user.ID,
	}
}

// Comment builds a comment on tweet.
func (f *Factory) Comment(tweet *models.Tweet) *models.Comment {
	return &models.Comment{
		Text:        f.faker.Sentence(f.faker.Number(3, 12)),
		LikeCounter: f.faker.Number(0, 40),
		TweetID:     tweet.ID,
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
