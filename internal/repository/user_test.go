package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"chirper/internal/cache"
	"chirper/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	user := &models.User{Username: "user1", Name: "User 1", Email: "user1@test.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, uint(1), user.ID)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(ctx, &models.User{Username: "user1", Name: "Dup", Email: "dup@test.com", Password: "hash"})
	assert.True(t, models.IsCode(err, models.CodeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	cache.SetClient(nil)
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name          string
		userID        uint
		mockBehavior  func()
		expectedError bool
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}).
					AddRow(1, "testuser", "test@example.com", now, now)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedError {
				assert.True(t, models.IsCode(err, models.CodeUserNotFound))
			} else if assert.NotNil(t, user) {
				assert.Equal(t, "testuser", user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
