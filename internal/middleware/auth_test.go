package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veikkola/phonebook/internal/auth"
	"github.com/veikkola/phonebook/internal/models"
	"github.com/veikkola/phonebook/internal/storage/sqlite"
)

func TestSessionContext(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	user := &models.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, store.CreateUser(context.Background(), user))

	person := &models.Person{Name: "Bob", Street: "Main St", City: "Town"}
	require.NoError(t, store.CreatePerson(context.Background(), person))
	require.NoError(t, store.AddFriend(context.Background(), user.ID, person.ID))

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.Generate(user)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := SessionContext(jwtManager, store, logger)

	serve := func(header string) *models.User {
		t.Helper()
		var got *models.User
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = CurrentUser(r.Context())
		}))
		req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	t.Run("valid bearer token loads user with friends", func(t *testing.T) {
		got := serve("bearer " + token)
		require.NotNil(t, got)
		assert.Equal(t, "alice", got.Username)
		require.Len(t, got.Friends, 1)
		assert.Equal(t, "Bob", got.Friends[0].Name)
	})

	t.Run("missing header is anonymous", func(t *testing.T) {
		assert.Nil(t, serve(""))
	})

	t.Run("scheme match is case-sensitive lowercase", func(t *testing.T) {
		assert.Nil(t, serve("Bearer "+token))
		assert.Nil(t, serve("BEARER "+token))
		assert.Nil(t, serve("token "+token))
	})

	t.Run("invalid token degrades to anonymous", func(t *testing.T) {
		assert.Nil(t, serve("bearer not-a-token"))
	})

	t.Run("token for deleted user is anonymous", func(t *testing.T) {
		ghost, err := jwtManager.Generate(&models.User{ID: "gone", Username: "ghost"})
		require.NoError(t, err)
		assert.Nil(t, serve("bearer "+ghost))
	})
}
