package middlewares_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/postboard/internal/actorctx"
	"github.com/geocoder89/postboard/internal/flash"
	"github.com/geocoder89/postboard/internal/http/middlewares"
	"github.com/geocoder89/postboard/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type brokenStore struct{ session.Store }

func (brokenStore) Load(context.Context, string) (*session.Session, error) {
	return nil, errors.New("redis down")
}

func newSessions(store session.Store) (*middlewares.Sessions, *session.Signer) {
	signer := session.NewSigner("secret", time.Hour)
	return middlewares.NewSessions(store, signer, middlewares.SessionOptions{CookieName: "sid"}, discardLog), signer
}

func serve(r *gin.Engine, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessions_CommitReissuesCookieForTouchedSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	m, signer := newSessions(store)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", func(c *gin.Context) {
		middlewares.SessionFrom(c).Push(flash.Success, "hi")
		require.NoError(t, m.Commit(c))
		c.Status(http.StatusNoContent)
	})

	w := serve(r, nil)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	id, err := signer.Verify(cookies[0].Value)
	require.NoError(t, err)

	stored, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Flash.Len())

	// same session touched again: the cookie is reissued with a full lifetime
	w = serve(r, cookies[0])
	again := w.Result().Cookies()
	require.Len(t, again, 1)
	assert.Equal(t, int(time.Hour.Seconds()), again[0].MaxAge)

	againID, err := signer.Verify(again[0].Value)
	require.NoError(t, err)
	assert.Equal(t, id, againID)
	assert.Equal(t, 1, store.Len())
}

func TestSessions_UntouchedSessionKeepsItsCookie(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	m, signer := newSessions(store)

	sess := session.New()
	require.NoError(t, store.Save(context.Background(), sess))
	token, _ := signer.Sign(sess.ID)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", func(c *gin.Context) {
		require.NoError(t, m.Commit(c))
		c.Status(http.StatusNoContent)
	})

	w := serve(r, &http.Cookie{Name: "sid", Value: token})
	assert.Empty(t, w.Result().Cookies())
}

func TestSessions_LoginRotatesStoredSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	m, signer := newSessions(store)

	anon := session.New()
	anon.Push(flash.Error, "Please log in to view that resource.")
	require.NoError(t, store.Save(context.Background(), anon))
	token, _ := signer.Sign(anon.ID)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", func(c *gin.Context) {
		middlewares.SessionFrom(c).SetUser("u-1", "Ann")
		require.NoError(t, m.Commit(c))
		c.Status(http.StatusNoContent)
	})

	w := serve(r, &http.Cookie{Name: "sid", Value: token})
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	newID, err := signer.Verify(cookies[0].Value)
	require.NoError(t, err)
	assert.NotEqual(t, anon.ID, newID)

	_, err = store.Load(context.Background(), anon.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	loaded, err := store.Load(context.Background(), newID)
	require.NoError(t, err)
	assert.Equal(t, "u-1", loaded.UserID)
	assert.Equal(t, 1, store.Len())
}

func TestSessions_UntouchedNewSessionIsNotStored(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	m, _ := newSessions(store)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", func(c *gin.Context) {
		require.NoError(t, m.Commit(c))
		c.Status(http.StatusNoContent)
	})

	w := serve(r, nil)
	assert.Empty(t, w.Result().Cookies())
	assert.Zero(t, store.Len())
}

func TestSessions_LoadsAuthenticatedSessionIntoContext(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	m, signer := newSessions(store)

	sess := session.New()
	sess.SetUser("u-1", "Ann")
	require.NoError(t, store.Save(context.Background(), sess))

	token, err := signer.Sign(sess.ID)
	require.NoError(t, err)

	var gotUser string
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", func(c *gin.Context) {
		gotUser, _ = actorctx.UserIDFrom(c.Request.Context())
		assert.True(t, middlewares.SessionFrom(c).Authenticated())
		c.Status(http.StatusNoContent)
	})

	serve(r, &http.Cookie{Name: "sid", Value: token})
	assert.Equal(t, "u-1", gotUser)
}

func TestSessions_StoreErrorFallsBackToFreshSession(t *testing.T) {
	m, signer := newSessions(brokenStore{})
	token, err := signer.Sign("abc")
	require.NoError(t, err)

	var sess *session.Session
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", func(c *gin.Context) {
		sess = middlewares.SessionFrom(c)
		c.Status(http.StatusNoContent)
	})

	serve(r, &http.Cookie{Name: "sid", Value: token})
	require.NotNil(t, sess)
	assert.True(t, sess.IsNew())
	assert.NotEqual(t, "abc", sess.ID)
}

func TestSessions_DestroyDeletesAndExpiresCookie(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	m, signer := newSessions(store)

	sess := session.New()
	sess.SetUser("u-1", "Ann")
	require.NoError(t, store.Save(context.Background(), sess))
	token, _ := signer.Sign(sess.ID)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", func(c *gin.Context) {
		require.NoError(t, m.Destroy(c))
		assert.False(t, middlewares.SessionFrom(c).Authenticated())
		c.Status(http.StatusNoContent)
	})

	w := serve(r, &http.Cookie{Name: "sid", Value: token})
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
	assert.Zero(t, store.Len())
}
