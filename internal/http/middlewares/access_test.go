package middlewares_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/geocoder89/postboard/internal/flash"
	"github.com/geocoder89/postboard/internal/http/middlewares"
	"github.com/geocoder89/postboard/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireLogin(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	m, signer := newSessions(store)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", middlewares.RequireLogin(m, "/login"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	id, err := signer.Verify(cookies[0].Value)
	require.NoError(t, err)

	stored, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{middlewares.MsgLoginRequired}, stored.TakeFlash().Get(flash.Error))

	sess := session.New()
	sess.SetUser("u-1", "Ann")
	require.NoError(t, store.Save(context.Background(), sess))
	token, _ := signer.Sign(sess.ID)

	w = serve(r, &http.Cookie{Name: "sid", Value: token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	m, signer := newSessions(store)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", middlewares.RedirectIfAuthenticated("/home"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, nil).Code)

	sess := session.New()
	sess.SetUser("u-1", "Ann")
	require.NoError(t, store.Save(context.Background(), sess))
	token, _ := signer.Sign(sess.ID)

	w := serve(r, &http.Cookie{Name: "sid", Value: token})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))
}
