package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/postboard/internal/actorctx"
	"github.com/geocoder89/postboard/internal/session"
	"github.com/gin-gonic/gin"
)

type SessionOptions struct {
	CookieName string
	Secure     bool
}

// Sessions loads the caller's session before the handler runs and persists
// it afterwards. The cookie only names the session; state lives in the store.
type Sessions struct {
	store  session.Store
	signer *session.Signer
	opts   SessionOptions
	log    *slog.Logger
}

func NewSessions(store session.Store, signer *session.Signer, opts SessionOptions, log *slog.Logger) *Sessions {
	if opts.CookieName == "" {
		opts.CookieName = "postboard.sid"
	}

	return &Sessions{store: store, signer: signer, opts: opts, log: log}
}

func (m *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.load(c)

		c.Set(CtxSession, sess)

		if sess.Authenticated() {
			c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), sess.UserID))
		}

		c.Next()

		// handlers commit before writing; this catches anything touched later
		if sess.Modified() {
			if err := m.persist(c.Request.Context(), sess); err != nil {
				m.log.ErrorContext(c.Request.Context(), "session save failed", "err", err)
			}
		}
	}
}

func (m *Sessions) load(c *gin.Context) *session.Session {
	raw, err := c.Cookie(m.opts.CookieName)
	if err != nil || raw == "" {
		return session.New()
	}

	id, err := m.signer.Verify(raw)
	if err != nil {
		m.log.DebugContext(c.Request.Context(), "ignoring session cookie", "err", err)
		return session.New()
	}

	sess, err := m.store.Load(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			m.log.ErrorContext(c.Request.Context(), "session load failed", "err", err)
		}
		return session.New()
	}

	return sess
}

// Commit persists a touched session and reissues its cookie, so the cookie
// expiry moves with the store TTL that Save just extended. It must run
// before the response is written.
func (m *Sessions) Commit(c *gin.Context) error {
	sess := SessionFrom(c)
	if sess == nil || !sess.Modified() {
		return nil
	}

	if err := m.persist(c.Request.Context(), sess); err != nil {
		return err
	}

	token, err := m.signer.Sign(sess.ID)
	if err != nil {
		return err
	}

	m.setCookie(c, token, int(m.signer.TTL().Seconds()))
	return nil
}

// persist saves sess and drops the entry it was rotated away from on login.
func (m *Sessions) persist(ctx context.Context, sess *session.Session) error {
	old := sess.Replaces()

	if err := m.store.Save(ctx, sess); err != nil {
		return err
	}

	if old == "" {
		return nil
	}

	return m.store.Delete(ctx, old)
}

// Destroy deletes the stored session and expires the cookie. The request
// continues with a fresh anonymous session.
func (m *Sessions) Destroy(c *gin.Context) error {
	if sess := SessionFrom(c); sess != nil {
		if old := sess.Replaces(); old != "" {
			if err := m.store.Delete(c.Request.Context(), old); err != nil {
				return err
			}
		}

		if !sess.IsNew() {
			if err := m.store.Delete(c.Request.Context(), sess.ID); err != nil {
				return err
			}
		}
	}

	c.Set(CtxSession, session.New())
	m.setCookie(c, "", -1)
	return nil
}

func (m *Sessions) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, value, maxAge, "/", "", m.opts.Secure, true)
}

func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(CtxSession)
	if !ok {
		return nil
	}

	sess, _ := v.(*session.Session)
	return sess
}
