package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/postboard/internal/auth"
	"github.com/geocoder89/postboard/internal/flash"
	"github.com/geocoder89/postboard/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
)

type Authenticator interface {
	Register(ctx context.Context, in auth.Registration, notify flash.Notifier) (auth.Redirect, error)
	Login(ctx context.Context, in auth.Credentials, sess auth.SessionWriter, notify flash.Notifier) (auth.Redirect, error)
}

type SessionCommitter interface {
	Commit(ctx *gin.Context) error
	Destroy(ctx *gin.Context) error
}

type AuthHandler struct {
	svc      Authenticator
	sessions SessionCommitter
	timeout  time.Duration
	log      *slog.Logger
}

// NewAuthHandler wires the form endpoints. A zero timeout leaves the auth
// calls bounded only by the client connection.
func NewAuthHandler(svc Authenticator, sessions SessionCommitter, timeout time.Duration, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		sessions: sessions,
		timeout:  timeout,
		log:      log,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var in auth.Registration

	if !BindForm(ctx, &in) {
		return
	}

	sess := middlewares.SessionFrom(ctx)

	cctx, cancel := h.withTimeout(ctx.Request.Context())
	defer cancel()

	to, err := h.svc.Register(cctx, in, sess)

	if err != nil {
		h.fail(ctx, "register", err)
		return
	}

	h.redirect(ctx, to)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var in auth.Credentials

	if !BindForm(ctx, &in) {
		return
	}

	sess := middlewares.SessionFrom(ctx)

	cctx, cancel := h.withTimeout(ctx.Request.Context())
	defer cancel()

	to, err := h.svc.Login(cctx, in, sess, sess)

	if err != nil {
		h.fail(ctx, "login", err)
		return
	}

	h.redirect(ctx, to)
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	if err := h.sessions.Destroy(ctx); err != nil {
		h.fail(ctx, "logout", err)
		return
	}

	ctx.Redirect(http.StatusFound, string(auth.RedirectLogin))
}

func (h *AuthHandler) redirect(ctx *gin.Context, to auth.Redirect) {
	if err := h.sessions.Commit(ctx); err != nil {
		h.fail(ctx, "session commit", err)
		return
	}

	ctx.Redirect(http.StatusFound, string(to))
}

func (h *AuthHandler) fail(ctx *gin.Context, op string, err error) {
	attrs := []any{"op", op, "request_id", requestIDFrom(ctx), "err", err}

	if oopsErr, ok := oops.AsOops(err); ok {
		attrs = append(attrs, "code", oopsErr.Code())
	}

	h.log.ErrorContext(ctx.Request.Context(), "auth request failed", attrs...)
	_ = ctx.Error(err)

	RespondInternal(ctx)
}

func (h *AuthHandler) withTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(parent)
	}

	return context.WithTimeout(parent, h.timeout)
}
