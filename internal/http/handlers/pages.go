package handlers

import (
	"net/http"

	"github.com/geocoder89/postboard/internal/flash"
	"github.com/geocoder89/postboard/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// PageView is what a template would render: the page name plus the flash
// messages consumed by this request.
type PageView struct {
	Page       string    `json:"page"`
	SuccessMsg []string  `json:"success_msg"`
	ErrorMsg   []string  `json:"error_msg"`
	User       *UserView `json:"user,omitempty"`
}

type UserView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PagesHandler struct {
	sessions SessionCommitter
}

func NewPagesHandler(sessions SessionCommitter) *PagesHandler {
	return &PagesHandler{sessions: sessions}
}

func (h *PagesHandler) Register(ctx *gin.Context) {
	h.render(ctx, "register")
}

func (h *PagesHandler) Login(ctx *gin.Context) {
	h.render(ctx, "login")
}

func (h *PagesHandler) Home(ctx *gin.Context) {
	h.render(ctx, "home")
}

func (h *PagesHandler) render(ctx *gin.Context, page string) {
	view := PageView{
		Page:       page,
		SuccessMsg: []string{},
		ErrorMsg:   []string{},
	}

	sess := middlewares.SessionFrom(ctx)

	if sess != nil {
		msgs := sess.TakeFlash()
		view.SuccessMsg = msgs.Get(flash.Success)
		view.ErrorMsg = msgs.Get(flash.Error)

		if sess.Authenticated() {
			view.User = &UserView{ID: sess.UserID, Name: sess.Name}
		}
	}

	// flashes are one-shot; persist their removal before answering
	if err := h.sessions.Commit(ctx); err != nil {
		_ = ctx.Error(err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, view)
}
