package middlewares

import (
	"net/http"

	"github.com/geocoder89/postboard/internal/flash"
	"github.com/gin-gonic/gin"
)

const MsgLoginRequired = "Please log in to view that resource."

// RequireLogin sends anonymous visitors to the login page.
func RequireLogin(sessions *Sessions, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)

		if sess != nil && sess.Authenticated() {
			c.Next()
			return
		}

		if sess != nil {
			sess.Push(flash.Error, MsgLoginRequired)
			if err := sessions.Commit(c); err != nil {
				_ = c.Error(err)
			}
		}

		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
	}
}

// RedirectIfAuthenticated keeps logged-in users off the login and register pages.
func RedirectIfAuthenticated(homePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := SessionFrom(c); sess != nil && sess.Authenticated() {
			c.Redirect(http.StatusFound, homePath)
			c.Abort()
			return
		}

		c.Next()
	}
}
