package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/jcamil/bienes-raices/internal/constants"
	"github.com/jcamil/bienes-raices/internal/utils"
)

const csrfFormField = "_csrf"
const csrfHeader = "X-CSRF-Token"

// CSRF issues a per-session token and validates it on every mutating
// request, either from the hidden form field or the request header.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(constants.SessionKeyCSRF).(string)
		if token == "" {
			generated, err := utils.GenerateRandomToken()
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			token = generated
			session.Set(constants.SessionKeyCSRF, token)
			if err := session.Save(); err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}
		c.Set(constants.SessionKeyCSRF, token)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			sent := c.PostForm(csrfFormField)
			if sent == "" {
				sent = c.GetHeader(csrfHeader)
			}
			if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}

		c.Next()
	}
}

// CSRFToken returns the token for the current request, for templates.
func CSRFToken(c *gin.Context) string {
	token, _ := c.Get(constants.SessionKeyCSRF)
	s, _ := token.(string)
	return s
}
