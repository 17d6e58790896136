package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jcamil/bienes-raices/internal/middleware"
)

// render fills the keys every template expects (page title is set by the
// caller) and writes the response.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CSRFToken"] = middleware.CSRFToken(c)
	if userID, ok := middleware.GetUserID(c); ok {
		data["UserID"] = userID
	}
	c.HTML(status, name, data)
}

// renderError is the generic failure page for unexpected storage or
// filesystem errors. The cause is logged by the caller, never shown.
func renderError(c *gin.Context) {
	render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Pagina": "Error",
	})
}
