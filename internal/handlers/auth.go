package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/jcamil/bienes-raices/internal/constants"
	"github.com/jcamil/bienes-raices/internal/dto"
	"github.com/jcamil/bienes-raices/internal/services"
)

// AuthHandler coordinates login, registration, confirmation and password
// reset pages.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"Pagina": "Iniciar Sesion",
		"Datos":  dto.LoginForm{},
	})
}

// Login authenticates a user and initializes the session. Unknown email and
// wrong password are reported with the same generic message.
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("failed to bind login form: %v", err)
		renderError(c)
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		render(c, http.StatusOK, "login.html", gin.H{
			"Pagina":  "Iniciar Sesion",
			"Errores": errs,
			"Datos":   form,
		})
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrAccountNotConfirmed):
			render(c, http.StatusOK, "login.html", gin.H{
				"Pagina":  "Iniciar Sesion",
				"Errores": []string{err.Error()},
				"Datos":   form,
			})
		default:
			log.Printf("login failed: %v", err)
			renderError(c)
		}
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		log.Printf("failed to save session: %v", err)
		renderError(c)
		return
	}

	c.Redirect(http.StatusFound, "/mis-propiedades")
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("failed to clear session: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	render(c, http.StatusOK, "registro.html", gin.H{
		"Pagina": "Crear Cuenta",
		"Datos":  dto.RegisterForm{},
	})
}

// Register creates an unconfirmed account and mails the confirmation link.
func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("failed to bind register form: %v", err)
		renderError(c)
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		render(c, http.StatusOK, "registro.html", gin.H{
			"Pagina":  "Crear Cuenta",
			"Errores": errs,
			"Datos":   form,
		})
		return
	}

	_, err := h.authService.Register(services.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrPasswordTooShort):
			render(c, http.StatusOK, "registro.html", gin.H{
				"Pagina":  "Crear Cuenta",
				"Errores": []string{err.Error()},
				"Datos":   form,
			})
		default:
			log.Printf("registration failed: %v", err)
			renderError(c)
		}
		return
	}

	render(c, http.StatusOK, "mensaje.html", gin.H{
		"Pagina":  "Cuenta Creada Correctamente",
		"Mensaje": "Hemos enviado un email de confirmacion, presiona el enlace",
	})
}

// Confirm consumes the emailed confirmation token.
func (h *AuthHandler) Confirm(c *gin.Context) {
	token := c.Param("token")

	if err := h.authService.Confirm(token); err != nil {
		if errors.Is(err, services.ErrInvalidAccountToken) {
			render(c, http.StatusOK, "mensaje.html", gin.H{
				"Pagina":  "Error al confirmar tu cuenta",
				"Mensaje": "Hubo un error al confirmar tu cuenta, intenta de nuevo",
				"Error":   true,
			})
			return
		}
		log.Printf("confirmation failed: %v", err)
		renderError(c)
		return
	}

	render(c, http.StatusOK, "mensaje.html", gin.H{
		"Pagina":  "Cuenta Confirmada",
		"Mensaje": "La cuenta se confirmo correctamente",
	})
}

// ForgotPasswordForm renders the reset-request page.
func (h *AuthHandler) ForgotPasswordForm(c *gin.Context) {
	render(c, http.StatusOK, "olvide_password.html", gin.H{
		"Pagina": "Recupera tu acceso a Bienes Raices",
	})
}

// ForgotPassword issues a reset token and mails the reset link.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var form dto.ForgotPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("failed to bind forgot-password form: %v", err)
		renderError(c)
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		render(c, http.StatusOK, "olvide_password.html", gin.H{
			"Pagina":  "Recupera tu acceso a Bienes Raices",
			"Errores": errs,
		})
		return
	}

	if err := h.authService.RequestPasswordReset(form.Email); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			render(c, http.StatusOK, "olvide_password.html", gin.H{
				"Pagina":  "Recupera tu acceso a Bienes Raices",
				"Errores": []string{err.Error()},
			})
			return
		}
		log.Printf("password reset request failed: %v", err)
		renderError(c)
		return
	}

	render(c, http.StatusOK, "mensaje.html", gin.H{
		"Pagina":  "Reestablece tu Password",
		"Mensaje": "Hemos enviado un email con las instrucciones",
	})
}

// ResetPasswordForm verifies a reset token and renders the new-password page.
func (h *AuthHandler) ResetPasswordForm(c *gin.Context) {
	token := c.Param("token")

	if err := h.authService.CheckResetToken(token); err != nil {
		if errors.Is(err, services.ErrInvalidAccountToken) {
			render(c, http.StatusOK, "mensaje.html", gin.H{
				"Pagina":  "Reestablece tu Password",
				"Mensaje": "Hubo un error al validar tu informacion, intenta de nuevo",
				"Error":   true,
			})
			return
		}
		log.Printf("reset token check failed: %v", err)
		renderError(c)
		return
	}

	render(c, http.StatusOK, "nuevo_password.html", gin.H{
		"Pagina": "Reestablece tu Password",
		"Token":  token,
	})
}

// ResetPassword consumes the reset token and stores the new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")

	var form dto.NewPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("failed to bind new-password form: %v", err)
		renderError(c)
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		render(c, http.StatusOK, "nuevo_password.html", gin.H{
			"Pagina":  "Reestablece tu Password",
			"Errores": errs,
			"Token":   token,
		})
		return
	}

	if err := h.authService.ResetPassword(token, form.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAccountToken):
			render(c, http.StatusOK, "mensaje.html", gin.H{
				"Pagina":  "Reestablece tu Password",
				"Mensaje": "Hubo un error al validar tu informacion, intenta de nuevo",
				"Error":   true,
			})
		case errors.Is(err, services.ErrPasswordTooShort):
			render(c, http.StatusOK, "nuevo_password.html", gin.H{
				"Pagina":  "Reestablece tu Password",
				"Errores": []string{err.Error()},
				"Token":   token,
			})
		default:
			log.Printf("password reset failed: %v", err)
			renderError(c)
		}
		return
	}

	render(c, http.StatusOK, "mensaje.html", gin.H{
		"Pagina":  "Password Reestablecido",
		"Mensaje": "El Password se guardo correctamente",
	})
}
