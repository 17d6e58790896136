package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jcamil/bienes-raices/internal/services"
)

// homePageSize limits how many recent listings the home page shows.
const homePageSize = 6

// AppHandler serves the public pages: home, not-found, category browsing
// and search.
type AppHandler struct {
	propertyService *services.PropertyService
}

// NewAppHandler creates a new AppHandler
func NewAppHandler(propertyService *services.PropertyService) *AppHandler {
	return &AppHandler{
		propertyService: propertyService,
	}
}

// Home renders the landing page with categories and recent listings.
func (h *AppHandler) Home(c *gin.Context) {
	categories, _, err := h.propertyService.Lookups()
	if err != nil {
		log.Printf("failed to load lookups: %v", err)
		renderError(c)
		return
	}

	properties, err := h.propertyService.Recent(homePageSize)
	if err != nil {
		log.Printf("failed to load recent properties: %v", err)
		renderError(c)
		return
	}

	render(c, http.StatusOK, "home.html", gin.H{
		"Pagina":      "Inicio",
		"Categorias":  categories,
		"Propiedades": properties,
	})
}

// NotFound renders the not-found page.
func (h *AppHandler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{
		"Pagina": "No Encontrada",
	})
}

// Category lists the published properties of one category.
func (h *AppHandler) Category(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/404")
		return
	}

	category, properties, err := h.propertyService.ByCategory(id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			c.Redirect(http.StatusFound, "/404")
			return
		}
		log.Printf("failed to load category: %v", err)
		renderError(c)
		return
	}

	render(c, http.StatusOK, "categoria.html", gin.H{
		"Pagina":      category.Name + "s en Venta",
		"Propiedades": properties,
	})
}

// Search looks up published properties by term. An empty term goes back to
// where the visitor came from.
func (h *AppHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.PostForm("termino"))
	if term == "" {
		referer := c.Request.Referer()
		if referer == "" {
			referer = "/"
		}
		c.Redirect(http.StatusFound, referer)
		return
	}

	properties, err := h.propertyService.Search(term)
	if err != nil {
		log.Printf("failed to search properties: %v", err)
		renderError(c)
		return
	}

	render(c, http.StatusOK, "busqueda.html", gin.H{
		"Pagina":      "Resultados de la Busqueda",
		"Propiedades": properties,
	})
}
