package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jcamil/bienes-raices/internal/dto"
	"github.com/jcamil/bienes-raices/internal/middleware"
	"github.com/jcamil/bienes-raices/internal/models"
	"github.com/jcamil/bienes-raices/internal/services"
	"github.com/jcamil/bienes-raices/internal/storage"
	"github.com/jcamil/bienes-raices/internal/utils"
)

// PropertyHandler coordinates the listing lifecycle pages: the owner's
// paginated index, the two-step creation, edit, delete, publish toggle, the
// public detail view, messaging and the inbox.
type PropertyHandler struct {
	propertyService *services.PropertyService
	uploads         *storage.Uploads
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *services.PropertyService, uploads *storage.Uploads) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		uploads:         uploads,
	}
}

// MyProperties renders the owner's paginated index. A "pagina" value that
// is not plain digits redirects to page 1; a page past the data renders an
// empty set.
func (h *PropertyHandler) MyProperties(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	params, ok := utils.ParsePage(c.Query("pagina"))
	if !ok {
		c.Redirect(http.StatusFound, "/mis-propiedades?pagina=1")
		return
	}

	properties, pages, total, err := h.propertyService.ListMine(userID, params)
	if err != nil {
		log.Printf("failed to list properties: %v", err)
		renderError(c)
		return
	}

	pagination := make([]int, 0, pages)
	for i := 1; i <= pages; i++ {
		pagination = append(pagination, i)
	}

	render(c, http.StatusOK, "admin.html", gin.H{
		"Pagina":       "Mis Propiedades",
		"Propiedades":  properties,
		"Paginas":      pages,
		"Paginacion":   pagination,
		"PaginaActual": params.Page,
		"Total":        total,
	})
}

// CreateForm renders the creation form with the reference lookups.
func (h *PropertyHandler) CreateForm(c *gin.Context) {
	categories, prices, err := h.propertyService.Lookups()
	if err != nil {
		log.Printf("failed to load lookups: %v", err)
		renderError(c)
		return
	}

	render(c, http.StatusOK, "crear.html", gin.H{
		"Pagina":     "Crear Propiedad",
		"Categorias": categories,
		"Precios":    prices,
		"Datos":      dto.PropertyForm{},
	})
}

// Create stores a draft listing and moves on to the image step. Validation
// failure re-renders the form with the submitted values and the error list.
func (h *PropertyHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var form dto.PropertyForm
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("failed to bind property form: %v", err)
		renderError(c)
		return
	}

	input, errs := form.Validate()
	if len(errs) > 0 {
		categories, prices, err := h.propertyService.Lookups()
		if err != nil {
			log.Printf("failed to load lookups: %v", err)
			renderError(c)
			return
		}
		render(c, http.StatusOK, "crear.html", gin.H{
			"Pagina":     "Crear Propiedad",
			"Categorias": categories,
			"Precios":    prices,
			"Errores":    errs,
			"Datos":      form,
		})
		return
	}

	property, err := h.propertyService.Create(userID, input)
	if err != nil {
		log.Printf("failed to create property: %v", err)
		renderError(c)
		return
	}

	c.Redirect(http.StatusFound, "/propiedades/agregar-imagen/"+strconv.FormatUint(property.ID, 10))
}

// AddImageForm renders the image upload step for an owned draft.
func (h *PropertyHandler) AddImageForm(c *gin.Context) {
	property, ok := h.draftOrRedirect(c)
	if !ok {
		return
	}

	render(c, http.StatusOK, "agregar_imagen.html", gin.H{
		"Pagina":    "Agregar Imagen: " + property.Title,
		"Propiedad": property,
	})
}

// AddImage stores the uploaded image and publishes the listing: attaching
// the image is what flips the published flag.
func (h *PropertyHandler) AddImage(c *gin.Context) {
	property, ok := h.draftOrRedirect(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("imagen")
	if err != nil {
		render(c, http.StatusOK, "agregar_imagen.html", gin.H{
			"Pagina":    "Agregar Imagen: " + property.Title,
			"Propiedad": property,
			"Errores":   []string{"La Imagen es Obligatoria"},
		})
		return
	}

	filename, err := h.uploads.Save(fileHeader)
	if err != nil {
		log.Printf("failed to store image: %v", err)
		renderError(c)
		return
	}

	if err := h.propertyService.AttachImage(property, filename); err != nil {
		log.Printf("failed to attach image: %v", err)
		renderError(c)
		return
	}

	c.Redirect(http.StatusFound, "/mis-propiedades")
}

// EditForm renders the edit form pre-filled with the stored listing.
func (h *PropertyHandler) EditForm(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/mis-propiedades")
		return
	}

	property, err := h.propertyService.GetOwned(id, userID)
	if err != nil {
		h.redirectOwnedError(c, err)
		return
	}

	categories, prices, err := h.propertyService.Lookups()
	if err != nil {
		log.Printf("failed to load lookups: %v", err)
		renderError(c)
		return
	}

	render(c, http.StatusOK, "editar.html", gin.H{
		"Pagina":      "Editar Propiedad: " + property.Title,
		"PropiedadID": property.ID,
		"Categorias":  categories,
		"Precios":     prices,
		"Datos":       dto.PropertyFormFromModel(property),
	})
}

// Edit replaces the mutable field set of an owned listing.
func (h *PropertyHandler) Edit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/mis-propiedades")
		return
	}

	var form dto.PropertyForm
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("failed to bind property form: %v", err)
		renderError(c)
		return
	}

	input, errs := form.Validate()
	if len(errs) > 0 {
		categories, prices, err := h.propertyService.Lookups()
		if err != nil {
			log.Printf("failed to load lookups: %v", err)
			renderError(c)
			return
		}
		render(c, http.StatusOK, "editar.html", gin.H{
			"Pagina":      "Editar Propiedad",
			"PropiedadID": id,
			"Categorias":  categories,
			"Precios":     prices,
			"Errores":     errs,
			"Datos":       form,
		})
		return
	}

	if err := h.propertyService.Update(id, userID, input); err != nil {
		h.redirectOwnedError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/mis-propiedades")
}

// Delete removes the stored image and then the row. When the image removal
// fails the row is kept and a generic failure page is rendered.
func (h *PropertyHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/mis-propiedades")
		return
	}

	if err := h.propertyService.Delete(id, userID); err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) || errors.Is(err, services.ErrNotOwner) {
			c.Redirect(http.StatusFound, "/mis-propiedades")
			return
		}
		log.Printf("failed to delete property: %v", err)
		renderError(c)
		return
	}

	c.Redirect(http.StatusFound, "/mis-propiedades")
}

// TogglePublished flips the published flag and answers with a
// machine-readable acknowledgement instead of a redirect.
func (h *PropertyHandler) TogglePublished(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/mis-propiedades")
		return
	}

	if err := h.propertyService.TogglePublished(id, userID); err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) || errors.Is(err, services.ErrNotOwner) {
			c.Redirect(http.StatusFound, "/mis-propiedades")
			return
		}
		log.Printf("failed to toggle property: %v", err)
		renderError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resultado": "ok",
	})
}

// Show renders the public detail view. Only existing, published listings
// are visible; anything else goes to the not-found page.
func (h *PropertyHandler) Show(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/404")
		return
	}

	property, err := h.propertyService.GetPublished(id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			c.Redirect(http.StatusFound, "/404")
			return
		}
		log.Printf("failed to load property: %v", err)
		renderError(c)
		return
	}

	render(c, http.StatusOK, "mostrar.html", gin.H{
		"Pagina":     property.Title,
		"Propiedad":  property,
		"EsVendedor": services.IsSeller(viewerID(c), property.UserID),
		"Datos":      dto.MessageForm{},
	})
}

// SendMessage stores a message for the listing owner and redirects home.
// The target only needs to exist; validation failure re-renders the detail
// view with the errors.
func (h *PropertyHandler) SendMessage(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/404")
		return
	}

	property, err := h.propertyService.GetForMessage(id)
	if err != nil {
		if errors.Is(err, services.ErrMessageNotAllowed) {
			c.Redirect(http.StatusFound, "/404")
			return
		}
		log.Printf("failed to load property: %v", err)
		renderError(c)
		return
	}

	var form dto.MessageForm
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("failed to bind message form: %v", err)
		renderError(c)
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		render(c, http.StatusOK, "mostrar.html", gin.H{
			"Pagina":     property.Title,
			"Propiedad":  property,
			"EsVendedor": services.IsSeller(viewerID(c), property.UserID),
			"Errores":    errs,
			"Datos":      form,
		})
		return
	}

	if err := h.propertyService.SubmitMessage(property.ID, userID, form.Body); err != nil {
		log.Printf("failed to store message: %v", err)
		renderError(c)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Inbox lists the messages of an owned listing.
func (h *PropertyHandler) Inbox(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/mis-propiedades")
		return
	}

	property, err := h.propertyService.Inbox(id, userID)
	if err != nil {
		h.redirectOwnedError(c, err)
		return
	}

	render(c, http.StatusOK, "mensajes.html", gin.H{
		"Pagina":   "Mensajes",
		"Mensajes": property.Messages,
	})
}

// draftOrRedirect loads the owned, still-unpublished listing for the image
// step, or redirects to the index on any guard failure.
func (h *PropertyHandler) draftOrRedirect(c *gin.Context) (*models.Property, bool) {
	userID, _ := middleware.GetUserID(c)

	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/mis-propiedades")
		return nil, false
	}

	property, err := h.propertyService.GetDraft(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound),
			errors.Is(err, services.ErrAlreadyPublished),
			errors.Is(err, services.ErrNotOwner):
			c.Redirect(http.StatusFound, "/mis-propiedades")
		default:
			log.Printf("failed to load property: %v", err)
			renderError(c)
		}
		return nil, false
	}

	return property, true
}

func (h *PropertyHandler) redirectOwnedError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrPropertyNotFound) || errors.Is(err, services.ErrNotOwner) {
		c.Redirect(http.StatusFound, "/mis-propiedades")
		return
	}
	log.Printf("property operation failed: %v", err)
	renderError(c)
}

// paramID parses the :id route parameter.
func paramID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// viewerID returns the optional viewer identity for the seller flag.
func viewerID(c *gin.Context) *uint64 {
	if userID, ok := middleware.GetUserID(c); ok {
		return &userID
	}
	return nil
}
