package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jcamil/bienes-raices/internal/constants"
	"github.com/jcamil/bienes-raices/internal/models"
	"github.com/jcamil/bienes-raices/internal/repository"
	"github.com/jcamil/bienes-raices/internal/services"
	"github.com/jcamil/bienes-raices/internal/storage"
	"github.com/jcamil/bienes-raices/internal/views"
)

// PropertyHandlerTestSuite defines the test suite for PropertyHandler
type PropertyHandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	uploads  *storage.Uploads
	handler  *PropertyHandler
	category *models.Category
	price    *models.Price
	owner    *models.User
	other    *models.User
}

// SetupTest runs before each test
func (suite *PropertyHandlerTestSuite) SetupTest() {
	var err error

	gin.SetMode(gin.TestMode)

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// A second pool connection to :memory: would open a fresh empty
	// database, so pin the pool to a single connection.
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Price{},
		&models.Property{},
		&models.Message{},
	)
	suite.Require().NoError(err)

	suite.uploads, err = storage.NewUploads(suite.T().TempDir())
	suite.Require().NoError(err)

	propertyRepo := repository.NewPropertyRepository(suite.db)
	lookupRepo := repository.NewLookupRepository(suite.db)
	messageRepo := repository.NewMessageRepository(suite.db)
	service := services.NewPropertyService(propertyRepo, lookupRepo, messageRepo, suite.uploads)
	suite.handler = NewPropertyHandler(service, suite.uploads)

	suite.category = &models.Category{Name: "Casa"}
	suite.db.Create(suite.category)
	suite.price = &models.Price{Name: "0 - 10,000 US$"}
	suite.db.Create(suite.price)

	suite.owner = suite.createTestUser("propietario@correo.com")
	suite.other = suite.createTestUser("visitante@correo.com")
}

// TearDownTest runs after each test
func (suite *PropertyHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *PropertyHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Name:         "Usuario",
		Email:        email,
		PasswordHash: "hashedpassword",
		Confirmed:    true,
	}
	suite.db.Create(user)
	return user
}

func (suite *PropertyHandlerTestSuite) createTestProperty(title string, userID uint64, published bool, image string) *models.Property {
	property := &models.Property{
		Title:       title,
		Description: "Una propiedad de prueba",
		Rooms:       3,
		Parking:     1,
		Bathrooms:   2,
		Street:      "Calle Falsa 123",
		Lat:         "19.43",
		Lng:         "-99.13",
		Image:       image,
		Published:   published,
		CategoryID:  suite.category.ID,
		PriceID:     suite.price.ID,
		UserID:      userID,
	}
	suite.db.Create(property)
	return property
}

// newRouter registers the property routes. userID == 0 means anonymous:
// protected routes then redirect to the login page the way RequireAuth does.
func (suite *PropertyHandlerTestSuite) newRouter(userID uint64) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(views.Templates())
	if userID != 0 {
		r.Use(func(c *gin.Context) {
			c.Set(constants.ContextKeyUserID, userID)
		})
	}

	r.GET("/mis-propiedades", suite.handler.MyProperties)
	r.GET("/mensajes/:id", suite.handler.Inbox)
	r.GET("/propiedad/:id", suite.handler.Show)
	r.POST("/propiedad/:id", suite.handler.SendMessage)

	props := r.Group("/propiedades")
	{
		props.GET("/crear", suite.handler.CreateForm)
		props.POST("/crear", suite.handler.Create)
		props.GET("/agregar-imagen/:id", suite.handler.AddImageForm)
		props.POST("/agregar-imagen/:id", suite.handler.AddImage)
		props.GET("/editar/:id", suite.handler.EditForm)
		props.POST("/editar/:id", suite.handler.Edit)
		props.POST("/eliminar/:id", suite.handler.Delete)
		props.POST("/:id", suite.handler.TogglePublished)
	}
	return r
}

func (suite *PropertyHandlerTestSuite) get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (suite *PropertyHandlerTestSuite) post(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (suite *PropertyHandlerTestSuite) validPropertyForm() url.Values {
	return url.Values{
		"titulo":          {"Casa en la Playa"},
		"descripcion":     {"Casa con alberca y jardin"},
		"habitaciones":    {"3"},
		"estacionamiento": {"1"},
		"wc":              {"2"},
		"calle":           {"Calle Falsa 123"},
		"lat":             {"19.43"},
		"lng":             {"-99.13"},
		"precio":          {fmt.Sprintf("%d", suite.price.ID)},
		"categoria":       {fmt.Sprintf("%d", suite.category.ID)},
	}
}

func (suite *PropertyHandlerTestSuite) TestMyPropertiesInvalidPageRedirects() {
	r := suite.newRouter(suite.owner.ID)

	for _, pagina := range []string{"", "0", "01", "abc", "-1", "1.5", "1a"} {
		w := suite.get(r, "/mis-propiedades?pagina="+url.QueryEscape(pagina))
		suite.Equal(http.StatusFound, w.Code, "pagina=%q", pagina)
		suite.Equal("/mis-propiedades?pagina=1", w.Header().Get("Location"), "pagina=%q", pagina)
	}
}

func (suite *PropertyHandlerTestSuite) TestMyPropertiesPagination() {
	for i := 1; i <= 12; i++ {
		suite.createTestProperty(fmt.Sprintf("Propiedad %02d", i), suite.owner.ID, true, "")
	}
	// Another user's properties never show up
	suite.createTestProperty("Propiedad Ajena", suite.other.ID, true, "")

	r := suite.newRouter(suite.owner.ID)

	w := suite.get(r, "/mis-propiedades?pagina=1")
	suite.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	suite.Contains(body, "Propiedad 01")
	suite.Contains(body, "Propiedad 05")
	suite.NotContains(body, "Propiedad 06")
	suite.NotContains(body, "Propiedad Ajena")
	// 12 properties at 5 per page is 3 pages
	suite.Contains(body, "pagina=3")
	suite.NotContains(body, "pagina=4")

	w = suite.get(r, "/mis-propiedades?pagina=3")
	suite.Equal(http.StatusOK, w.Code)
	body = w.Body.String()
	suite.Contains(body, "Propiedad 11")
	suite.Contains(body, "Propiedad 12")
	suite.NotContains(body, "Propiedad 10")

	// Past the data: empty set, not an error
	w = suite.get(r, "/mis-propiedades?pagina=4")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "No hay propiedades")
}

func (suite *PropertyHandlerTestSuite) TestCreateStoresDraft() {
	r := suite.newRouter(suite.owner.ID)

	w := suite.post(r, "/propiedades/crear", suite.validPropertyForm())
	suite.Equal(http.StatusFound, w.Code)
	suite.Contains(w.Header().Get("Location"), "/propiedades/agregar-imagen/")

	var property models.Property
	suite.Require().NoError(suite.db.Where("title = ?", "Casa en la Playa").First(&property).Error)
	suite.Equal(suite.owner.ID, property.UserID)
	suite.Empty(property.Image)
	suite.False(property.Published)
}

func (suite *PropertyHandlerTestSuite) TestCreateValidationKeepsInput() {
	r := suite.newRouter(suite.owner.ID)

	form := suite.validPropertyForm()
	form.Set("titulo", "")

	w := suite.post(r, "/propiedades/crear", form)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "El Titulo del Anuncio es Obligatorio")
	// Submitted values survive the re-render
	suite.Contains(w.Body.String(), "Casa con alberca y jardin")

	var count int64
	suite.db.Model(&models.Property{}).Count(&count)
	suite.Zero(count)
}

func (suite *PropertyHandlerTestSuite) TestAddImagePublishes() {
	property := suite.createTestProperty("Casa Borrador", suite.owner.ID, false, "")
	r := suite.newRouter(suite.owner.ID)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("imagen", "casa.jpg")
	suite.Require().NoError(err)
	_, err = fw.Write([]byte("not-really-a-jpeg"))
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/propiedades/agregar-imagen/%d", property.ID), body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/mis-propiedades", w.Header().Get("Location"))

	var updated models.Property
	suite.Require().NoError(suite.db.First(&updated, property.ID).Error)
	suite.True(updated.Published)
	suite.NotEmpty(updated.Image)
	suite.True(strings.HasSuffix(updated.Image, ".jpg"))

	_, err = os.Stat(filepath.Join(suite.uploads.Dir(), updated.Image))
	suite.NoError(err)
}

func (suite *PropertyHandlerTestSuite) TestAddImageRefusesPublished() {
	property := suite.createTestProperty("Casa Publicada", suite.owner.ID, true, "casa.jpg")
	r := suite.newRouter(suite.owner.ID)

	w := suite.get(r, fmt.Sprintf("/propiedades/agregar-imagen/%d", property.ID))
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/mis-propiedades", w.Header().Get("Location"))
}

func (suite *PropertyHandlerTestSuite) TestOwnershipGuards() {
	property := suite.createTestProperty("Casa del Propietario", suite.owner.ID, true, "")
	intruder := suite.newRouter(suite.other.ID)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, fmt.Sprintf("/propiedades/editar/%d", property.ID)},
		{http.MethodPost, fmt.Sprintf("/propiedades/editar/%d", property.ID)},
		{http.MethodPost, fmt.Sprintf("/propiedades/eliminar/%d", property.ID)},
		{http.MethodPost, fmt.Sprintf("/propiedades/%d", property.ID)},
		{http.MethodGet, fmt.Sprintf("/mensajes/%d", property.ID)},
		{http.MethodGet, fmt.Sprintf("/propiedades/agregar-imagen/%d", property.ID)},
	}

	for _, tc := range requests {
		var w *httptest.ResponseRecorder
		if tc.method == http.MethodGet {
			w = suite.get(intruder, tc.path)
		} else {
			w = suite.post(intruder, tc.path, suite.validPropertyForm())
		}
		suite.Equal(http.StatusFound, w.Code, "%s %s", tc.method, tc.path)
		suite.Equal("/mis-propiedades", w.Header().Get("Location"), "%s %s", tc.method, tc.path)
	}

	// Nothing was mutated or deleted
	var unchanged models.Property
	suite.Require().NoError(suite.db.First(&unchanged, property.ID).Error)
	suite.Equal("Casa del Propietario", unchanged.Title)
	suite.True(unchanged.Published)
}

func (suite *PropertyHandlerTestSuite) TestMissingPropertyRedirects() {
	r := suite.newRouter(suite.owner.ID)

	w := suite.post(r, "/propiedades/eliminar/999", url.Values{})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/mis-propiedades", w.Header().Get("Location"))
}

func (suite *PropertyHandlerTestSuite) TestEditReplacesFields() {
	property := suite.createTestProperty("Casa Original", suite.owner.ID, true, "casa.jpg")
	r := suite.newRouter(suite.owner.ID)

	form := suite.validPropertyForm()
	form.Set("titulo", "Casa Renovada")
	form.Set("habitaciones", "5")

	w := suite.post(r, fmt.Sprintf("/propiedades/editar/%d", property.ID), form)
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/mis-propiedades", w.Header().Get("Location"))

	var updated models.Property
	suite.Require().NoError(suite.db.First(&updated, property.ID).Error)
	suite.Equal("Casa Renovada", updated.Title)
	suite.Equal(5, updated.Rooms)
	// The image and published state are not part of the edit field set
	suite.Equal("casa.jpg", updated.Image)
	suite.True(updated.Published)
}

func (suite *PropertyHandlerTestSuite) TestDeleteRemovesImageThenRow() {
	imagePath := filepath.Join(suite.uploads.Dir(), "casa.jpg")
	suite.Require().NoError(os.WriteFile(imagePath, []byte("imagen"), 0o644))

	property := suite.createTestProperty("Casa a Eliminar", suite.owner.ID, true, "casa.jpg")
	r := suite.newRouter(suite.owner.ID)

	w := suite.post(r, fmt.Sprintf("/propiedades/eliminar/%d", property.ID), url.Values{})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/mis-propiedades", w.Header().Get("Location"))

	_, err := os.Stat(imagePath)
	suite.True(os.IsNotExist(err))

	var count int64
	suite.db.Model(&models.Property{}).Where("id = ?", property.ID).Count(&count)
	suite.Zero(count)
}

func (suite *PropertyHandlerTestSuite) TestDeleteKeepsRowWhenImageRemovalFails() {
	// A non-empty directory under the image name makes the removal fail
	imageDir := filepath.Join(suite.uploads.Dir(), "casa.jpg")
	suite.Require().NoError(os.MkdirAll(imageDir, 0o755))
	suite.Require().NoError(os.WriteFile(filepath.Join(imageDir, "x"), []byte("x"), 0o644))

	property := suite.createTestProperty("Casa Indestructible", suite.owner.ID, true, "casa.jpg")
	r := suite.newRouter(suite.owner.ID)

	w := suite.post(r, fmt.Sprintf("/propiedades/eliminar/%d", property.ID), url.Values{})
	suite.Equal(http.StatusInternalServerError, w.Code)

	// The row survives a failed image removal
	var count int64
	suite.db.Model(&models.Property{}).Where("id = ?", property.ID).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *PropertyHandlerTestSuite) TestTogglePublished() {
	property := suite.createTestProperty("Casa Publicada", suite.owner.ID, true, "casa.jpg")
	r := suite.newRouter(suite.owner.ID)

	w := suite.post(r, fmt.Sprintf("/propiedades/%d", property.ID), url.Values{})
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"resultado": "ok"}`, w.Body.String())

	var updated models.Property
	suite.Require().NoError(suite.db.First(&updated, property.ID).Error)
	suite.False(updated.Published)

	w = suite.post(r, fmt.Sprintf("/propiedades/%d", property.ID), url.Values{})
	suite.Equal(http.StatusOK, w.Code)

	suite.Require().NoError(suite.db.First(&updated, property.ID).Error)
	suite.True(updated.Published)
}

func (suite *PropertyHandlerTestSuite) TestShowRequiresPublished() {
	draft := suite.createTestProperty("Casa Borrador", suite.owner.ID, false, "")

	for _, r := range []*gin.Engine{suite.newRouter(0), suite.newRouter(suite.owner.ID)} {
		w := suite.get(r, fmt.Sprintf("/propiedad/%d", draft.ID))
		suite.Equal(http.StatusFound, w.Code)
		suite.Equal("/404", w.Header().Get("Location"))
	}

	w := suite.get(suite.newRouter(0), "/propiedad/999")
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/404", w.Header().Get("Location"))
}

func (suite *PropertyHandlerTestSuite) TestShowSellerFlag() {
	property := suite.createTestProperty("Casa Publicada", suite.owner.ID, true, "casa.jpg")

	// The owner sees no contact form
	w := suite.get(suite.newRouter(suite.owner.ID), fmt.Sprintf("/propiedad/%d", property.ID))
	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "Enviar Mensaje")

	// Another authenticated visitor does
	w = suite.get(suite.newRouter(suite.other.ID), fmt.Sprintf("/propiedad/%d", property.ID))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Enviar Mensaje")

	// Anonymous visitors are pointed at the login page
	w = suite.get(suite.newRouter(0), fmt.Sprintf("/propiedad/%d", property.ID))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "iniciar sesion")
}

func (suite *PropertyHandlerTestSuite) TestSendMessageValidation() {
	property := suite.createTestProperty("Casa Publicada", suite.owner.ID, true, "casa.jpg")
	r := suite.newRouter(suite.other.ID)

	w := suite.post(r, fmt.Sprintf("/propiedad/%d", property.ID), url.Values{"mensaje": {""}})
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "El Mensaje no puede ir vacio")

	var count int64
	suite.db.Model(&models.Message{}).Count(&count)
	suite.Zero(count)
}

func (suite *PropertyHandlerTestSuite) TestSendMessageRedirectsHome() {
	property := suite.createTestProperty("Casa Publicada", suite.owner.ID, true, "casa.jpg")
	r := suite.newRouter(suite.other.ID)

	w := suite.post(r, fmt.Sprintf("/propiedad/%d", property.ID), url.Values{
		"mensaje": {"Hola, me interesa esta propiedad"},
	})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/", w.Header().Get("Location"))

	var messages []models.Message
	suite.Require().NoError(suite.db.Find(&messages).Error)
	suite.Require().Len(messages, 1)
	suite.Equal(property.ID, messages[0].PropertyID)
	suite.Equal(suite.other.ID, messages[0].UserID)
	suite.Equal("Hola, me interesa esta propiedad", messages[0].Body)
}

func (suite *PropertyHandlerTestSuite) TestSendMessageToDraftProperty() {
	// Existence is the only requirement for the message target
	draft := suite.createTestProperty("Casa Borrador", suite.owner.ID, false, "")
	r := suite.newRouter(suite.other.ID)

	w := suite.post(r, fmt.Sprintf("/propiedad/%d", draft.ID), url.Values{
		"mensaje": {"Hola, me interesa esta propiedad"},
	})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/", w.Header().Get("Location"))

	w = suite.post(r, "/propiedad/999", url.Values{
		"mensaje": {"Hola, me interesa esta propiedad"},
	})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/404", w.Header().Get("Location"))
}

func (suite *PropertyHandlerTestSuite) TestInboxShowsSenders() {
	property := suite.createTestProperty("Casa Publicada", suite.owner.ID, true, "casa.jpg")
	suite.db.Create(&models.Message{
		Body:       "Hola, me interesa esta propiedad",
		PropertyID: property.ID,
		UserID:     suite.other.ID,
	})

	w := suite.get(suite.newRouter(suite.owner.ID), fmt.Sprintf("/mensajes/%d", property.ID))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Hola, me interesa esta propiedad")
	suite.Contains(w.Body.String(), suite.other.Name)
}

func TestPropertyHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PropertyHandlerTestSuite))
}
