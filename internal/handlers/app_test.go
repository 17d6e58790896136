package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jcamil/bienes-raices/internal/models"
	"github.com/jcamil/bienes-raices/internal/repository"
	"github.com/jcamil/bienes-raices/internal/services"
	"github.com/jcamil/bienes-raices/internal/storage"
	"github.com/jcamil/bienes-raices/internal/views"
)

type appTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupAppTestEnv(t *testing.T) appTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Price{},
		&models.Property{},
		&models.Message{},
	)
	require.NoError(t, err)

	uploads, err := storage.NewUploads(t.TempDir())
	require.NoError(t, err)

	service := services.NewPropertyService(
		repository.NewPropertyRepository(db),
		repository.NewLookupRepository(db),
		repository.NewMessageRepository(db),
		uploads,
	)
	appHandler := NewAppHandler(service)
	apiHandler := NewAPIHandler(service)

	r := gin.New()
	r.SetHTMLTemplate(views.Templates())
	r.GET("/", appHandler.Home)
	r.GET("/404", appHandler.NotFound)
	r.GET("/categorias/:id", appHandler.Category)
	r.POST("/buscador", appHandler.Search)
	r.GET("/api/propiedades", apiHandler.Properties)

	return appTestEnv{db: db, router: r}
}

func seedAppData(t *testing.T, db *gorm.DB) (*models.Category, *models.Property) {
	t.Helper()

	user := &models.User{Name: "Juan", Email: "juan@correo.com", PasswordHash: "hash", Confirmed: true}
	require.NoError(t, db.Create(user).Error)
	category := &models.Category{Name: "Casa"}
	require.NoError(t, db.Create(category).Error)
	price := &models.Price{Name: "0 - 10,000 US$"}
	require.NoError(t, db.Create(price).Error)

	published := &models.Property{
		Title: "Casa en la Playa", Description: "Casa con alberca",
		Rooms: 3, Parking: 1, Bathrooms: 2,
		Street: "Calle Falsa 123", Lat: "19.43", Lng: "-99.13",
		Image: "casa.jpg", Published: true,
		CategoryID: category.ID, PriceID: price.ID, UserID: user.ID,
	}
	require.NoError(t, db.Create(published).Error)

	draft := &models.Property{
		Title: "Casa Borrador", Description: "Sin publicar",
		Rooms: 2, Parking: 0, Bathrooms: 1,
		Street: "Otra Calle", Lat: "19.43", Lng: "-99.13",
		Published: false,
		CategoryID: category.ID, PriceID: price.ID, UserID: user.ID,
	}
	require.NoError(t, db.Create(draft).Error)

	return category, published
}

func TestAppHandler_Home(t *testing.T) {
	env := setupAppTestEnv(t)
	seedAppData(t, env.db)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Casa en la Playa")
	// Unpublished listings never reach the public pages
	require.NotContains(t, w.Body.String(), "Casa Borrador")
}

func TestAppHandler_NotFound(t *testing.T) {
	env := setupAppTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/404", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "no existe")
}

func TestAppHandler_Category(t *testing.T) {
	env := setupAppTestEnv(t)
	category, _ := seedAppData(t, env.db)

	req := httptest.NewRequest(http.MethodGet, "/categorias/"+itoa(category.ID), nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Casa en la Playa")
	require.NotContains(t, w.Body.String(), "Casa Borrador")

	req = httptest.NewRequest(http.MethodGet, "/categorias/999", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/404", w.Header().Get("Location"))
}

func TestAppHandler_Search(t *testing.T) {
	env := setupAppTestEnv(t)
	seedAppData(t, env.db)

	form := url.Values{"termino": {"Playa"}}
	req := httptest.NewRequest(http.MethodPost, "/buscador", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Casa en la Playa")

	// An empty term goes back to where the visitor came from
	form = url.Values{"termino": {"   "}}
	req = httptest.NewRequest(http.MethodPost, "/buscador", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestAPIHandler_Properties(t *testing.T) {
	env := setupAppTestEnv(t)
	_, published := seedAppData(t, env.db)

	req := httptest.NewRequest(http.MethodGet, "/api/propiedades", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var properties []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &properties))
	require.Len(t, properties, 1)
	require.Equal(t, published.ID, properties[0].ID)
	require.Equal(t, "Casa", properties[0].Category.Name)
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
