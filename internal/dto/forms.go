package dto

import (
	"net/mail"
	"strconv"
	"strings"

	"github.com/jcamil/bienes-raices/internal/constants"
	"github.com/jcamil/bienes-raices/internal/models"
	"github.com/jcamil/bienes-raices/internal/services"
)

// Form field names are the wire contract of the original HTML forms; the
// numeric fields stay strings so a failed validation can re-render the form
// with the submitted values untouched.

// PropertyForm is the input for creating and editing a listing.
type PropertyForm struct {
	Title       string `form:"titulo"`
	Description string `form:"descripcion"`
	Rooms       string `form:"habitaciones"`
	Parking     string `form:"estacionamiento"`
	Bathrooms   string `form:"wc"`
	Street      string `form:"calle"`
	Lat         string `form:"lat"`
	Lng         string `form:"lng"`
	Price       string `form:"precio"`
	Category    string `form:"categoria"`
}

// PropertyFormFromModel pre-fills the form with a stored listing, for the
// edit view.
func PropertyFormFromModel(p *models.Property) PropertyForm {
	return PropertyForm{
		Title:       p.Title,
		Description: p.Description,
		Rooms:       strconv.Itoa(p.Rooms),
		Parking:     strconv.Itoa(p.Parking),
		Bathrooms:   strconv.Itoa(p.Bathrooms),
		Street:      p.Street,
		Lat:         p.Lat,
		Lng:         p.Lng,
		Price:       strconv.FormatUint(p.PriceID, 10),
		Category:    strconv.FormatUint(p.CategoryID, 10),
	}
}

// Validate checks every field rule and, when all pass, returns the typed
// input for the service layer.
func (f *PropertyForm) Validate() (services.CreateInput, []string) {
	var errs []string

	if strings.TrimSpace(f.Title) == "" {
		errs = append(errs, "El Titulo del Anuncio es Obligatorio")
	}
	if strings.TrimSpace(f.Description) == "" {
		errs = append(errs, "La Descripcion no puede ir vacia")
	} else if len(f.Description) > 200 {
		errs = append(errs, "La Descripcion es muy larga")
	}

	category, err := strconv.ParseUint(f.Category, 10, 64)
	if err != nil || category == 0 {
		errs = append(errs, "Selecciona una Categoria")
	}
	price, err := strconv.ParseUint(f.Price, 10, 64)
	if err != nil || price == 0 {
		errs = append(errs, "Selecciona un rango de Precios")
	}

	rooms, err := strconv.Atoi(f.Rooms)
	if err != nil || rooms <= 0 {
		errs = append(errs, "Selecciona la cantidad de Habitaciones")
	}
	parking, err := strconv.Atoi(f.Parking)
	if err != nil || parking < 0 || f.Parking == "" {
		errs = append(errs, "Selecciona la cantidad de Estacionamientos")
	}
	bathrooms, err := strconv.Atoi(f.Bathrooms)
	if err != nil || bathrooms <= 0 {
		errs = append(errs, "Selecciona la cantidad de Baños")
	}

	if strings.TrimSpace(f.Street) == "" {
		errs = append(errs, "La Calle es obligatoria")
	}
	if strings.TrimSpace(f.Lat) == "" || strings.TrimSpace(f.Lng) == "" {
		errs = append(errs, "Ubica la Propiedad en el Mapa")
	}

	if len(errs) > 0 {
		return services.CreateInput{}, errs
	}

	return services.CreateInput{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Rooms:       rooms,
		Parking:     parking,
		Bathrooms:   bathrooms,
		Street:      strings.TrimSpace(f.Street),
		Lat:         f.Lat,
		Lng:         f.Lng,
		PriceID:     price,
		CategoryID:  category,
	}, nil
}

// MessageForm is the input for the listing contact form.
type MessageForm struct {
	Body string `form:"mensaje"`
}

func (f *MessageForm) Validate() []string {
	if len(strings.TrimSpace(f.Body)) < 10 {
		return []string{"El Mensaje no puede ir vacio o es muy corto"}
	}
	return nil
}

// LoginForm is the input for authentication.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (f *LoginForm) Validate() []string {
	var errs []string
	if !validEmail(f.Email) {
		errs = append(errs, "El Email es Obligatorio")
	}
	if f.Password == "" {
		errs = append(errs, "El Password es Obligatorio")
	}
	return errs
}

// RegisterForm is the input for account creation.
type RegisterForm struct {
	Name           string `form:"nombre"`
	Email          string `form:"email"`
	Password       string `form:"password"`
	RepeatPassword string `form:"repetir_password"`
}

func (f *RegisterForm) Validate() []string {
	var errs []string
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, "El Nombre no puede ir vacio")
	}
	if !validEmail(f.Email) {
		errs = append(errs, "Eso no parece un Email")
	}
	if len(f.Password) < constants.MinPasswordLength {
		errs = append(errs, "El Password debe ser de al menos 6 caracteres")
	}
	if f.Password != f.RepeatPassword {
		errs = append(errs, "Los Passwords no son iguales")
	}
	return errs
}

// ForgotPasswordForm requests a reset link.
type ForgotPasswordForm struct {
	Email string `form:"email"`
}

func (f *ForgotPasswordForm) Validate() []string {
	if !validEmail(f.Email) {
		return []string{"Eso no parece un Email"}
	}
	return nil
}

// NewPasswordForm stores the replacement password.
type NewPasswordForm struct {
	Password string `form:"password"`
}

func (f *NewPasswordForm) Validate() []string {
	if len(f.Password) < constants.MinPasswordLength {
		return []string{"El Password debe ser de al menos 6 caracteres"}
	}
	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
