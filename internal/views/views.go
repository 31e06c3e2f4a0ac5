// Package views holds the state each page renders from: form fields plus
// the outcome of the last call to the remote service.
package views

import (
	"strconv"
	"strings"

	"tortas-web/internal/models"
)

// Copy shown to the user.
const (
	MsgPasswordMismatch = "Las contraseñas no coinciden."
	MsgRegistered       = "Usuario registrado exitosamente."
	MsgRegisterFailed   = "Error al registrar el usuario."
	MsgRegisterNetwork  = "Ocurrió un error al registrar el usuario."
	MsgLoginFailed      = "Error al iniciar sesión"
	MsgInvalidPrice     = "El precio debe ser un número."
)

type LoginView struct {
	Email string
	Error string
}

type RegisterView struct {
	Username string
	Email    string
	Message  string
	Success  bool
}

// CheckPasswords fills the mismatch message and reports whether the form may
// be submitted.
func (v *RegisterView) CheckPasswords(password, confirm string) bool {
	if password != confirm {
		v.Message = MsgPasswordMismatch
		v.Success = false
		return false
	}
	return true
}

// DishForm mirrors the create form; Price stays text until submit.
type DishForm struct {
	Name        string
	CuisineType string
	Ingredients string
	Price       string
}

// Input converts the form to a create payload. An empty price is sent as 0.
func (f DishForm) Input() (models.DishInput, error) {
	in := models.DishInput{
		Name:        f.Name,
		CuisineType: f.CuisineType,
		Ingredients: f.Ingredients,
	}
	price := strings.TrimSpace(f.Price)
	if price == "" {
		return in, nil
	}
	p, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return in, err
	}
	in.Price = p
	return in, nil
}

type DishTable struct {
	Dishes []models.Dish
	Form   DishForm
	Error  string

	PromptPush           bool
	ApplicationServerKey string
}

// Replace sets the list from a successful fetch.
func (t *DishTable) Replace(dishes []models.Dish) {
	t.Dishes = append([]models.Dish(nil), dishes...)
}

// Append adds a dish the service just created and clears the form.
func (t *DishTable) Append(d models.Dish) {
	t.Dishes = append(t.Dishes, d)
	t.ResetForm()
}

// Remove drops the rows with the given id.
func (t *DishTable) Remove(id string) {
	kept := t.Dishes[:0:0]
	for _, d := range t.Dishes {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	t.Dishes = kept
}

func (t *DishTable) ResetForm() {
	t.Form = DishForm{}
}

// Clone copies the table so cached state is not shared with a render.
func (t *DishTable) Clone() *DishTable {
	c := *t
	c.Dishes = append([]models.Dish(nil), t.Dishes...)
	return &c
}

// FormatPrice renders a price the way the table shows it, e.g. "$30".
func FormatPrice(p float64) string {
	return "$" + strconv.FormatFloat(p, 'f', -1, 64)
}
