package handler

import (
	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/validation"
)

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// validationResponse lists every failed rule, in rule order.
type validationResponse struct {
	Messages []string `json:"mensagens"`
}

// --- Request / Response types ---

type homeResponse struct {
	Message string `json:"mensagem"`
	Doc     string `json:"doc"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginResponse struct {
	Email string `json:"email"`
	Role  string `json:"perfil"`
	Token string `json:"token"`
}

// pageQuery is the ?pagina= parameter. 0 or absent lists everything.
type pageQuery struct {
	Page int `query:"pagina" validate:"gte=0"`
}

type vehicleListQuery struct {
	Page  int    `query:"pagina" validate:"gte=0"`
	Name  string `query:"nome"   validate:"max=155"`
	Brand string `query:"marca"  validate:"max=100"`
}

type administratorRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"senha"`
	Role     *string `json:"perfil"`
}

func (r *administratorRequest) input() domain.AdministratorInput {
	return domain.AdministratorInput{Email: r.Email, Password: r.Password, Role: r.Role}
}

// Validate runs the administrator rule set.
func (r *administratorRequest) Validate() []string {
	return validation.Administrator(r.input())
}

// administratorResponse is the public projection; the password never leaves.
type administratorResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"perfil"`
}

func toAdministratorResponse(a *domain.Administrator) administratorResponse {
	return administratorResponse{ID: a.ID, Email: a.Email, Role: a.Role.String()}
}

type vehicleRequest struct {
	Name  string `json:"nome"`
	Brand string `json:"marca"`
	Year  int    `json:"ano"`
}

func (r *vehicleRequest) input() domain.VehicleInput {
	return domain.VehicleInput{Name: r.Name, Brand: r.Brand, Year: r.Year}
}

// Validate runs the vehicle rule set.
func (r *vehicleRequest) Validate() []string {
	return validation.Vehicle(r.input())
}

type vehicleResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Brand string `json:"marca"`
	Year  int    `json:"ano"`
}

func toVehicleResponse(v *domain.Vehicle) vehicleResponse {
	return vehicleResponse{ID: v.ID, Name: v.Name, Brand: v.Brand, Year: v.Year}
}
