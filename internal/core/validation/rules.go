package validation

import (
	"fmt"
	"strings"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
)

const (
	MsgEmailRequired    = "Email não pode ser vazio"
	MsgPasswordRequired = "Senha não pode ser vazias"
	MsgPasswordTooLong  = "Senha não pode ter mais de 72 bytes"
	MsgRoleRequired     = "Perfil não pode ser vazio"
	MsgRoleInvalid      = "Perfil inválido"

	MsgNameRequired  = "O nome não pode ser vazio"
	MsgBrandRequired = "A marca não pode ser vazio"
)

var (
	MsgNameTooLong  = fmt.Sprintf("O nome não pode ter mais de %d caracteres", domain.VehicleNameMaxLen)
	MsgBrandTooLong = fmt.Sprintf("A marca não pode ter mais de %d caracteres", domain.VehicleBrandMaxLen)
	MsgYearTooOld   = fmt.Sprintf("Veiculo muito antigo, aceito somente anos superiores a %d.", domain.VehicleMinYear)
)

// PasswordMaxBytes is the longest secret bcrypt accepts.
const PasswordMaxBytes = 72

func roleGiven(in domain.AdministratorInput) bool {
	return in.Role != nil && strings.TrimSpace(*in.Role) != ""
}

var administratorRules = []Rule[domain.AdministratorInput]{
	Tag(func(in domain.AdministratorInput) any { return in.Email }, "required", MsgEmailRequired),
	Tag(func(in domain.AdministratorInput) any { return in.Password }, "required", MsgPasswordRequired),
	{
		Message: MsgPasswordTooLong,
		Fails:   func(in domain.AdministratorInput) bool { return len(in.Password) > PasswordMaxBytes },
	},
	{
		Message: MsgRoleRequired,
		Fails:   func(in domain.AdministratorInput) bool { return !roleGiven(in) },
	},
	{
		Message: MsgRoleInvalid,
		Fails: func(in domain.AdministratorInput) bool {
			if !roleGiven(in) {
				return false
			}
			_, ok := domain.ParseRole(*in.Role)
			return !ok
		},
	},
}

var vehicleRules = []Rule[domain.VehicleInput]{
	Tag(func(in domain.VehicleInput) any { return in.Name }, "required", MsgNameRequired),
	Tag(func(in domain.VehicleInput) any { return in.Name }, fmt.Sprintf("max=%d", domain.VehicleNameMaxLen), MsgNameTooLong),
	Tag(func(in domain.VehicleInput) any { return in.Brand }, "required", MsgBrandRequired),
	Tag(func(in domain.VehicleInput) any { return in.Brand }, fmt.Sprintf("max=%d", domain.VehicleBrandMaxLen), MsgBrandTooLong),
	Tag(func(in domain.VehicleInput) any { return in.Year }, fmt.Sprintf("gte=%d", domain.VehicleMinYear), MsgYearTooOld),
}

// Administrator validates an administrator write payload.
func Administrator(in domain.AdministratorInput) []string {
	return Collect(in, administratorRules)
}

// Vehicle validates a vehicle create or update payload.
func Vehicle(in domain.VehicleInput) []string {
	return Collect(in, vehicleRules)
}
