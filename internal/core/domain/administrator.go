package domain

// Administrator is an account allowed to sign in and operate the API.
type Administrator struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"perfil"`
}

// AdministratorInput is the write payload for a new administrator. Role is a
// pointer so that "absent" and "present but invalid" stay distinguishable.
type AdministratorInput struct {
	Email    string
	Password string
	Role     *string
}

// Claims is the identity proven by a token: who the caller is and which
// profile they act under.
type Claims struct {
	Email string
	Role  Role
}

// ClaimsFor builds the claim set issued to an administrator at login.
func ClaimsFor(a *Administrator) Claims {
	return Claims{Email: a.Email, Role: a.Role}
}
