package auth

import (
	"strings"

	"github.com/frahmantamala/childcare-management/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
// Username is the legacy name of Identifier.
type LoginDTO struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// Login returns the email the caller identified with.
func (d LoginDTO) Login() string {
	if id := strings.TrimSpace(d.Identifier); id != "" {
		return id
	}
	return strings.TrimSpace(d.Username)
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("identifier", d.Login()).Required()
	v.Field("password", d.Password).Required()
	return v.Err()
}

type LoginResponse struct {
	Success     bool     `json:"success"`
	Identity    Identity `json:"identity"`
	Permissions []string `json:"permissions"`
	Token       string   `json:"token"`
	ExpiresAt   int64    `json:"expiresAt"`
}
