package auth

import "context"

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	VerifyAccessToken(tokenString string) (int64, error)
}

type RepositoryAPI interface {
	// FindByEmail returns nil when no staff member has the email.
	FindByEmail(ctx context.Context, email string) (*Credentials, error)
	GrantedTableNames(ctx context.Context, userID int64) ([]string, error)
}

// TokenGenerator creates and validates access tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}
