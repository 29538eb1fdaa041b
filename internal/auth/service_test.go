package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/testutil"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock RepositoryAPI for testing
type mockRepository struct {
	staff         map[string]*Credentials // email -> credentials
	grants        map[int64][]string
	returnError   bool
	errorToReturn error
}

func newMockRepository() *mockRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockRepository{
		staff: map[string]*Credentials{
			"carer@example.com": {ID: 1, Name: "Carer", Email: "carer@example.com", PasswordHash: string(hashedPassword)},
			"admin@example.com": {ID: 2, Name: "Admin", Email: "admin@example.com", PasswordHash: string(hashedPassword)},
		},
		grants: map[int64][]string{
			2: {"children", "inventory", "staffs"},
		},
	}
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*Credentials, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.staff[email], nil
}

func (m *mockRepository) GrantedTableNames(ctx context.Context, userID int64) ([]string, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.grants[userID], nil
}

func (m *mockRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockRepository
		tokenGen *JWTTokenGenerator
		secret   string        = "test-access-secret-with-enough-bytes"
		ttl      time.Duration = 15 * time.Minute
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockRepository()
		tokenGen = NewJWTTokenGenerator(secret, ttl)
		service = NewService(mockRepo, tokenGen, testutil.DiscardLogger())
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return the identity with its permissions", func() {
				// Given
				dto := LoginDTO{
					Identifier: "admin@example.com",
					Password:   "correct_password",
				}

				// When
				result, err := service.Authenticate(ctx, dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.Identity).To(gomega.Equal(Identity{ID: 2, Name: "Admin", Email: "admin@example.com"}))
				gomega.Expect(result.Permissions).To(gomega.Equal([]string{"children", "inventory", "staffs"}))
				gomega.Expect(result.Token).ToNot(gomega.BeEmpty())
			})

			ginkgo.It("should return an empty permission list for staff without grants", func() {
				// Given
				dto := LoginDTO{
					Identifier: "carer@example.com",
					Password:   "correct_password",
				}

				// When
				result, err := service.Authenticate(ctx, dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.Permissions).ToNot(gomega.BeNil())
				gomega.Expect(result.Permissions).To(gomega.BeEmpty())
			})

			ginkgo.It("should accept the legacy username field", func() {
				// Given
				dto := LoginDTO{
					Username: "carer@example.com",
					Password: "correct_password",
				}

				// When
				result, err := service.Authenticate(ctx, dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.Identity.ID).To(gomega.Equal(int64(1)))
			})

			ginkgo.It("should issue a token that verifies to the staff id", func() {
				// Given
				dto := LoginDTO{
					Identifier: "admin@example.com",
					Password:   "correct_password",
				}

				// When
				result, err := service.Authenticate(ctx, dto)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				// Then
				id, err := service.VerifyAccessToken(result.Token)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(id).To(gomega.Equal(int64(2)))
				gomega.Expect(result.ExpiresAt).To(gomega.BeTemporally("~", time.Now().Add(ttl), 5*time.Second))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return invalid credentials for an unknown identifier", func() {
				// Given
				dto := LoginDTO{
					Identifier: "nobody@example.com",
					Password:   "any_password",
				}

				// When
				result, err := service.Authenticate(ctx, dto)

				// Then
				gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
				gomega.Expect(result).To(gomega.BeNil())
			})

			ginkgo.It("should return invalid credentials for a wrong password", func() {
				// Given
				dto := LoginDTO{
					Identifier: "carer@example.com",
					Password:   "wrong_password",
				}

				// When
				result, err := service.Authenticate(ctx, dto)

				// Then
				gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
				gomega.Expect(result).To(gomega.BeNil())
			})

			ginkgo.It("should not match a stored hash compared as plaintext", func() {
				// Given
				dto := LoginDTO{
					Identifier: "carer@example.com",
					Password:   mockRepo.staff["carer@example.com"].PasswordHash,
				}

				// When
				_, err := service.Authenticate(ctx, dto)

				// Then
				gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should return a validation error for an empty identifier", func() {
				// Given
				dto := LoginDTO{Password: "password"}

				// When
				_, err := service.Authenticate(ctx, dto)

				// Then
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("identifier is required"))
			})

			ginkgo.It("should return a validation error for an empty password", func() {
				// Given
				dto := LoginDTO{Identifier: "carer@example.com"}

				// When
				_, err := service.Authenticate(ctx, dto)

				// Then
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})

		ginkgo.Context("when repository returns error", func() {
			ginkgo.It("should return an internal error rather than invalid credentials", func() {
				// Given
				mockRepo.setError(errors.New("database error"))
				dto := LoginDTO{
					Identifier: "carer@example.com",
					Password:   "correct_password",
				}

				// When
				_, err := service.Authenticate(ctx, dto)

				// Then
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
				gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeFalse())
			})
		})
	})

	ginkgo.Describe("VerifyAccessToken", func() {
		ginkgo.It("should reject a malformed token", func() {
			_, err := service.VerifyAccessToken("invalid.token.format")
			gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a token signed with another secret", func() {
			// Given
			other := NewJWTTokenGenerator("a-completely-different-secret-value", ttl)
			token, err := other.GenerateAccessToken(1, "carer@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// When
			_, err = service.VerifyAccessToken(token)

			// Then
			gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
		})

		ginkgo.It("should report an expired token", func() {
			// Given
			expired := NewJWTTokenGenerator(secret, -1*time.Hour)
			token, err := expired.GenerateAccessToken(1, "carer@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// When
			_, err = service.VerifyAccessToken(token)

			// Then
			gomega.Expect(errors.Is(err, internal.ErrTokenExpired)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a tampered token", func() {
			// Given
			token, err := tokenGen.GenerateAccessToken(1, "carer@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			parts := strings.Split(token, ".")
			tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

			// When
			_, err = service.VerifyAccessToken(tampered)

			// Then
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("JWTTokenGenerator", func() {
		ginkgo.It("should carry the user id and email in its claims", func() {
			token, err := tokenGen.GenerateAccessToken(7, "someone@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := tokenGen.ValidateToken(token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("7"))
			gomega.Expect(claims.Subject).To(gomega.Equal("7"))
			gomega.Expect(claims.Email).To(gomega.Equal("someone@example.com"))
		})
	})
})
