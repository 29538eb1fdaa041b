package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/childcare-management/internal/testutil"
	"github.com/frahmantamala/childcare-management/internal/transport"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Login handler", func() {
	var handler *Handler

	ginkgo.BeforeEach(func() {
		svc := NewService(newMockRepository(), NewJWTTokenGenerator("handler-test-secret-0123456789abcdef", time.Hour), testutil.DiscardLogger())
		handler = NewHandler(transport.NewBaseHandler(testutil.DiscardLogger()), svc)
	})

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	ginkgo.It("should return success with identity, permissions and token", func() {
		rec := login(`{"identifier":"admin@example.com","password":"correct_password"}`)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		var resp LoginResponse
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
		gomega.Expect(resp.Success).To(gomega.BeTrue())
		gomega.Expect(resp.Identity.Email).To(gomega.Equal("admin@example.com"))
		gomega.Expect(resp.Permissions).To(gomega.ContainElement("staffs"))
		gomega.Expect(resp.Token).ToNot(gomega.BeEmpty())
	})

	ginkgo.It("should return 401 without revealing whether the account exists", func() {
		unknown := login(`{"identifier":"nobody@example.com","password":"x"}`)
		wrong := login(`{"identifier":"admin@example.com","password":"x"}`)

		gomega.Expect(unknown.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(wrong.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(unknown.Body.String()).To(gomega.Equal(wrong.Body.String()))
		gomega.Expect(unknown.Body.String()).To(gomega.ContainSubstring(`"success":false`))
	})

	ginkgo.It("should return 400 for a malformed body", func() {
		rec := login(`{"identifier":`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
	})
})
