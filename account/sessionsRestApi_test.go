package account_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"printdesk/account"
	"printdesk/bizerror"
	"printdesk/session"
	"printdesk/testinfra"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/patrickmn/go-cache"
)

var _ = Describe("SessionsRestApi", func() {
	var (
		router *gin.Engine
	)
	BeforeEach(func() {
		router = gin.New()
		router.Use(bizerror.ErrorHandling())
		account.RegisterSessionsHandler(router)
		account.RegisterSessionHandler(router, session.SimpleAuthFilter())
		account.RegisterUsersHandler(router, session.SimpleAuthFilter())
	})
	AfterEach(func() {
		account.AuthenticateFunc = account.Authenticate
		account.QueryUsersFunc = account.QueryUsers
		account.UpdateBasicAuthSecretFunc = account.UpdateBasicAuthSecret
		session.TokenCache.Flush()
	})

	Describe("SimpleLoginHandler", func() {
		It("should issue token on success", func() {
			account.AuthenticateFunc = func(ctx context.Context, name, password string) (*session.Identity, error) {
				Expect(name).To(Equal("ann"))
				Expect(password).To(Equal("abc123"))
				return &session.Identity{ID: "u1", Name: "ann", Role: session.RoleUser}, nil
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader([]byte(`{"name": "ann", "password":"abc123"}`)))
			status, body, resp := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(resp.Cookies()[0].Name).To(Equal(session.KeySecToken))
			token := resp.Cookies()[0].Value
			Expect(token).ToNot(BeEmpty())
			Expect(body).To(MatchJSON(`{"token":"` + token + `","identity":{"id":"u1","name":"ann","role":"USER"}}`))

			v, found := session.TokenCache.Get(token)
			Expect(found).To(BeTrue())
			Expect(v.(*session.Session).Identity.ID).To(Equal("u1"))
		})

		It("should return 401 when authentication failed", func() {
			account.AuthenticateFunc = func(ctx context.Context, name, password string) (*session.Identity, error) {
				return nil, bizerror.ErrUnauthenticated
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader([]byte(`{"name": "ann", "password":"bad"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusUnauthorized))
			Expect(body).To(MatchJSON(`{"code":"common.unauthenticated","message":"unauthenticated","data":null}`))
		})

		It("should return 400 when body is invalid", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader([]byte(`{"name": "ann"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
		})
	})

	Describe("SimpleLogoutHandler", func() {
		It("should drop token", func() {
			session.TokenCache.Set("t1", &session.Session{Token: "t1"}, cache.DefaultExpiration)
			req := httptest.NewRequest(http.MethodDelete, "/v1/sessions", nil)
			req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: "t1"})
			status, _, resp := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusNoContent))
			Expect(resp.Cookies()[0].MaxAge).To(BeNumerically("<", 0))
			_, found := session.TokenCache.Get("t1")
			Expect(found).To(BeFalse())
		})
	})

	Describe("DetailSessionHandler", func() {
		It("should return current session and renew signing time", func() {
			signing := time.Now().Add(-time.Hour)
			session.TokenCache.Set("t1", &session.Session{Token: "t1", SigningTime: signing,
				Identity: session.Identity{ID: "a1", Name: "root", Role: session.RoleAdmin}}, cache.DefaultExpiration)

			req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
			req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: "t1"})
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`{"token":"t1","identity":{"id":"a1","name":"root","role":"ADMIN"}}`))

			v, _ := session.TokenCache.Get("t1")
			Expect(v.(*session.Session).SigningTime.After(signing)).To(BeTrue())
		})

		It("should reject expired session", func() {
			session.TokenCache.Set("t1", &session.Session{Token: "t1", SigningTime: time.Now().Add(-session.TokenExpiration - time.Minute),
				Identity: session.Identity{ID: "a1", Role: session.RoleAdmin}}, cache.DefaultExpiration)
			req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
			req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: "t1"})
			status, _, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("HandleQueryUsers", func() {
		It("should be reserved to administrators", func() {
			session.TokenCache.Set("t1", &session.Session{Token: "t1", Identity: session.Identity{ID: "u1", Role: session.RoleUser}}, cache.DefaultExpiration)
			req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
			req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: "t1"})
			status, _, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusForbidden))
		})

		It("should list users for administrators", func() {
			account.QueryUsersFunc = func(s *session.Session) ([]account.UserInfo, error) {
				Expect(s.Identity.ID).To(Equal("a1"))
				return []account.UserInfo{{ID: "u1", Name: "ann", Role: session.RoleUser}}, nil
			}
			session.TokenCache.Set("t1", &session.Session{Token: "t1", Identity: session.Identity{ID: "a1", Role: session.RoleAdmin}}, cache.DefaultExpiration)
			req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
			req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: "t1"})
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`[{"id":"u1","name":"ann","role":"USER"}]`))
		})
	})

	Describe("HandleUpdateBaseAuth", func() {
		It("should pass payload with current session", func() {
			var payload *account.BasicAuthUpdating
			account.UpdateBasicAuthSecretFunc = func(u *account.BasicAuthUpdating, s *session.Session) error {
				payload = u
				Expect(s.Identity.ID).To(Equal("u1"))
				return nil
			}
			session.TokenCache.Set("t1", &session.Session{Token: "t1", Identity: session.Identity{ID: "u1", Role: session.RoleUser}}, cache.DefaultExpiration)
			req := httptest.NewRequest(http.MethodPut, "/v1/session-users/basic-auths",
				bytes.NewReader([]byte(`{"originalSecret":"123456","newSecret":"654321"}`)))
			req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: "t1"})
			status, _, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(*payload).To(Equal(account.BasicAuthUpdating{OriginalSecret: "123456", NewSecret: "654321"}))
		})
	})
})
