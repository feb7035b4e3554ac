package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticVerifier map[string]string

func (s staticVerifier) Verify(token string) (*utils.TokenData, error) {
	sub, ok := s[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &utils.TokenData{Sub: sub}, nil
}

type userRepo map[string]*entity.User

func (r userRepo) FindActiveBySub(sub string) (*entity.User, error) {
	if sub == "boom" {
		return nil, errors.New("db down")
	}
	return r[sub], nil
}

func newServer() *echo.Echo {
	auth := NewAuthMiddleware(&AuthMiddlewareConfig{
		UserRepo: userRepo{
			"sub-eng": {ID: 1, Role: entity.RoleEngineer, Active: true},
			"sub-ent": {ID: 2, Role: entity.RoleEntreprise, Active: true},
		},
		Verifier: staticVerifier{
			"Bearer eng":     "sub-eng",
			"Bearer ent":     "sub-ent",
			"Bearer gone":    "sub-gone",
			"Bearer dbError": "boom",
		},
	})

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		user, apierr := utils.GetUserFromContext(c)
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
		return c.JSON(http.StatusOK, echo.Map{"id": user.ID})
	}, auth)
	e.GET("/jobs", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, auth, RequireRole(entity.RoleEntreprise, entity.RoleAdmin))
	return e
}

func TestAuthMiddleware(t *testing.T) {
	e := newServer()

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer forged", http.StatusUnauthorized},
		{"no local account", "/me", "Bearer gone", http.StatusUnauthorized},
		{"database error", "/me", "Bearer dbError", http.StatusInternalServerError},
		{"authenticated", "/me", "Bearer eng", http.StatusOK},
		{"wrong role", "/jobs", "Bearer eng", http.StatusForbidden},
		{"allowed role", "/jobs", "Bearer ent", http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestAuthMiddleware_WrongRoleBody(t *testing.T) {
	e := newServer()
	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer eng")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.JSONEq(t, `{"error":"Ce compte n'a pas accès à cette ressource","code":"WRONG_ROLE"}`, rec.Body.String())
}
