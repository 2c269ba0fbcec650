/*
 * Boutique Orders API
 *
 * Order intake for the storefront plus the admin back office.
 *
 * API version: 1.0.0
 */

package storefrontserver

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	adminports "github.com/Apurer/boutique-orders/internal/domains/admin/ports"
	apierrors "github.com/Apurer/boutique-orders/internal/shared/errors"
)

// AdminCookieName is the cookie carrying the admin token.
const AdminCookieName = "admin_token"

// AdminAPI wires HTTP transport with the admin service.
type AdminAPI struct {
	service adminports.Service
	// SecureCookie marks the admin cookie Secure; enable behind TLS.
	SecureCookie bool
}

// NewAdminAPI creates an AdminAPI backed by the provided service.
func NewAdminAPI(service adminports.Service) AdminAPI {
	return AdminAPI{service: service}
}

// Post /api/admin/login
// Exchange the admin password for a token
func (api *AdminAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := bindLogin(c, &payload); err != nil {
		apierrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Password)
	if err != nil {
		respondAdminServiceError(c, err)
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     AdminCookieName,
		Value:    url.QueryEscape(token),
		Path:     "/",
		HttpOnly: true,
		Secure:   api.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// bindLogin reads the password from JSON or from a url-encoded form. An empty
// body binds nothing and fails later as invalid credentials.
func bindLogin(c *gin.Context, payload *LoginRequest) error {
	if c.ContentType() == binding.MIMEPOSTForm {
		return c.ShouldBindWith(payload, binding.FormPost)
	}
	if err := c.ShouldBindJSON(payload); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// RequireAdmin aborts with 401 unless the request carries a valid admin token.
func (api *AdminAPI) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if api.service == nil {
			respondProblem(c, apierrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if err := api.service.Authorize(c.Request.Context(), adminToken(c)); err != nil {
			respondAdminServiceError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// adminToken prefers the bearer header and falls back to the cookie.
func adminToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	raw, err := c.Cookie(AdminCookieName)
	if err != nil {
		return ""
	}
	token, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return token
}
