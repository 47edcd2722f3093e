package auth

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/gin-gonic/gin"
)

const (
	HeaderTenantID     = "X-Tenant-ID"
	HeaderDepartmentID = "X-Department-ID"
	HeaderSiteID       = "X-Site-ID"
	HeaderSiteType     = "X-Site-Type"

	identityKey = "identity"
)

// IdentityMiddleware reads the caller scope forwarded by the gateway. Requests
// without a complete scope are rejected; there is no default tenant.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity{
			TenantID:     c.GetHeader(HeaderTenantID),
			DepartmentID: c.GetHeader(HeaderDepartmentID),
			SiteID:       c.GetHeader(HeaderSiteID),
			SiteType:     model.SiteType(c.GetHeader(HeaderSiteType)),
		}

		missing := ""
		switch {
		case id.TenantID == "":
			missing = HeaderTenantID
		case id.DepartmentID == "":
			missing = HeaderDepartmentID
		case id.SiteID == "":
			missing = HeaderSiteID
		case !id.SiteType.Valid():
			missing = HeaderSiteType
		}
		if missing != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SCOPE_REQUIRED",
					"message": missing + " header is required",
				},
			})
			return
		}

		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// GetIdentity returns the scope stored by IdentityMiddleware.
func GetIdentity(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	id, _ := FromContext(c.Request.Context())
	return id
}
