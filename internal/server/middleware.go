package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/saralbooks/saralbooks/internal/companyctx"
)

// CompanyContext resolves the active company from the X-Company-ID header,
// falling back to the seeded default company for single-shop installs.
func (s *Server) CompanyContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := int64(s.defaultCompany.ID)

		if header := strings.TrimSpace(c.GetHeader("X-Company-ID")); header != "" {
			parsed, err := strconv.ParseInt(header, 10, 64)
			if err != nil {
				AbortWithError(c, newValidationError("company_id", "invalid_company", "invalid company id"))
				return
			}
			companyID = parsed
		}

		ctx := companyctx.WithCompanyID(c.Request.Context(), companyID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
