package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
)

const userContextKey = "glucova_user"

// RequireUser resolves the bearer token to a user or aborts with 401.
func (rs *RestfulServer) RequireUser(c *gin.Context) {
	header := c.GetHeader(common.AuthorizationHeader)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, common.BearerTokenType) || strings.TrimSpace(token) == "" {
		abortWithError(c, apperrors.New(apperrors.CodeUnauthorized, "Not authenticated"))
		return
	}

	user, err := rs.Monitor.Identity.Authenticate(strings.TrimSpace(token))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Set(userContextKey, user)
	c.Next()
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}

// abortWithError writes {"detail": message} with the status for the error's code.
func abortWithError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	status := appErr.Code.HTTPStatus()

	if status == http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	if status == http.StatusUnauthorized {
		c.Header(common.AuthenticateHeader, common.AuthenticateHeaderBearer)
	}

	c.AbortWithStatusJSON(status, gin.H{"detail": appErr.PublicMessage()})
}

func abortWithIssues(c *gin.Context, issues any) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": issues})
}
