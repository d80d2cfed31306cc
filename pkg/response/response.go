package response

import (
	"net/http"

	"gator.dev/studygator/pkg/apperror"
	"gator.dev/studygator/pkg/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserIDKey is the gin context key the auth middleware stores the acting user id under.
const UserIDKey = "user_id"

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uint, error) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, apperror.ErrUnauthorized
	}

	userID, ok := value.(uint)
	if !ok || userID == 0 {
		return 0, apperror.ErrUnauthorized
	}

	return userID, nil
}

// ResponseError standardized error response. Internal failures are logged and
// replaced by a fixed message so the cause never reaches the client.
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		zap.L().Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// BindingError responds 400 with a readable message for gin binding failures.
func BindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}
