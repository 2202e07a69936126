package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/service/factory"
)

const (
	// ContextUserIDKey 认证通过后写入 gin 上下文的用户 id 键
	ContextUserIDKey = "user_id"

	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// Auth 校验 Bearer 令牌，通过后将用户 id 写入上下文
func Auth(ctx *gin.Context) {
	header := ctx.GetHeader(authorizationHeader)
	if !strings.HasPrefix(header, bearerPrefix) {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": model.ErrorMessages[model.ErrorInvalidToken]})
		return
	}

	tokenString := strings.TrimPrefix(header, bearerPrefix)
	userID, err := factory.GetServiceFactory().NewAuthService().ParseToken(tokenString)
	if err != nil {
		log.Debugf("Token rejected: %v", err)
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Message})
		return
	}

	ctx.Set(ContextUserIDKey, userID)
	ctx.Next()
}

// GetUserID 读取认证中间件写入的用户 id
func GetUserID(ctx *gin.Context) (int64, bool) {
	value, ok := ctx.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}

	userID, ok := value.(int64)
	return userID, ok
}
