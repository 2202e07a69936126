package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/middleware"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/service/factory"
)

// Register 注册接口
func Register(ctx *gin.Context) {
	var req model.UserRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := factory.GetServiceFactory().NewAuthService().Register(ctx, &req)
	if err != nil {
		log.Errorf("Register error: %v", err)
		ctx.JSON(statusForError(err), gin.H{"error": err.Message})
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// Login 登录接口，返回访问令牌
func Login(ctx *gin.Context) {
	var req model.UserLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := factory.GetServiceFactory().NewAuthService().Login(ctx, &req)
	if err != nil {
		log.Errorf("Login error: %v", err)
		ctx.JSON(statusForError(err), gin.H{"error": err.Message})
		return
	}

	ctx.JSON(http.StatusOK, token)
}

// Profile 当前用户画像接口
func Profile(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": model.ErrorMessages[model.ErrorInvalidToken]})
		return
	}

	serviceFactory := factory.GetServiceFactory()

	user, err := serviceFactory.NewAuthService().GetUser(ctx, userID)
	if err != nil {
		log.Errorf("Profile error: %v", err)
		ctx.JSON(statusForError(err), gin.H{"error": err.Message})
		return
	}

	preferences, err := serviceFactory.NewProfileService().List(ctx, userID)
	if err != nil {
		log.Errorf("Profile preferences error: %v", err)
		ctx.JSON(statusForError(err), gin.H{"error": err.Message})
		return
	}

	values := make([]string, 0, len(preferences))
	for _, pref := range preferences {
		values = append(values, pref.PreferenceValue)
	}

	ctx.JSON(http.StatusOK, &model.UserProfileResponse{
		UserID:      user.ID,
		UserName:    user.UserName,
		UserEmail:   user.UserEmail,
		Preferences: values,
		CreatedAt:   user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// statusForError 业务错误码到 HTTP 状态码的映射
func statusForError(err *model.Error) int {
	switch err.Code {
	case model.ErrorUserNameOrPassword, model.ErrorInvalidToken:
		return http.StatusUnauthorized
	case model.ErrorUserForbidden:
		return http.StatusForbidden
	case model.ErrorUserNotExist, model.ErrorShowNotFound:
		return http.StatusNotFound
	case model.ErrorUserExist:
		return http.StatusConflict
	case model.ErrorParams, model.ErrorUserNameEmpty, model.ErrorUserPasswordEmpty, model.ErrorPasswordMismatch:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
