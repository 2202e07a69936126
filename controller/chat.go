package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/middleware"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/service/factory"
)

// Chat 聊天接口
func Chat(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": model.ErrorMessages[model.ErrorInvalidToken]})
		return
	}

	var req model.ChatMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := factory.GetServiceFactory().NewChatService().ProcessTurn(ctx, userID, &req)
	if err != nil {
		log.Errorf("Chat error: %v", err)
		ctx.JSON(statusForError(err), gin.H{"error": err.Message})
		return
	}

	ctx.JSON(http.StatusOK, res)
}

// ChatHistory 分页查询会话历史
func ChatHistory(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": model.ErrorMessages[model.ErrorInvalidToken]})
		return
	}

	var req model.ChatHistoryRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := factory.GetServiceFactory().NewHistoryService().ListInteractions(ctx, userID, &req)
	if err != nil {
		log.Errorf("ChatHistory error: %v", err)
		ctx.JSON(statusForError(err), gin.H{"error": err.Message})
		return
	}

	ctx.JSON(http.StatusOK, res)
}
