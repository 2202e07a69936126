package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/service/factory"
)

// ResolveShow 按标题解析影视元数据
func ResolveShow(ctx *gin.Context) {
	title := ctx.Query("title")
	if title == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	data, err := factory.GetServiceFactory().NewShowService().Resolve(ctx, title)
	if err != nil {
		log.Errorf("ResolveShow error: %v", err)
		ctx.JSON(statusForError(err), gin.H{"error": err.Message})
		return
	}

	ctx.JSON(http.StatusOK, data)
}

// IndexShow 解析元数据并写入语义索引，供推荐检索使用
func IndexShow(ctx *gin.Context) {
	var req model.ShowIndexRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svcFactory := factory.GetServiceFactory()

	data, err := svcFactory.NewShowService().Resolve(ctx, req.Title)
	if err != nil {
		log.Errorf("IndexShow resolve error: %v", err)
		ctx.JSON(statusForError(err), gin.H{"error": err.Message})
		return
	}

	if indexErr := svcFactory.NewShowRetriever().IndexShow(ctx, data); indexErr != nil {
		log.Errorf("IndexShow error: %v", indexErr)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": model.ErrorMessages[model.ErrorExternalService]})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"show_id": data.ShowID, "title": data.Title})
}
