package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"testcase-generator/constants"
	"testcase-generator/models"
	"testcase-generator/services"

	"github.com/gin-gonic/gin"
)

func currentUser(ctx *gin.Context) (*models.User, bool) {
	user, exists := ctx.Get(constants.ContextUserKey)
	if !exists {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return nil, false
	}
	u, ok := user.(*models.User)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return nil, false
	}
	return u, true
}

func projectID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": constants.ErrInvalidID})
		return 0, false
	}
	return uint(id), true
}

func bindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
}

// respondError はサービス層の共通エラーをステータスコードに変換する
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"detail": constants.ErrProjectNotFound})
	case errors.Is(err, services.ErrInvalidInput):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": constants.ErrInvalidInput})
	default:
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": constants.ErrUnexpected})
	}
}
