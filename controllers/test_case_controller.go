package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"testcase-generator/constants"
	"testcase-generator/dto"
	"testcase-generator/generator"
	"testcase-generator/services"

	"github.com/gin-gonic/gin"
)

type ITestCaseController interface {
	Generate(ctx *gin.Context)
	ListByFeature(ctx *gin.Context)
	DeleteByFeature(ctx *gin.Context)
}

type TestCaseController struct {
	service services.ITestCaseService
}

func NewTestCaseController(service services.ITestCaseService) ITestCaseController {
	return &TestCaseController{service: service}
}

func (c *TestCaseController) Generate(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := projectID(ctx)
	if !ok {
		return
	}

	var input dto.GenerateTestCasesInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		bindError(ctx, err)
		return
	}

	result, err := c.service.Generate(ctx.Request.Context(), id, user.ID, input.FeatureName, input.RequirementText)
	if err != nil {
		var genErr *generator.GenerationError
		switch {
		case errors.Is(err, services.ErrFeatureExists):
			ctx.JSON(http.StatusBadRequest, gin.H{
				"detail": fmt.Sprintf(constants.ErrFeatureExistsFormat, strings.TrimSpace(input.FeatureName)),
			})
		case errors.As(err, &genErr):
			_ = ctx.Error(err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"detail": constants.ErrGenerationPrefix + genErr.Error()})
		default:
			respondError(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.GenerateTestCasesResponse{
		Message:        constants.MsgTestCasesGenerated,
		FeatureName:    result.FeatureName,
		TestCasesCount: result.Count(),
		TestCases:      result.TestCases,
	})
}

func (c *TestCaseController) ListByFeature(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := projectID(ctx)
	if !ok {
		return
	}

	testCases, err := c.service.ListByFeature(ctx.Request.Context(), id, user.ID, ctx.Param("feature_name"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, testCases)
}

func (c *TestCaseController) DeleteByFeature(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := projectID(ctx)
	if !ok {
		return
	}
	featureName := strings.TrimSpace(ctx.Param("feature_name"))

	deleted, err := c.service.DeleteByFeature(ctx.Request.Context(), id, user.ID, featureName)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteFeatureResponse{
		Message:      fmt.Sprintf(constants.MsgFeatureDeletedFormat, deleted, featureName),
		DeletedCount: deleted,
	})
}
