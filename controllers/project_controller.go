package controllers

import (
	"net/http"

	"testcase-generator/constants"
	"testcase-generator/dto"
	"testcase-generator/services"

	"github.com/gin-gonic/gin"
)

type IProjectController interface {
	FindAll(ctx *gin.Context)
	FindByID(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type ProjectController struct {
	service         services.IProjectService
	testCaseService services.ITestCaseService
}

func NewProjectController(service services.IProjectService, testCaseService services.ITestCaseService) IProjectController {
	return &ProjectController{service: service, testCaseService: testCaseService}
}

func (c *ProjectController) FindAll(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	projects, err := c.service.FindAll(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

// FindByID はプロジェクトと機能ごとにまとめたテストケースを返す
func (c *ProjectController) FindByID(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := projectID(ctx)
	if !ok {
		return
	}

	project, err := c.testCaseService.GetProjectGrouped(ctx.Request.Context(), id, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func (c *ProjectController) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.CreateProjectInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		bindError(ctx, err)
		return
	}

	newProject, err := c.service.Create(ctx.Request.Context(), input, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newProject)
}

func (c *ProjectController) Update(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := projectID(ctx)
	if !ok {
		return
	}

	var input dto.UpdateProjectInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		bindError(ctx, err)
		return
	}

	updatedProject, err := c.service.Update(ctx.Request.Context(), id, user.ID, input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updatedProject)
}

func (c *ProjectController) Delete(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := projectID(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), id, user.ID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": constants.MsgProjectDeleted})
}
