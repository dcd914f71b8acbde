package controllers

import (
	"errors"
	"net/http"

	"testcase-generator/constants"
	"testcase-generator/dto"
	"testcase-generator/middlewares"
	"testcase-generator/services"

	"github.com/gin-gonic/gin"
)

type IAuthController interface {
	Signup(ctx *gin.Context)
	Login(ctx *gin.Context)
	Me(ctx *gin.Context)
	Logout(ctx *gin.Context)
	DeleteMe(ctx *gin.Context)
}

type AuthController struct {
	service services.IAuthService
}

func NewAuthController(service services.IAuthService) IAuthController {
	return &AuthController{service: service}
}

func (c *AuthController) Signup(ctx *gin.Context) {
	var input dto.SignupInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		bindError(ctx, err)
		return
	}

	user, err := c.service.Signup(ctx.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": constants.ErrEmailRegistered})
		case errors.Is(err, services.ErrUsernameTaken):
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": constants.ErrUsernameTaken})
		default:
			respondError(ctx, err)
		}
		return
	}
	ctx.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Login は OAuth2 パスワードフロー互換。username にはメールアドレスを入れる
func (c *AuthController) Login(ctx *gin.Context) {
	var input dto.LoginInput
	if err := ctx.ShouldBind(&input); err != nil {
		bindError(ctx, err)
		return
	}

	token, err := c.service.Login(ctx.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			ctx.Header("WWW-Authenticate", "Bearer")
			ctx.JSON(http.StatusUnauthorized, gin.H{"detail": constants.ErrInvalidCredentials})
			return
		}
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (c *AuthController) Me(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func (c *AuthController) Logout(ctx *gin.Context) {
	tokenString, ok := middlewares.BearerToken(ctx)
	if !ok {
		middlewares.AbortUnauthorized(ctx)
		return
	}

	if err := c.service.Logout(ctx.Request.Context(), tokenString); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			middlewares.AbortUnauthorized(ctx)
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": constants.MsgLoggedOut})
}

func (c *AuthController) DeleteMe(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	if err := c.service.DeleteUser(ctx.Request.Context(), user.ID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			middlewares.AbortUnauthorized(ctx)
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": constants.MsgUserDeleted})
}
