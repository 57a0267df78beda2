package controllers

import (
	"time"

	"accommodation/middleware"
	"accommodation/response"
	"accommodation/services"
	"accommodation/types"
	"accommodation/validator"

	"github.com/gin-gonic/gin"
)

// Controller holds the services the handlers call into
type Controller struct {
	svc *services.Services
	loc *time.Location
}

func NewController(svc *services.Services, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{svc: svc, loc: loc}
}

// fail hands err to the error middleware
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, validator.BindError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		fail(c, validator.BindError(err))
		return false
	}
	return true
}

// caller is the identity set by AuthMiddleware, or an anonymous one on public routes
func caller(c *gin.Context) types.Identity {
	who, ok := middleware.Identity(c)
	if !ok {
		return types.Identity{}
	}
	return who
}

func Ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}
