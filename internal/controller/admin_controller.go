package controller

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	UserService *service.UserService
}

func NewAdminController(userService *service.UserService) *AdminController {
	return &AdminController{UserService: userService}
}

// @Summary List all student accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	students, err := c.UserService.ListByRole(model.Student)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// @Summary List all instructor accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/instructors [get]
func (c *AdminController) ListInstructors(ctx *gin.Context) {
	instructors, err := c.UserService.ListByRole(model.Instructor)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, instructors)
}

// @Summary Promote a student to instructor
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId path int true "user id"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{userId}/promote [put]
func (c *AdminController) PromoteToInstructor(ctx *gin.Context) {
	userID, err := parseID(ctx, "userId")
	if err != nil {
		return
	}

	user, err := c.UserService.PromoteToInstructor(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, user)
}
