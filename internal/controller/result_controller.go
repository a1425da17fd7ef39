package controller

import (
	"career_bot_backend/internal/service"
	"career_bot_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	Results *service.ResultService
}

func NewResultController(results *service.ResultService) *ResultController {
	return &ResultController{Results: results}
}

// @Summary List a user's quiz attempts, newest first
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "user id"
// @Success 200 {object} util.Response
// @Router /admin/users/{id}/results [get]
func (c *ResultController) ListUserResults(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	results, err := c.Results.History(uint(id))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}
