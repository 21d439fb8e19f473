package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/gin-gonic/gin"
)

// MsgServerError is the only detail clients see for unexpected failures.
const MsgServerError = "Server Error"

// envelope is the uniform response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// listEnvelope adds paging information to a list response.
type listEnvelope struct {
	Success    bool              `json:"success"`
	Count      int               `json:"count"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Pages      int               `json:"pages"`
	Pagination models.Pagination `json:"pagination"`
	Data       []*models.Post    `json:"data"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func okList(c *gin.Context, page *models.PostPage) {
	c.JSON(http.StatusOK, listEnvelope{
		Success:    true,
		Count:      len(page.Posts),
		Total:      page.Total,
		Page:       page.Page,
		Pages:      page.Pages,
		Pagination: page.Pagination,
		Data:       page.Posts,
	})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Error: message})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error, strict bool) int {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrForbidden):
		if strict {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the envelope for err. Known kinds carry their
// client message; anything else is logged and reported as a bare 500.
func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err, s.strict)
	msg, hasMsg := common.MessageOf(err)

	if status == http.StatusInternalServerError || !hasMsg {
		s.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err.Error())
		fail(c, http.StatusInternalServerError, MsgServerError)
		return
	}

	fail(c, status, msg)
}
