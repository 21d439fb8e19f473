package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/gin-gonic/gin"
)

// MsgInvalidBody is returned when the request body is not valid JSON.
const MsgInvalidBody = "Invalid request body"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// bindJSON decodes the body into v. An empty body leaves v zeroed so the
// service reports the missing fields.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, MsgInvalidBody)
		return false
	}
	return true
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	summary, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, summary)
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	summary, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, summary)
}

func (s *Server) me(c *gin.Context) {
	identity, _ := IdentityFromContext(c.Request.Context())
	user, err := s.users.CurrentUser(identity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, user)
}

// queryInt reads a positive integer query parameter; anything else is 0,
// which the service replaces with its default.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func (s *Server) listPosts(c *gin.Context) {
	page, err := s.posts.List(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	okList(c, page)
}

func (s *Server) getPost(c *gin.Context) {
	post, err := s.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, post)
}

func (s *Server) createPost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req) {
		return
	}

	identity, _ := IdentityFromContext(c.Request.Context())
	post, err := s.posts.Create(c.Request.Context(), identity, req.Title, req.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, post)
}

func (s *Server) updatePost(c *gin.Context) {
	var patch models.PostPatch
	if !bindJSON(c, &patch) {
		return
	}

	identity, _ := IdentityFromContext(c.Request.Context())
	post, err := s.posts.Update(c.Request.Context(), identity, c.Param("id"), patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, post)
}

func (s *Server) deletePost(c *gin.Context) {
	identity, _ := IdentityFromContext(c.Request.Context())
	if err := s.posts.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

