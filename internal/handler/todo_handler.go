package handler

import (
	"errors"
	"net/http"

	"todo_api/internal/model"
	"todo_api/internal/service"
	"todo_api/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TodoHandler handles todo item requests
type TodoHandler struct {
	service service.TodoService
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(s service.TodoService) *TodoHandler {
	return &TodoHandler{service: s}
}

// parseID reads the :id path parameter. Malformed ids are reported as not found.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *TodoHandler) GetAll(c *gin.Context) {
	since, errs := validation.ParseDate(c.Query("date"))
	if !errs.Empty() {
		validationFailed(c, errs)
		return
	}

	items, err := h.service.GetAll(c.Request.Context(), since)
	if err != nil {
		log.Error().Err(err).Msg("error getting todo items")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve todo items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("id", id.String()).Msg("error getting todo item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve todo item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *TodoHandler) Create(c *gin.Context) {
	var req model.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if errs := validation.CreateTodo(&req); !errs.Empty() {
		validationFailed(c, errs)
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("error creating todo item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo item"})
		return
	}
	c.Header("Location", "/todos/"+item.ID.String())
	c.JSON(http.StatusCreated, item)
}

func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if errs := validation.UpdateTodo(&req); !errs.Empty() {
		validationFailed(c, errs)
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("id", id.String()).Msg("error updating todo item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update todo item"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("id", id.String()).Msg("error deleting todo item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo item"})
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterTodoRoutes registers todo routes behind the given middlewares
func (h *TodoHandler) RegisterTodoRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	todos := rg.Group("/todos", mw...)
	{
		todos.GET("", h.GetAll)
		todos.POST("", h.Create)
		todos.GET("/:id", h.GetByID)
		todos.PUT("/:id", h.Update)
		todos.DELETE("/:id", h.Delete)
	}
}
