package handlers

import (
	"errors"
	"io"
	"net/http"

	"tracker-backend/internal/models"
	"tracker-backend/internal/service"
	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TaskHandler serves the task board. Tasks are called phases on the wire.
type TaskHandler struct {
	taskService *service.TaskService
	log         zerolog.Logger
}

func NewTaskHandler(taskService *service.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         logger.GetLogger("task-handler"),
	}
}

func (h *TaskHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/phases", h.ListTasks)
	r.POST("/phases", h.CreateTask)
	r.GET("/phases/:id", h.GetTask)
	r.PUT("/phases/:id", h.UpdateTask)
	r.DELETE("/phases/:id", h.DeleteTask)
}

// taskRequest carries the writable task fields. Pointers tell absent
// fields apart from empty ones.
type taskRequest struct {
	Phase       *string `json:"phase"`
	Goal        *string `json:"goal"`
	Need        *string `json:"need"`
	Comments    *string `json:"comments"`
	Execute     *string `json:"execute"`
	Stage       *string `json:"stage"`
	CommentArea *string `json:"commentArea"`
	AssignedTo  *string `json:"assigned_to"`
}

func (r *taskRequest) patch() *models.TaskPatch {
	return &models.TaskPatch{
		Phase:       r.Phase,
		Goal:        r.Goal,
		Need:        r.Need,
		Comments:    r.Comments,
		Execute:     r.Execute,
		Stage:       r.Stage,
		CommentArea: r.CommentArea,
	}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.List(c.Request.Context())
	if err != nil {
		internalError(c, h.log, err, "Failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), id)
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		internalError(c, h.log, err, "Failed to load task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req taskRequest
	// an empty body creates an empty task owned by the team
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task := &models.Task{}
	req.patch().Apply(task)
	if req.AssignedTo != nil {
		task.AssignedTo = *req.AssignedTo
	}

	if err := h.taskService.Create(c.Request.Context(), task); err != nil {
		internalError(c, h.log, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": task.ID})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.taskService.Update(c.Request.Context(), id, req.patch(), req.AssignedTo)
	if err != nil {
		internalError(c, h.log, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.taskService.Delete(c.Request.Context(), id)
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		internalError(c, h.log, err, "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
