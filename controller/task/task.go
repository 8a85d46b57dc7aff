package task

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planner/dto"
	"planner/middleware"
	"planner/model"
	"planner/repository"
	"planner/store"
)

func TaskController(router *gin.Engine, stores *store.Registry) {
	routes := router.Group("/tasks", middleware.AccessTokenMiddleware())
	{
		routes.GET("", func(c *gin.Context) {
			ListTasks(c, stores)
		})
		routes.POST("", func(c *gin.Context) {
			CreateTask(c, stores)
		})
		routes.PATCH("/:id", func(c *gin.Context) {
			UpdateTask(c, stores)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteTask(c, stores)
		})
		routes.POST("/:id/toggle", func(c *gin.Context) {
			ToggleTask(c, stores)
		})
		routes.POST("/:id/subtasks/:subtaskId/toggle", func(c *gin.Context) {
			ToggleSubtask(c, stores)
		})
	}
}

func ListTasks(c *gin.Context, stores *store.Registry) {
	st := stores.TaskStore(middleware.SessionFromContext(c))
	if err := st.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": st.Tasks()})
}

func CreateTask(c *gin.Context, stores *store.Registry) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	draft := model.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		Category:    req.Category,
	}

	if req.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueDate format"})
			return
		}
		draft.DueDate = &parsed
	}
	if req.Recurring != nil {
		draft.Recurring = &model.Recurring{
			Type:     model.RecurringType(req.Recurring.Type),
			Interval: req.Recurring.Interval,
		}
	}
	for _, sub := range req.Subtasks {
		draft.Subtasks = append(draft.Subtasks, model.Subtask{
			SubtaskID: uuid.New().String(),
			Title:     sub.Title,
		})
	}
	if req.Notifications != nil {
		draft.Notifications = model.NotificationPrefs{
			Email:   req.Notifications.Email,
			Browser: req.Notifications.Browser,
		}
	}

	st := stores.TaskStore(middleware.SessionFromContext(c))
	created, err := st.Add(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTask) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    created,
	})
}

func UpdateTask(c *gin.Context, stores *store.Registry) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	patch := store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Category:    req.Category,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.DueDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueDate format"})
			return
		}
		patch.DueDate = &parsed
	}
	if req.Recurring != nil {
		patch.Recurring = &model.Recurring{
			Type:     model.RecurringType(req.Recurring.Type),
			Interval: req.Recurring.Interval,
		}
	}
	if req.Notifications != nil {
		patch.Notifications = &model.NotificationPrefs{
			Email:   req.Notifications.Email,
			Browser: req.Notifications.Browser,
		}
	}

	st := stores.TaskStore(middleware.SessionFromContext(c))
	if err := st.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully"})
}

func DeleteTask(c *gin.Context, stores *store.Registry) {
	st := stores.TaskStore(middleware.SessionFromContext(c))
	if err := st.Remove(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func ToggleTask(c *gin.Context, stores *store.Registry) {
	st := stores.TaskStore(middleware.SessionFromContext(c))
	if err := st.ToggleCompletion(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task toggled"})
}

func ToggleSubtask(c *gin.Context, stores *store.Registry) {
	st := stores.TaskStore(middleware.SessionFromContext(c))
	if err := st.ToggleSubtask(c.Request.Context(), c.Param("id"), c.Param("subtaskId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle subtask"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subtask toggled"})
}
