package list

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/dto"
	"planner/middleware"
	"planner/store"
)

func ListController(router *gin.Engine, stores *store.Registry) {
	routes := router.Group("/lists", middleware.AccessTokenMiddleware())
	{
		routes.GET("", func(c *gin.Context) {
			GetLists(c, stores)
		})
		routes.POST("", func(c *gin.Context) {
			CreateList(c, stores)
		})
		routes.POST("/:id/todos", func(c *gin.Context) {
			AddTodo(c, stores)
		})
		routes.POST("/:id/todos/:todoId/toggle", func(c *gin.Context) {
			ToggleTodo(c, stores)
		})
		routes.DELETE("/:id/todos/:todoId", func(c *gin.Context) {
			DeleteTodo(c, stores)
		})
	}
}

func GetLists(c *gin.Context, stores *store.Registry) {
	st := stores.ListStore(middleware.SessionFromContext(c))
	if err := st.LoadLists(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load lists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": st.Lists()})
}

func CreateList(c *gin.Context, stores *store.Registry) {
	var req dto.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	st := stores.ListStore(middleware.SessionFromContext(c))
	created, err := st.AddList(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create list"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "List created successfully",
		"list":    created,
	})
}

func AddTodo(c *gin.Context, stores *store.Registry) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	st := stores.ListStore(middleware.SessionFromContext(c))
	created, err := st.AddTodo(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add todo"})
		return
	}
	if created == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Todo added successfully",
		"todo":    created,
	})
}

func ToggleTodo(c *gin.Context, stores *store.Registry) {
	st := stores.ListStore(middleware.SessionFromContext(c))
	if err := st.ToggleTodo(c.Request.Context(), c.Param("id"), c.Param("todoId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle todo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo toggled"})
}

func DeleteTodo(c *gin.Context, stores *store.Registry) {
	st := stores.ListStore(middleware.SessionFromContext(c))
	if err := st.RemoveTodo(c.Request.Context(), c.Param("id"), c.Param("todoId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}
