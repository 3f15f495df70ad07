package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/focusup/internal/db"
	"github.com/focusup/internal/service"
	"github.com/gin-gonic/gin"
)

type todoPayload struct {
	TaskName    string `json:"taskName"`
	IsCompleted *bool  `json:"isCompleted"`
}

// ListTodos 返回当前用户的待办列表
func (a *API) ListTodos(c *gin.Context) {
	userID, _ := currentUserID(c)

	todos, err := a.todos.List(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error fetching todos")
		return
	}

	items := make([]gin.H, 0, len(todos))
	for _, todo := range todos {
		items = append(items, todoToJSON(todo))
	}
	c.JSON(http.StatusOK, items)
}

// CreateTodo 新建待办
func (a *API) CreateTodo(c *gin.Context) {
	userID, _ := currentUserID(c)

	var payload todoPayload
	if !bindJSON(c, &payload, "Please add a task name") {
		return
	}

	todo, err := a.todos.Create(userID, service.TodoInput{TaskName: payload.TaskName})
	if err != nil {
		handleTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, todoToJSON(*todo))
}

// UpdateTodo 更新待办名称/完成状态
func (a *API) UpdateTodo(c *gin.Context) {
	userID, _ := currentUserID(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid todo id")
		return
	}

	var payload todoPayload
	if !bindJSON(c, &payload, "Invalid todo payload") {
		return
	}

	todo, err := a.todos.Update(id, userID, service.TodoInput{
		TaskName:    payload.TaskName,
		IsCompleted: payload.IsCompleted,
	}, time.Now())
	if err != nil {
		handleTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, todoToJSON(*todo))
}

// DeleteTodo 删除待办
func (a *API) DeleteTodo(c *gin.Context) {
	userID, _ := currentUserID(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid todo id")
		return
	}

	if err := a.todos.Delete(id, userID); err != nil {
		handleTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo removed"})
}

func todoToJSON(todo db.Todo) gin.H {
	return gin.H{
		"id":          todo.ID,
		"taskName":    todo.TaskName,
		"isCompleted": todo.IsCompleted,
		"completedAt": todo.CompletedAt,
		"createdAt":   todo.CreatedAt,
	}
}

func handleTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		respondError(c, http.StatusNotFound, "Todo not found or not authorized")
	case errors.Is(err, service.ErrTodoInvalidInput):
		respondError(c, http.StatusBadRequest, "Please add a task name")
	default:
		respondError(c, http.StatusInternalServerError, "Server error")
	}
}
