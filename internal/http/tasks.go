package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/booknotes/internal/tasks"
)

// TaskQueue enqueues background tasks and reports their status.
// Implemented by tasks.Client.
type TaskQueue interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// TasksController exposes the cover task queue as a small JSON API.
type TasksController struct {
	queue TaskQueue
}

// NewTasksController creates a new TasksController.
func NewTasksController(queue TaskQueue) *TasksController {
	return &TasksController{queue: queue}
}

// TaskTypeInfo describes a task type that can be triggered manually.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// BookID is required for warm_cover
	BookID  uint `json:"book_id,omitempty" form:"book_id"`
	// Refresh re-downloads covers that are already cached
	Refresh bool `json:"refresh,omitempty" form:"refresh"`
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"task_types": []TaskTypeInfo{
			{Type: "warm_cover", Description: "Download one book's cover into the local cache"},
			{Type: "warm_all_covers", Description: "Download the covers of every book"},
		},
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	code := http.StatusOK
	if status == backlite.TaskStatusNotFound {
		code = http.StatusNotFound
	}
	c.JSON(code, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTask handles POST /api/tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	var task backlite.Task
	switch taskType {
	case "warm_cover":
		if req.BookID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "book_id is required for warm_cover"})
			return
		}
		task = tasks.WarmCoverTask{BookID: req.BookID, Refresh: req.Refresh}
	case "warm_all_covers":
		task = tasks.WarmAllCoversTask{Refresh: req.Refresh}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown task type: " + taskType})
		return
	}

	ids, err := tc.queue.Add(task).Ctx(c.Request.Context()).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": ids[0],
		"type":    taskType,
		"message": "task enqueued",
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
