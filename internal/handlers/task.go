package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/services"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/types"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/utils"
	"github.com/rs/zerolog"
)

type CreateTaskRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Status      *models.TaskStatus `json:"status" binding:"omitempty,taskstatus"`
	AssigneeID  *string            `json:"assigneeId"`
}

// UpdateTaskRequest fields are optional. A null assigneeId leaves the
// assignee unchanged.
type UpdateTaskRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status" binding:"omitempty,taskstatus"`
	AssigneeID  *string            `json:"assigneeId"`
}

type TaskHandler struct {
	tasks *services.Tasks
	log   zerolog.Logger
}

func NewTaskHandler(tasks *services.Tasks, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, log: log}
}

func (h *TaskHandler) CreateTask(ctx *gin.Context) {
	userID, projectID, err := utils.GetUserAndParam(ctx, "projectId", "Project ID")

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	var body CreateTaskRequest

	if !bindJSON(ctx, &body) {
		return
	}

	task, err := h.tasks.Create(ctx.Request.Context(), projectID, userID, services.NewTask{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		AssigneeID:  body.AssigneeID,
	})

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewTaskResponse(*task))
}

func (h *TaskHandler) ListTasks(ctx *gin.Context) {
	userID, projectID, err := utils.GetUserAndParam(ctx, "projectId", "Project ID")

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	tasks, err := h.tasks.ListByProject(ctx.Request.Context(), projectID, userID)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponses(tasks))
}

func (h *TaskHandler) GetTask(ctx *gin.Context) {
	userID, taskID, err := utils.GetUserAndParam(ctx, "id", "Task ID")

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	task, err := h.tasks.Get(ctx.Request.Context(), taskID, userID)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(*task))
}

func (h *TaskHandler) UpdateTask(ctx *gin.Context) {
	userID, taskID, err := utils.GetUserAndParam(ctx, "id", "Task ID")

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	var body UpdateTaskRequest

	if !bindJSON(ctx, &body) {
		return
	}

	task, err := h.tasks.Update(ctx.Request.Context(), taskID, userID, services.TaskPatch{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		AssigneeID:  body.AssigneeID,
	})

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(*task))
}

func (h *TaskHandler) DeleteTask(ctx *gin.Context) {
	userID, taskID, err := utils.GetUserAndParam(ctx, "id", "Task ID")

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	if err := h.tasks.Delete(ctx.Request.Context(), taskID, userID); err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.MessageResponse{Message: "Task deleted"})
}
