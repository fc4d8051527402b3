package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/services"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/types"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/utils"
	"github.com/rs/zerolog"
)

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RemoveMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type ProjectHandler struct {
	projects *services.Projects
	access   *services.Access
	log      zerolog.Logger
}

func NewProjectHandler(projects *services.Projects, access *services.Access, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, access: access, log: log}
}

func (h *ProjectHandler) ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	summaries, err := h.projects.ListAccessible(ctx.Request.Context(), userID)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	response := make([]types.ProjectListItem, 0, len(summaries))

	for _, s := range summaries {
		response = append(response, types.ProjectListItem{
			ProjectResponse: types.NewProjectResponse(s.Project),
			Owner:           types.NewUserResponse(s.Owner),
			Count: types.ProjectCounts{
				Tasks:   s.Counts.Tasks,
				Members: s.Counts.Members,
			},
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *ProjectHandler) CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if !bindJSON(ctx, &body) {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	project, err := h.projects.Create(ctx.Request.Context(), userID, body.Name)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewProjectResponse(*project))
}

func (h *ProjectHandler) GetProject(ctx *gin.Context) {
	userID, projectID, err := utils.GetUserAndParam(ctx, "id", "Project ID")

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	project, err := h.projects.GetDetail(ctx.Request.Context(), projectID, userID)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectDetail(*project))
}

func (h *ProjectHandler) UpdateProject(ctx *gin.Context) {
	userID, projectID, err := utils.GetUserAndParam(ctx, "id", "Project ID")

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	var body UpdateProjectRequest

	if !bindJSON(ctx, &body) {
		return
	}

	project, err := h.projects.Rename(ctx.Request.Context(), projectID, userID, body.Name)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponse(*project))
}

func (h *ProjectHandler) DeleteProject(ctx *gin.Context) {
	userID, projectID, err := utils.GetUserAndParam(ctx, "id", "Project ID")

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	if err := h.projects.Delete(ctx.Request.Context(), projectID, userID); err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.MessageResponse{Message: "Project deleted"})
}

func (h *ProjectHandler) Invite(ctx *gin.Context) {
	userID, projectID, err := utils.GetUserAndParam(ctx, "id", "Project ID")

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	var body InviteRequest

	if !bindJSON(ctx, &body) {
		return
	}

	if _, err := h.access.Invite(ctx.Request.Context(), projectID, userID, body.Email); err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.MessageResponse{Message: "User invited"})
}

func (h *ProjectHandler) RemoveMember(ctx *gin.Context) {
	userID, projectID, err := utils.GetUserAndParam(ctx, "id", "Project ID")

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	var body RemoveMemberRequest

	if !bindJSON(ctx, &body) {
		return
	}

	reassigned, err := h.access.RemoveMember(ctx.Request.Context(), projectID, userID, body.UserID)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.RemoveMemberResponse{
		Message:         "Member removed",
		ReassignedTasks: reassigned,
	})
}
