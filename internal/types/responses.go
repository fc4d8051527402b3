package types

import (
	"time"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func NewUserSummary(u models.User) UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email}
}

type ProjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewProjectResponse(p models.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		OwnerID:   p.OwnerID,
		CreatedAt: p.CreatedAt,
	}
}

type ProjectCounts struct {
	Tasks   int64 `json:"tasks"`
	Members int64 `json:"members"`
}

type ProjectListItem struct {
	ProjectResponse
	Owner UserResponse  `json:"owner"`
	Count ProjectCounts `json:"_count"`
}

type MemberResponse struct {
	ID     string      `json:"id"`
	UserID string      `json:"userId"`
	User   UserSummary `json:"user"`
}

type ProjectDetail struct {
	ProjectResponse
	Members []MemberResponse `json:"members"`
	Tasks   []TaskResponse   `json:"tasks"`
}

func NewProjectDetail(p models.Project) ProjectDetail {
	detail := ProjectDetail{
		ProjectResponse: NewProjectResponse(p),
		Members:         make([]MemberResponse, 0, len(p.Members)),
		Tasks:           NewTaskResponses(p.Tasks),
	}

	for _, m := range p.Members {
		detail.Members = append(detail.Members, MemberResponse{
			ID:     m.ID,
			UserID: m.UserID,
			User:   NewUserSummary(m.User),
		})
	}

	return detail
}

type TaskResponse struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"projectId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	AssigneeID  *string       `json:"assigneeId"`
	Assignee    *UserResponse `json:"assignee"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func NewTaskResponse(t models.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		AssigneeID:  t.AssigneeID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if t.Assignee != nil {
		a := NewUserResponse(*t.Assignee)
		resp.Assignee = &a
	}

	return resp
}

func NewTaskResponses(tasks []models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

type RemoveMemberResponse struct {
	Message         string `json:"message"`
	ReassignedTasks int64  `json:"reassignedTasks"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}
