package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"internship_service/internal/domain"
	"internship_service/internal/service"
	"internship_service/pkg/logger"
)

type Handler struct {
	taskService       service.TaskServiceInterface
	submissionService service.SubmissionServiceInterface
	reviewService     service.ReviewServiceInterface
	monitoringService service.MonitoringServiceInterface
	logger            *logger.Logger
}

func NewHandler(
	taskService service.TaskServiceInterface,
	submissionService service.SubmissionServiceInterface,
	reviewService service.ReviewServiceInterface,
	monitoringService service.MonitoringServiceInterface,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		taskService:       taskService,
		submissionService: submissionService,
		reviewService:     reviewService,
		monitoringService: monitoringService,
		logger:            logger,
	}
}

func (h *Handler) Register(g *echo.Group) {
	g.POST("/tasks", h.CreateTask)
	g.GET("/tasks", h.ListTasks)
	g.GET("/tasks/:id", h.GetTask)
	g.PATCH("/tasks/:id", h.UpdateTask)
	g.DELETE("/tasks/:id", h.DeleteTask)

	g.POST("/tasks/:id/start", h.StartTask)
	g.POST("/tasks/:id/submission", h.Submit)
	g.DELETE("/tasks/:id/submission", h.DeleteDraft)
	g.GET("/tasks/:id/students/:studentID", h.GetStudentTaskView)

	g.POST("/submissions/:id/review", h.Review)

	g.GET("/tasks/:id/stats", h.GetTaskStats)
	g.GET("/tasks/:id/submissions", h.ListSubmissions)
}

type createTaskRequest struct {
	Title         string      `json:"title" validate:"required"`
	Description   string      `json:"description" validate:"required"`
	DueDate       time.Time   `json:"due_date" validate:"required"`
	TargetMajors  []string    `json:"target_majors"`
	RubricIDs     []uuid.UUID `json:"rubric_ids"`
	AttachmentIDs []uuid.UUID `json:"attachment_ids"`
}

type updateTaskRequest struct {
	Title         *string      `json:"title"`
	Description   *string      `json:"description"`
	DueDate       *time.Time   `json:"due_date"`
	TargetMajors  *[]string    `json:"target_majors"`
	RubricIDs     *[]uuid.UUID `json:"rubric_ids"`
	AttachmentIDs *[]uuid.UUID `json:"attachment_ids"`
}

type submitRequest struct {
	Note  *string       `json:"note"`
	Files []filePayload `json:"files" validate:"required,min=1,dive"`
}

type filePayload struct {
	URL       string `json:"url" validate:"required"`
	Filename  string `json:"filename" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0"`
	MimeType  string `json:"mime_type" validate:"required"`
}

type reviewRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Score    *int   `json:"score" validate:"omitempty,gte=0,lte=100"`
	Notes    string `json:"notes" validate:"required"`
}

func (h *Handler) CreateTask(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), actor, service.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		TargetMajors:  req.TargetMajors,
		RubricIDs:     req.RubricIDs,
		AttachmentIDs: req.AttachmentIDs,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *Handler) GetTask(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), actor, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *Handler) ListTasks(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), actor)
	if err != nil {
		return h.writeError(c, err)
	}

	out := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = toTaskResponse(task)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), actor, id, domain.TaskUpdate{
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		TargetMajors:  req.TargetMajors,
		RubricIDs:     req.RubricIDs,
		AttachmentIDs: req.AttachmentIDs,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *Handler) DeleteTask(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), actor, id); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) StartTask(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	taskID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	submission, err := h.submissionService.Start(c.Request().Context(), actor, taskID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSubmissionResponse(submission))
}

func (h *Handler) Submit(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	taskID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req submitRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	files := make([]domain.SubmissionFile, len(req.Files))
	for i, f := range req.Files {
		files[i] = domain.SubmissionFile{
			URL:       f.URL,
			Filename:  f.Filename,
			SizeBytes: f.SizeBytes,
			MimeType:  f.MimeType,
		}
	}

	submission, err := h.submissionService.Submit(c.Request().Context(), actor, taskID, files, req.Note)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSubmissionResponse(submission))
}

func (h *Handler) DeleteDraft(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	taskID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.submissionService.DeleteDraft(c.Request().Context(), actor, taskID); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetStudentTaskView(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	taskID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	studentID, err := pathUUID(c, "studentID")
	if err != nil {
		return err
	}

	view, err := h.submissionService.GetStudentTaskView(c.Request().Context(), actor, taskID, studentID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toStudentTaskViewResponse(view))
}

func (h *Handler) Review(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	submissionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	submission, err := h.reviewService.Review(c.Request().Context(), actor, submissionID, domain.ReviewDecision{
		Decision: domain.Decision(req.Decision),
		Score:    req.Score,
		Notes:    req.Notes,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSubmissionResponse(submission))
}

func (h *Handler) GetTaskStats(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	taskID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	stats, err := h.monitoringService.GetTaskStats(c.Request().Context(), actor, taskID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListSubmissions(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	taskID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	summaries, err := h.monitoringService.ListSubmissions(c.Request().Context(), actor, taskID)
	if err != nil {
		return h.writeError(c, err)
	}

	out := make([]submissionSummaryResponse, len(summaries))
	for i, summary := range summaries {
		out[i] = toSubmissionSummaryResponse(summary)
	}
	return c.JSON(http.StatusOK, out)
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, badRequest(c, "invalid "+name)
	}
	return id, nil
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}
	return nil
}
