package submissions

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-feedback/internal/feedback"
	"resume-feedback/internal/shared/server/middleware"
	"resume-feedback/internal/shared/server/respond"
	"resume-feedback/internal/shared/storage/object"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the controller and service.
type Handler struct {
	Controller *Controller
	Svc        *Service
	Store      object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(ctrl *Controller, svc *Service, store object.ObjectStore) *Handler {
	return &Handler{Controller: ctrl, Svc: svc, Store: store}
}

// RegisterRoutes attaches submission routes to the router group. submitMiddleware runs
// before the upload handler only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, submitMiddleware ...gin.HandlerFunc) {
	rg.POST("/submissions", append(submitMiddleware, h.submit)...)
	rg.GET("/submissions/:id", h.get)
	rg.GET("/submissions/:id/report", h.report)
	rg.GET("/submissions/:id/file", h.file)
	rg.GET("/submissions/:id/image", h.image)
}

type submitResponse struct {
	ID     string `json:"id"`
	Stage  Stage  `json:"stage"`
	Status string `json:"status"`
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	in := Input{
		CompanyName:    c.PostForm("company-name"),
		JobTitle:       c.PostForm("job-title"),
		JobDescription: c.PostForm("job-description"),
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return
		}
		in.File = &File{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	state, err := h.Controller.Submit(c.Request.Context(), in)
	c.Set(middleware.SubmissionIDKey, state.SubmissionID)
	c.Set(middleware.StageKey, string(state.Stage))
	if err != nil {
		var stageErr *StageError
		switch {
		case errors.Is(err, ErrNoFile):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		case errors.Is(err, ErrInvalidTransition):
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process submission", nil)
		case errors.As(err, &stageErr):
			details := gin.H{"stage": state.Stage, "failedStage": state.FailedStep}
			if state.Persisted {
				details["id"] = state.SubmissionID
			}
			respond.Error(c, http.StatusUnprocessableEntity, "submission_failed", state.Status, details)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process submission", nil)
		}
		return
	}

	respond.Created(c, path.Join(c.FullPath(), state.SubmissionID), submitResponse{
		ID:     state.SubmissionID,
		Stage:  state.Stage,
		Status: state.Status,
	})
}

func (h *Handler) get(c *gin.Context) {
	sub, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupError(c, err)
		return
	}
	respond.OK(c, sub)
}

type reportResponse struct {
	ID          string          `json:"id"`
	CompanyName string          `json:"companyName"`
	JobTitle    string          `json:"jobTitle"`
	ImagePath   string          `json:"imagePath"`
	Report      feedback.Report `json:"report"`
}

func (h *Handler) report(c *gin.Context) {
	sub, rep, err := h.Svc.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrFeedbackPending):
			respond.Error(c, http.StatusConflict, "feedback_pending", "feedback is not available yet", nil)
		case errors.Is(err, feedback.ErrInvalidFeedback):
			respond.Error(c, http.StatusUnprocessableEntity, "invalid_feedback", err.Error(), nil)
		default:
			h.lookupError(c, err)
		}
		return
	}
	respond.OK(c, reportResponse{
		ID:          sub.ID,
		CompanyName: sub.CompanyName,
		JobTitle:    sub.JobTitle,
		ImagePath:   sub.ImagePath,
		Report:      rep,
	})
}

func (h *Handler) file(c *gin.Context) {
	h.serveObject(c, func(s Submission) string { return s.FilePath })
}

func (h *Handler) image(c *gin.Context) {
	h.serveObject(c, func(s Submission) string { return s.ImagePath })
}

func (h *Handler) serveObject(c *gin.Context, pick func(Submission) string) {
	sub, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupError(c, err)
		return
	}
	p := pick(sub)
	if p == "" {
		respond.Error(c, http.StatusNotFound, "not_found", "object not found", nil)
		return
	}
	rc, err := h.Store.Open(c.Request.Context(), p)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "object not found", nil)
		return
	}
	defer rc.Close()

	contentType, body, err := object.Sniff(rc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read object", nil)
		return
	}
	c.Header("Content-Disposition", "inline; filename=\""+displayName(p)+"\"")
	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}

func (h *Handler) lookupError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch submission", nil)
}

// displayName drops the random prefix stores add to object names.
func displayName(p string) string {
	base := path.Base(p)
	if i := strings.IndexByte(base, '_'); i >= 0 && i < len(base)-1 {
		return base[i+1:]
	}
	return base
}
