package controller

import (
	"strconv"
	"time"

	"civicboard/internal/registry/service"
	pkgerrors "civicboard/pkg/errors"
	"civicboard/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// ProblemController handles problem registry HTTP endpoints.
type ProblemController struct {
	problemService *service.ProblemService
}

// NewProblemController creates a new ProblemController.
func NewProblemController(problemService *service.ProblemService) *ProblemController {
	return &ProblemController{problemService: problemService}
}

// List handles problem listing with optional status/category filters.
func (h *ProblemController) List(c *gin.Context) {
	problems, err := h.problemService.List(c.Request.Context(), c.Query("status"), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessList(c, len(problems), problems)
}

// Get handles a single problem lookup.
func (h *ProblemController) Get(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}

	problem, err := h.problemService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, problem)
}

// Create handles problem creation.
func (h *ProblemController) Create(c *gin.Context) {
	var req CreateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgerrors.New(pkgerrors.RequiredFieldEmpty))
		return
	}

	problem, err := h.problemService.Create(c.Request.Context(), service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Problem reported successfully", problem)
}

// Update handles a partial problem update.
func (h *ProblemController) Update(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}

	var req UpdateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}

	problem, err := h.problemService.Update(c.Request.Context(), id, service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "Problem updated successfully", problem)
}

// Upvote handles the upvote counter increment.
func (h *ProblemController) Upvote(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}

	problem, err := h.problemService.Upvote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "Upvote recorded", problem)
}

// ChangeStatus handles the status transition endpoint.
func (h *ProblemController) ChangeStatus(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgerrors.New(pkgerrors.InvalidStatusValue))
		return
	}

	problem, err := h.problemService.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "Status updated successfully", problem)
}

// Delete handles problem deletion and echoes the removed record.
func (h *ProblemController) Delete(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}

	problem, err := h.problemService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "Problem deleted successfully", problem)
}

// Stats handles the aggregate statistics endpoint.
func (h *ProblemController) Stats(c *gin.Context) {
	stats, err := h.problemService.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// Health handles the liveness endpoint.
func (h *ProblemController) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"success":   true,
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// parseProblemID extracts the :id path parameter. On failure it writes the
// error response and returns false.
func parseProblemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid problem id")
		return 0, false
	}
	return id, true
}

// CreateProblemRequest defines the problem creation payload.
type CreateProblemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
}

// UpdateProblemRequest defines the partial update payload. Pointer fields
// distinguish "absent" from "present but empty".
type UpdateProblemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Location    *string `json:"location"`
	Status      *string `json:"status"`
}

// ChangeStatusRequest defines the status transition payload.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}
