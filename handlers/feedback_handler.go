package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	apperrors "github.com/NomadCrew/feedback-service/errors"
	"github.com/NomadCrew/feedback-service/services"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/gin-gonic/gin"
)

// FeedbackHandler serves the /feedback resource.
type FeedbackHandler struct {
	feedbackService services.FeedbackServiceInterface
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService services.FeedbackServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// ListFeedback godoc
// @Summary      List feedback
// @Description  Returns every feedback entry, newest first
// @Tags         feedback
// @Produce      json
// @Success      200  {object}  docs.FeedbackListResponse
// @Failure      500  {object}  docs.ErrorResponse
// @Router       /feedback [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	items, err := h.feedbackService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.ListResponse(items))
}

// GetFeedback godoc
// @Summary      Get feedback
// @Description  Returns a single feedback entry
// @Tags         feedback
// @Produce      json
// @Param        id   path      string  true  "Feedback ID"
// @Success      200  {object}  docs.FeedbackResponse
// @Failure      404  {object}  docs.ErrorResponse
// @Failure      500  {object}  docs.ErrorResponse
// @Router       /feedback/{id} [get]
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	fb, err := h.feedbackService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.SuccessResponse(fb, ""))
}

// SubmitFeedback godoc
// @Summary      Submit feedback
// @Description  Creates a feedback entry. Name and message are trimmed and must not be empty.
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body  body      types.FeedbackInput  true  "Feedback payload"
// @Success      201   {object}  docs.FeedbackResponse
// @Failure      400   {object}  docs.ErrorResponse
// @Failure      500   {object}  docs.ErrorResponse
// @Router       /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req types.FeedbackInput
	if !bindJSONOrError(c, &req) {
		return
	}

	fb, err := h.feedbackService.Create(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.SuccessResponse(fb, services.MsgFeedbackSubmitted))
}

// UpdateFeedback godoc
// @Summary      Update feedback
// @Description  Overwrites name and message of an existing entry
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Feedback ID"
// @Param        body  body      types.FeedbackInput  true  "Feedback payload"
// @Success      200   {object}  docs.FeedbackResponse
// @Failure      400   {object}  docs.ErrorResponse
// @Failure      404   {object}  docs.ErrorResponse
// @Failure      500   {object}  docs.ErrorResponse
// @Router       /feedback/{id} [put]
func (h *FeedbackHandler) UpdateFeedback(c *gin.Context) {
	var req types.FeedbackInput
	if !bindJSONOrError(c, &req) {
		return
	}

	fb, err := h.feedbackService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.SuccessResponse(fb, services.MsgFeedbackUpdated))
}

// DeleteFeedback godoc
// @Summary      Delete feedback
// @Description  Removes an entry and returns it as it was before removal
// @Tags         feedback
// @Produce      json
// @Param        id   path      string  true  "Feedback ID"
// @Success      200  {object}  docs.FeedbackResponse
// @Failure      404  {object}  docs.ErrorResponse
// @Failure      500  {object}  docs.ErrorResponse
// @Router       /feedback/{id} [delete]
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	fb, err := h.feedbackService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.SuccessResponse(fb, services.MsgFeedbackDeleted))
}

// bindJSONOrError decodes a single JSON value from the request body and
// records a validation error if the body is malformed or carries anything
// after that value. An empty body binds as an empty object so the service
// reports the missing fields.
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if c.Request.Body == nil {
		return true
	}

	dec := json.NewDecoder(c.Request.Body)
	if err := dec.Decode(obj); err != nil {
		if stderrors.Is(err, io.EOF) {
			return true
		}
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return false
	}

	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", "unexpected data after JSON value"))
		return false
	}
	return true
}
