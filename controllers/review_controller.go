package controllers

import (
	"accommodation/dto"
	"accommodation/errors"
	"accommodation/response"
	"accommodation/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Controller) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.svc.Reviews.Create(c.Request.Context(), caller(c), services.CreateReviewInput{
		BookingID:         req.BookingID,
		CleanlinessRating: req.CleanlinessRating,
		FacilityRating:    req.FacilityRating,
		ServiceRating:     req.ServiceRating,
		ValueRating:       req.ValueRating,
		Comment:           req.Comment,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, review)
}

func (h *Controller) PropertyReviews(c *gin.Context) {
	out, err := h.svc.Reviews.ListByProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, out)
}

func (h *Controller) MyReviews(c *gin.Context) {
	list, err := h.svc.Reviews.ListMine(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithTotal(c, list, len(list))
}

func (h *Controller) DeleteReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, errors.NewValidation("review id must be a UUID"))
		return
	}
	if err := h.svc.Reviews.Delete(c.Request.Context(), caller(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "review deleted", nil)
}
