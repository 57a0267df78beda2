package controllers

import (
	"accommodation/dto"
	"accommodation/response"
	"accommodation/validator"

	"github.com/gin-gonic/gin"
)

func (h *Controller) GetRoom(c *gin.Context) {
	room, err := h.svc.Rooms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, room)
}

func (h *Controller) ListRooms(c *gin.Context) {
	rooms, err := h.svc.Rooms.ListByProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithTotal(c, rooms, len(rooms))
}

func (h *Controller) RoomAvailability(c *gin.Context) {
	var q dto.RoomAvailabilityQuery
	if !bindQuery(c, &q) {
		return
	}
	checkIn, checkOut, err := validator.ParseStay(q.CheckIn, q.CheckOut, h.loc)
	if err != nil {
		fail(c, err)
		return
	}
	av, err := h.svc.Rooms.Availability(c.Request.Context(), c.Param("id"), checkIn, checkOut, q.ExcludeBookingID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, av)
}

func (h *Controller) AvailableRooms(c *gin.Context) {
	var q dto.AvailableRoomsQuery
	if !bindQuery(c, &q) {
		return
	}
	checkIn, checkOut, err := validator.ParseStay(q.CheckIn, q.CheckOut, h.loc)
	if err != nil {
		fail(c, err)
		return
	}
	rooms, err := h.svc.Rooms.Available(c.Request.Context(), q.PropertyID, checkIn, checkOut)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithTotal(c, rooms, len(rooms))
}

func (h *Controller) CreateMaintenance(c *gin.Context) {
	var req dto.CreateMaintenanceRequest
	if !bindJSON(c, &req) {
		return
	}
	start, end, err := validator.ParseWindow(req.StartDate, req.StartTime, req.EndDate, req.EndTime, h.loc)
	if err != nil {
		fail(c, err)
		return
	}
	m, err := h.svc.Maintenance.Create(c.Request.Context(), caller(c), c.Param("id"), start, end)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, m)
}

func (h *Controller) ListMaintenance(c *gin.Context) {
	list, err := h.svc.Maintenance.ListByRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithTotal(c, list, len(list))
}

func (h *Controller) DeleteMaintenance(c *gin.Context) {
	if err := h.svc.Maintenance.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "maintenance removed", nil)
}
