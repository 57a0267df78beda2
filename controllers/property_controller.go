package controllers

import (
	"io"

	"accommodation/dto"
	"accommodation/errors"
	"accommodation/response"
	"accommodation/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func roomTypeInputs(reqs []dto.RoomTypeRequest) []services.RoomTypeInput {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]services.RoomTypeInput, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, roomTypeInput(r))
	}
	return out
}

func roomTypeInput(r dto.RoomTypeRequest) services.RoomTypeInput {
	return services.RoomTypeInput{
		Name:        r.Name,
		Floor:       r.Floor,
		Price:       r.Price,
		Capacity:    r.Capacity,
		Facility:    r.Facility,
		Facilities:  datatypes.JSON(r.Facilities),
		Description: r.Description,
		TotalRoom:   r.TotalRoom,
	}
}

func (h *Controller) CreateProperty(c *gin.Context) {
	var req dto.CreatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}
	in := services.CreatePropertyInput{
		Name:        req.PropertyName,
		Type:        *req.Type,
		Address:     req.Address,
		Province:    req.Province,
		Description: req.Description,
		Images:      req.Images,
		OwnerName:   req.OwnerName,
		RoomTypes:   roomTypeInputs(req.RoomTypes),
	}
	if req.OwnerID != "" {
		in.OwnerID = uuid.MustParse(req.OwnerID)
	}
	property, err := h.svc.Properties.Create(c.Request.Context(), caller(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, property)
}

func (h *Controller) UpdateProperty(c *gin.Context) {
	var req dto.UpdatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}
	property, err := h.svc.Properties.Update(c.Request.Context(), caller(c), c.Param("id"), services.UpdatePropertyInput{
		Name:        req.PropertyName,
		Address:     req.Address,
		Province:    req.Province,
		Description: req.Description,
		Images:      req.Images,
		RoomTypes:   roomTypeInputs(req.RoomTypes),
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "property updated", property)
}

func (h *Controller) DeleteProperty(c *gin.Context) {
	if err := h.svc.Properties.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "property deleted", nil)
}

func (h *Controller) GetProperty(c *gin.Context) {
	property, err := h.svc.Properties.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, property)
}

func (h *Controller) ListProperties(c *gin.Context) {
	var q dto.PropertyListQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := h.svc.Properties.List(c.Request.Context(), caller(c), services.PropertyQuery{
		Name:            q.Name,
		Type:            q.Type,
		Province:        q.Province,
		Query:           q.Q,
		IncludeInactive: q.IncludeInactive,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithTotal(c, list, len(list))
}

// UploadPropertyImages takes a multipart form with one or more "images" files
func (h *Controller) UploadPropertyImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, errors.NewValidation("multipart form expected"))
		return
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		fail(c, errors.NewValidation("images is required"))
		return
	}

	files := make([]io.Reader, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			fail(c, errors.NewValidation("cannot read %s", fh.Filename))
			return
		}
		defer f.Close()
		files = append(files, f)
	}

	urls, err := h.svc.Properties.UploadImages(c.Request.Context(), caller(c), c.Param("id"), files)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "images uploaded", urls)
}

// PropertyLedger shows the income entries of a property next to its cached income
func (h *Controller) PropertyLedger(c *gin.Context) {
	ctx := c.Request.Context()
	who := caller(c)
	property, err := h.svc.Properties.Get(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !who.IsSuperadmin() && property.OwnerID != who.UserID {
		fail(c, errors.NewAccessDenied("you do not own this property"))
		return
	}
	view, err := h.svc.Ledger.Statement(ctx, property.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, view)
}

func (h *Controller) CreateRoomType(c *gin.Context) {
	var req dto.RoomTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	rt, err := h.svc.RoomTypes.Create(c.Request.Context(), caller(c), c.Param("id"), roomTypeInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, rt)
}

func (h *Controller) UpdateRoomType(c *gin.Context) {
	var req dto.UpdateRoomTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	in := services.RoomTypeUpdate{
		Price:       req.Price,
		Capacity:    req.Capacity,
		Facility:    req.Facility,
		Description: req.Description,
	}
	if len(req.Facilities) > 0 {
		in.Facilities = datatypes.JSON(req.Facilities)
	}
	rt, err := h.svc.RoomTypes.Update(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "room type updated", rt)
}

func (h *Controller) ListRoomTypes(c *gin.Context) {
	list, err := h.svc.RoomTypes.ListByProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithTotal(c, list, len(list))
}
