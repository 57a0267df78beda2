package dto

import "encoding/json"

type RoomTypeRequest struct {
	Name        string          `json:"name" binding:"required,roomtypename"`
	Floor       int             `json:"floor" binding:"required,min=1"`
	Price       int64           `json:"price" binding:"min=0"`
	Capacity    int             `json:"capacity" binding:"required,min=1"`
	Facility    string          `json:"facility"`
	Facilities  json.RawMessage `json:"facilities"`
	Description string          `json:"description"`
	TotalRoom   int             `json:"totalRoom" binding:"min=0,max=99"`
}

type UpdateRoomTypeRequest struct {
	Price       *int64          `json:"price" binding:"omitempty,min=0"`
	Capacity    *int            `json:"capacity" binding:"omitempty,min=1"`
	Facility    *string         `json:"facility"`
	Facilities  json.RawMessage `json:"facilities"`
	Description *string         `json:"description"`
}

type CreatePropertyRequest struct {
	PropertyName string            `json:"propertyName" binding:"required"`
	Type         *int              `json:"type" binding:"required,min=0,max=2"`
	Address      string            `json:"address" binding:"required"`
	Province     string            `json:"province" binding:"required"`
	Description  string            `json:"description"`
	Images       []string          `json:"images" binding:"omitempty,dive,url"`
	OwnerID      string            `json:"ownerId" binding:"omitempty,uuid"`
	OwnerName    string            `json:"ownerName"`
	RoomTypes    []RoomTypeRequest `json:"roomTypes" binding:"omitempty,dive"`
}

type UpdatePropertyRequest struct {
	PropertyName *string           `json:"propertyName"`
	Address      *string           `json:"address"`
	Province     *string           `json:"province"`
	Description  *string           `json:"description"`
	Images       []string          `json:"images" binding:"omitempty,dive,url"`
	RoomTypes    []RoomTypeRequest `json:"roomTypes" binding:"omitempty,dive"`
}

type PropertyListQuery struct {
	Name            string `form:"name"`
	Type            *int   `form:"type" binding:"omitempty,min=0,max=2"`
	Province        string `form:"province"`
	Q               string `form:"q"`
	IncludeInactive bool   `form:"includeInactive"`
}
