package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"roomify-client/models"
	"roomify-client/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RoomController struct {
	Backend *Backend
	log     *zap.Logger
}

func NewRoomController(b *Backend, log *zap.Logger) *RoomController {
	return &RoomController{Backend: b, log: utils.OrNop(log)}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ----------------------------------------------------
// 1. Public catalog (GET /api/rooms, GET /api/rooms/:id)
// ----------------------------------------------------

func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms := rc.Backend.Rooms()
	for i := range rooms {
		rooms[i].BookingCount = 0
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "Invalid room ID")
		return
	}
	room, err := rc.Backend.Room(id)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Room not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// 2. Admin room management (/api/admin/rooms)
// ----------------------------------------------------

func (rc *RoomController) AdminRooms(c *gin.Context) {
	c.JSON(http.StatusOK, rc.Backend.Rooms())
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var in models.RoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONMessage(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	room, err := rc.Backend.CreateRoom(in)
	if errors.Is(err, ErrMissingFields) {
		utils.JSONMessage(c, http.StatusBadRequest, "Room name and a positive price are required")
		return
	}
	if err != nil {
		utils.JSONMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	rc.log.Info("✅ room created", zap.Uint("room_id", room.ID), zap.String("name", room.Name))
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.JSONMessage(c, http.StatusBadRequest, "Room ID is required")
		return
	}

	var in models.RoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONMessage(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	room, err := rc.Backend.UpdateRoom(id, in)
	if errors.Is(err, ErrRoomNotFound) {
		utils.JSONMessage(c, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		utils.JSONMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.JSONMessage(c, http.StatusBadRequest, "Room ID is required")
		return
	}

	deleted, room, err := rc.Backend.DeleteRoom(id)
	if errors.Is(err, ErrRoomNotFound) {
		utils.JSONMessage(c, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		utils.JSONMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !deleted {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Room has existing bookings and has been marked as unavailable",
			"room":    room,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Room deleted successfully"})
}
