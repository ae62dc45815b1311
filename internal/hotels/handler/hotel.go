package handler

import (
	"net/http"
	"strconv"

	"confstay/internal/hotels/service"
	apperrors "confstay/pkg/errors"
	httputil "confstay/pkg/http"
	"confstay/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type HotelHandler struct {
	service service.HotelService
	log     *logger.Logger
}

func NewHotelHandler(service service.HotelService, log *logger.Logger) *HotelHandler {
	return &HotelHandler{
		service: service,
		log:     log,
	}
}

func (h *HotelHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := httputil.UserID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	hotels, err := h.service.ListHotels(r.Context(), userID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, hotels); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HotelHandler) GetRooms(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := httputil.UserID(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRooms", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	hotelID, err := strconv.ParseInt(ps.ByName("hotelId"), 10, 64)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid hotel id")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRooms", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	hotel, err := h.service.GetHotelRooms(r.Context(), userID, hotelID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRooms", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, hotel); err != nil {
		h.log.Error("failed to write success response", "handler", "GetRooms", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HotelHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/hotels", h.List)
	router.GET("/hotels/:hotelId", h.GetRooms)
}
