package api

import (
	"net/http"

	"github.com/hidromont/site-backend/models"
	"github.com/hidromont/site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type orderHandler struct {
	responder Responder
	logger    zerolog.Logger
	orders    *services.OrderService
}

func newOrderHandler(orders *services.OrderService) orderHandler {
	logger := log.With().Str("handlerName", "orderHandler").Logger()

	return orderHandler{
		responder: NewResponder(logger),
		logger:    logger,
		orders:    orders,
	}
}

// createOrder stores a contact-form inquiry
// @Summary Create order
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body services.OrderInput true "Inquiry"
// @Success 201 {object} createdResponse
// @Failure 400 {object} ErrorResponse "Name, email and message are required"
// @Router /orders [post]
func (h orderHandler) createOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.OrderInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		order, err := h.orders.CreateOrder(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, createdResponse{OK: true, ID: order.ID})
	}
}

func (h orderHandler) listOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := h.orders.ListOrders(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, dataResponse[[]models.Order]{Data: orders})
	}
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h orderHandler) updateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body orderStatusRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		order, err := h.orders.UpdateOrderStatus(r.Context(), id, body.Status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, order)
	}
}

func (h orderHandler) deleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, OKResponse{OK: true})
	}
}
