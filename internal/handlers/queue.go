package handlers

import (
	"net/http"
	"time"

	"mzansicare/internal/geo"
	"mzansicare/internal/models"
	"mzansicare/internal/queue"
	"mzansicare/internal/response"

	"github.com/gin-gonic/gin"
)

type JoinQueueRequest struct {
	FacilityID string     `json:"facility_id" binding:"required"`
	Reason     string     `json:"reason"`
	Priority   string     `json:"priority"`
	Coords     *geo.Point `json:"coords"` // optional; absent skips the geofence
}

// TicketResponse is the patient-facing view of a ticket.
type TicketResponse struct {
	ID         string     `json:"id"`
	Number     string     `json:"number"`
	FacilityID string     `json:"facility_id"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	Reason     string     `json:"reason,omitempty"`
	Position   int        `json:"position"`
	EtaMinutes int        `json:"eta_minutes"`
	CreatedAt  time.Time  `json:"created_at"`
	CalledAt   *time.Time `json:"called_at,omitempty"`
}

func ticketView(t *models.Ticket) TicketResponse {
	return TicketResponse{
		ID:         t.ID,
		Number:     t.Number(),
		FacilityID: t.FacilityID,
		Status:     t.Status,
		Priority:   t.Priority,
		Reason:     t.Reason,
		Position:   t.Position,
		EtaMinutes: t.EtaMinutes,
		CreatedAt:  t.CreatedAt,
		CalledAt:   t.CalledAt,
	}
}

type JoinQueueResponse struct {
	Ticket  TicketResponse `json:"ticket"`
	Created bool           `json:"created"`
	Message string         `json:"message"`
}

// JoinQueueHandler admits the patient to a facility queue
// @Summary		Join a facility queue
// @Description	Creates a queue ticket, or returns the patient's existing active ticket
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			request	body		JoinQueueRequest	true	"Admission request"
// @Security		BearerAuth
// @Success		200	{object}	JoinQueueResponse	"Existing active ticket returned"
// @Success		201	{object}	JoinQueueResponse	"New ticket created"
// @Failure		400	{object}	response.ErrorResponse	"Validation error (INVALID_ARGUMENT)"
// @Failure		404	{object}	response.ErrorResponse	"Unknown facility (NOT_FOUND)"
// @Failure		412	{object}	response.ErrorResponse	"Outside the facility geofence (FAILED_PRECONDITION)"
// @Router			/api/queue/join [post]
func JoinQueueHandler(c *gin.Context) {
	var req JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	ticket, created, err := Queue.Join(c.Request.Context(), queue.JoinRequest{
		FacilityID: req.FacilityID,
		UserID:     c.GetUint("userID"),
		Reason:     req.Reason,
		Priority:   req.Priority,
		Coords:     req.Coords,
	})
	if err != nil {
		writeQueueError(c, err)
		return
	}

	resp := JoinQueueResponse{Ticket: ticketView(ticket), Created: created}
	if created {
		resp.Message = "You joined the queue. We will notify you when it is your turn."
		c.JSON(http.StatusCreated, resp)
		return
	}
	resp.Message = "You already have an active ticket."
	c.JSON(http.StatusOK, resp)
}

// GetTicketHandler returns the caller's active ticket
// @Summary		Current queue ticket
// @Description	Returns the patient's waiting or called ticket, if any
// @Tags			queue
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	TicketResponse
// @Failure		404	{object}	response.ErrorResponse	"No active ticket (NO_ACTIVE_TICKET)"
// @Router			/api/queue/ticket [get]
func GetTicketHandler(c *gin.Context) {
	ticket, err := Queue.ActiveTicket(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		writeQueueError(c, err)
		return
	}
	if ticket == nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "NO_ACTIVE_TICKET",
			Message: "You are not in a queue",
		})
		return
	}
	c.JSON(http.StatusOK, ticketView(ticket))
}

// CancelTicketHandler withdraws a ticket
// @Summary		Cancel a ticket
// @Description	Self-cancel by the owner, or operator cancel
// @Tags			queue
// @Produce		json
// @Param			id	path		string	true	"Ticket ID"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Failure		403	{object}	response.ErrorResponse	"Not the ticket owner (NOT_TICKET_OWNER)"
// @Failure		412	{object}	response.ErrorResponse	"Ticket already closed (FAILED_PRECONDITION)"
// @Router			/api/queue/tickets/{id}/cancel [post]
func CancelTicketHandler(c *gin.Context) {
	ticket, err := Queue.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeQueueError(c, err)
		return
	}

	if ticket.UserID != c.GetUint("userID") && c.GetString("role") != "admin" {
		c.JSON(http.StatusForbidden, response.ErrorResponse{
			Code:    "NOT_TICKET_OWNER",
			Message: "You can only cancel your own ticket",
		})
		return
	}

	if err := Queue.Cancel(c.Request.Context(), ticket.ID); err != nil {
		writeQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Ticket cancelled"})
}

// CallNextHandler advances the queue
// @Summary		Call the next patient
// @Description	Moves the earliest-admitted waiting ticket to called and notifies its owner
// @Tags			queue-admin
// @Produce		json
// @Param			facilityId	path	string	true	"Facility ID"
// @Security		BearerAuth
// @Success		200	{object}	TicketResponse
// @Failure		404	{object}	response.ErrorResponse	"Nothing waiting (NO_WAITING_TICKETS)"
// @Router			/api/facilities/{facilityId}/queue/call-next [post]
func CallNextHandler(c *gin.Context) {
	ticket, err := Queue.CallNext(c.Request.Context(), c.Param("facilityId"))
	if err != nil {
		writeQueueError(c, err)
		return
	}
	if ticket == nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "NO_WAITING_TICKETS",
			Message: "No patients waiting at this facility",
		})
		return
	}
	c.JSON(http.StatusOK, ticketView(ticket))
}

// CallTicketHandler calls a specific ticket
// @Summary		Call a ticket by id
// @Tags			queue-admin
// @Produce		json
// @Param			id	path	string	true	"Ticket ID"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Failure		412	{object}	response.ErrorResponse	"Ticket not waiting (FAILED_PRECONDITION)"
// @Router			/api/queue/tickets/{id}/call [post]
func CallTicketHandler(c *gin.Context) {
	if err := Queue.CallByID(c.Request.Context(), c.Param("id")); err != nil {
		writeQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Patient called"})
}

// ServeTicketHandler completes a called ticket
// @Summary		Mark a ticket served
// @Tags			queue-admin
// @Produce		json
// @Param			id	path	string	true	"Ticket ID"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Failure		412	{object}	response.ErrorResponse	"Ticket not called (FAILED_PRECONDITION)"
// @Router			/api/queue/tickets/{id}/serve [post]
func ServeTicketHandler(c *gin.Context) {
	if err := Queue.MarkServed(c.Request.Context(), c.Param("id")); err != nil {
		writeQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Ticket served"})
}

// ListFacilityTicketsHandler lists the facility board
// @Summary		Facility queue board
// @Description	All tickets at the facility, terminal history included
// @Tags			queue-admin
// @Produce		json
// @Param			facilityId	path	string	true	"Facility ID"
// @Security		BearerAuth
// @Success		200	{array}	TicketResponse
// @Router			/api/facilities/{facilityId}/queue/tickets [get]
func ListFacilityTicketsHandler(c *gin.Context) {
	tickets, err := Queue.ListFacility(c.Request.Context(), c.Param("facilityId"))
	if err != nil {
		writeQueueError(c, err)
		return
	}

	views := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		views = append(views, ticketView(&tickets[i]))
	}
	c.JSON(http.StatusOK, views)
}
