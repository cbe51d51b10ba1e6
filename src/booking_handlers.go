package main

import (
	"errors"
	"log"
	"net/http"

	"rvpark/src/booking"
	"rvpark/src/daterange"
	"rvpark/src/store"
	"rvpark/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondBookingError maps the engine's error taxonomy onto HTTP statuses.
func respondBookingError(ctx *gin.Context, err error) {
	var invalidRange *daterange.InvalidRangeError
	var partyTooLarge *booking.PartyTooLargeError
	var conflict *booking.DateConflictError
	var transition *store.InvalidTransitionError
	switch {
	case errors.As(err, &invalidRange), errors.As(err, &partyTooLarge):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "conflicts": conflict.Conflicts})
	case errors.As(err, &transition):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": transition.Error()})
	case errors.Is(err, booking.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("Could not complete request: %s\n", err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing request"})
	}
}

func bookingHandlers(public *gin.RouterGroup, g *gin.RouterGroup) *gin.RouterGroup {
	// The confirmation code is an opaque capability, so the lookup needs
	// no session.
	public.GET("/bookings/code/:code", func(ctx *gin.Context) {
		var params types.CodeRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		code, err := uuid.Parse(params.Code)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "malformed confirmation code"})
			return
		}
		reservation, err := apiStore.GetByCode(ctx, code)
		if err != nil {
			respondBookingError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": reservation})
	})

	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			guestId := ctx.GetUint("id")
			reservation, err := apiWorkflow.Request(ctx, &booking.RequestInput{
				GuestID:      &guestId,
				GuestName:    body.GuestName,
				ContactEmail: body.ContactEmail,
				CheckIn:      body.CheckIn,
				CheckOut:     body.CheckOut,
				PartySize:    body.PartySize,
				SiteClass:    types.SiteClass(body.SiteClass),
			})
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": reservation})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			data, err := apiStore.ListByGuest(ctx, userId)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			reservation, err := apiStore.Get(ctx, params.ID)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			userId := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			if role != types.ROLE_ADMIN && (reservation.GuestID == nil || *reservation.GuestID != userId) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not allowed to view this reservation"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			reservation, err := apiWorkflow.Cancel(ctx, params.ID, userId, role)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		})
	return g
}

func adminReservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reservations", func(ctx *gin.Context) {
			data, err := apiStore.ListAll(ctx)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		PUT("/reservations/:id/confirm", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservation, err := apiWorkflow.Confirm(ctx, params.ID)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PUT("/reservations/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			reservation, err := apiWorkflow.Cancel(ctx, params.ID, userId, types.ROLE_ADMIN)
			if err != nil {
				respondBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		})
	return g
}
