package main

import (
	"net/http"
	"time"

	"rvpark/src/config"
	"rvpark/src/daterange"
	"rvpark/src/types"

	"github.com/gin-gonic/gin"
)

func availabilityHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/availability", func(ctx *gin.Context) {
			var params types.AvailabilityQueryParams
			if err := ctx.ShouldBindQuery(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rng, err := daterange.Normalize(params.From, params.To)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			free, conflicts, err := apiIndex.IsFree(ctx, types.SiteClass(params.SiteClass), rng)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"available": free,
				"conflicts": conflicts,
				"nights":    daterange.Nights(rng),
			}})
		}).
		GET("/availability/calendar", func(ctx *gin.Context) {
			var params types.CalendarQueryParams
			if err := ctx.ShouldBindQuery(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			month, err := time.Parse(config.MONTH_PARSE_FORMAT, params.Month)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "month must look like 2025-06"})
				return
			}
			days, err := apiIndex.OccupiedDays(ctx, types.SiteClass(params.SiteClass), month.Year(), month.Month())
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"month":    params.Month,
				"occupied": days,
			}})
		})
	return g
}
