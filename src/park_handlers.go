package main

import (
	"net/http"
	"os"

	"rvpark/src/types"

	"github.com/gin-gonic/gin"
)

func parkHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/park/info", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"name":     os.Getenv("PARK_NAME"),
				"address":  os.Getenv("PARK_ADDRESS"),
				"phone":    os.Getenv("PARK_PHONE"),
				"email":    os.Getenv("PARK_EMAIL"),
				"checkin":  "13:00",
				"checkout": "11:00",
			}})
		}).
		GET("/park/rates", func(ctx *gin.Context) {
			rates := types.SiteRates()
			ctx.JSON(http.StatusOK, gin.H{"data": rates, "count": len(rates)})
		}).
		GET("/park/amenities", func(ctx *gin.Context) {
			amenities := types.Amenities()
			ctx.JSON(http.StatusOK, gin.H{"data": amenities, "count": len(amenities)})
		})
	return g
}
