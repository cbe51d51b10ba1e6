package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"rvpark/src/availability"
	"rvpark/src/booking"
	"rvpark/src/boot"
	"rvpark/src/config"
	"rvpark/src/controllers"
	"rvpark/src/lib"
	"rvpark/src/lib/mailer"
	"rvpark/src/middlewares"
	"rvpark/src/store"
	"rvpark/src/types"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/gorm"
)

const (
	apiPrefix string = "/api/v1"
)

var apiStore *store.ReservationStore
var apiIndex *availability.Index
var apiWorkflow *booking.Workflow

var stayDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	return err == nil
}

var siteClassValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return types.SiteClass(value).Valid()
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("staydate", stayDateValidatorFunc)
		v.RegisterValidation("siteclass", siteClassValidatorFunc)
	}
}

// setupEngine wires the reservation engine onto the given DB handle.
// Tests call it with a mock connection.
func setupEngine(gdb *gorm.DB, notifier mailer.Notifier) {
	apiStore = store.New(gdb)
	apiIndex = availability.New(apiStore, lib.GetRedisClient())
	apiWorkflow = booking.New(gdb, apiStore, apiIndex, notifier)
}

func newRouter() *gin.Engine {
	r := gin.Default()
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Authorization", "Content-Type"}
	corsCfg.MaxAge = 12 * time.Hour
	if origin := os.Getenv("SITE_ORIGIN"); origin != "" {
		corsCfg.AllowOrigins = []string{origin}
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	public := r.Group(apiPrefix)
	parkHandlers(public)
	availabilityHandlers(public)
	chatHandlers(public)

	public.POST("/auth/login", func(ctx *gin.Context) {
		token, status, err := controllers.AuthLogin(ctx)
		if err != nil {
			ctx.JSON(status, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(status, gin.H{"data": gin.H{"token": *token}})
	})

	authed := r.Group(apiPrefix)
	authed.Use(middlewares.AuthMiddleware)
	bookingHandlers(public, authed)
	galleryHandlers(public, authed)

	admin := r.Group(apiPrefix + "/admin")
	admin.Use(middlewares.AuthMiddleware, middlewares.AdminOnly)
	adminReservationHandlers(admin)

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func main() {
	registerValidators()
	gdb := boot.InitDb()
	setupEngine(gdb, mailer.NewSMTPNotifier())
	boot.InitScheduler(apiWorkflow)

	r := newRouter()
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server exited: %s", err.Error())
	}
}
