package main

import (
	"log"
	"net/http"

	"rvpark/src/db"
	"rvpark/src/lib"
	"rvpark/src/models"
	"rvpark/src/types"
	"rvpark/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func galleryHandlers(public *gin.RouterGroup, authed *gin.RouterGroup) {
	public.GET("/gallery", func(ctx *gin.Context) {
		db := db.GetDb()
		var photos []models.Photo
		err := db.
			Model(&models.Photo{}).
			Order("created_at DESC").
			Limit(200).
			Find(&photos).
			Error
		if err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": photos, "count": len(photos)})
	})

	authed.POST("/gallery", func(ctx *gin.Context) {
		var body types.CreatePhotoRequestBody
		if err := ctx.ShouldBind(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fileHeader, err := ctx.FormFile("photo")
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer file.Close()

		key := utils.PhotoKey(body.Title, fileHeader.Filename)
		contentType := fileHeader.Header.Get("Content-Type")
		url, err := lib.S3UploadPhoto(ctx, key, file, contentType)
		if err != nil {
			log.Printf("Error uploading photo: %s\n", err.Error())
			ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not store photo"})
			return
		}

		photo := models.Photo{
			Title:      body.Title,
			Caption:    body.Caption,
			Key:        key,
			URL:        url,
			UploadedBy: ctx.GetUint("id"),
			Metadata: &types.JSONB{
				"filename":     fileHeader.Filename,
				"content_type": contentType,
				"size":         fileHeader.Size,
			},
		}
		db := db.GetDb()
		err = db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&photo).Error
		})
		if err != nil {
			log.Printf("Error saving photo record: %s\n", err.Error())
			if err := lib.S3DeletePhoto(ctx, key); err != nil {
				log.Printf("Error removing orphaned upload %s: %s\n", key, err.Error())
			}
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not save photo"})
			return
		}
		ctx.JSON(http.StatusCreated, gin.H{"data": photo})
	})
}
