package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"rvpark/src/db"
	"rvpark/src/lib"
	"rvpark/src/models"
	"rvpark/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

const sessionTTL = 24 * time.Hour

// AuthLogin exchanges an identity-provider token for a session JWT. The
// provider verified the credentials; this side only upserts the guest row
// and signs the session.
func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	auth, err := lib.GetFirebaseAuth()
	if err != nil {
		log.Printf("Error initializing FirebaseAuth client: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	verified, err := auth.VerifyIDToken(context.Background(), body.IDToken)
	if err != nil {
		log.Printf("error from identity provider: %s\n", err.Error())
		return nil, http.StatusUnauthorized, err
	}
	email, _ := verified.Claims["email"].(string)
	name, _ := verified.Claims["name"].(string)
	if email == "" {
		return nil, http.StatusUnauthorized, fmt.Errorf("identity token carries no email")
	}

	now := time.Now()
	user := models.User{
		Name:       name,
		Email:      email,
		UID:        verified.UID,
		Role:       types.ROLE_GUEST,
		LastActive: &now,
	}
	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email"}},
				DoUpdates: clause.AssignmentColumns([]string{"uid", "last_active"}),
			}).
			Create(&user).
			Error
	})
	if err != nil {
		log.Printf("Error logging in user %s: %s\n", email, err.Error())
		return nil, http.StatusBadRequest, err
	}
	if user.ID == 0 {
		if err := gdb.Model(&models.User{}).Where(&models.User{Email: email}).First(&user).Error; err != nil {
			return nil, http.StatusBadRequest, err
		}
	}

	claims := types.Claims{
		Email: user.Email,
		Role:  string(user.Role),
		UID:   user.UID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtKey)
	if err != nil {
		log.Printf("Error signing session token: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return &signed, http.StatusOK, nil
}
