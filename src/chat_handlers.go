package main

import (
	"log"
	"net/http"
	"strings"

	"rvpark/src/lib"
	"rvpark/src/types"

	"github.com/gin-gonic/gin"
)

const chatSystemPrompt = "You are the friendly front-desk assistant for a single RV park. " +
	"Answer questions about the park, its sites, rates, amenities and booking process. " +
	"Keep answers short. If you do not know, suggest calling the office."

// chatTopic is the closed set of questions the widget answers from script,
// without calling the language model.
type chatTopic int

const (
	topicNone chatTopic = iota
	topicRates
	topicPets
	topicHookups
	topicCheckin
)

func detectTopic(message string) chatTopic {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "rate") || strings.Contains(m, "price") || strings.Contains(m, "cost"):
		return topicRates
	case strings.Contains(m, "pet") || strings.Contains(m, "dog") || strings.Contains(m, "cat"):
		return topicPets
	case strings.Contains(m, "hookup") || strings.Contains(m, "sewer") || strings.Contains(m, "electric"):
		return topicHookups
	case strings.Contains(m, "check-in") || strings.Contains(m, "check in") || strings.Contains(m, "checkout") || strings.Contains(m, "check out"):
		return topicCheckin
	}
	return topicNone
}

func scriptedAnswer(topic chatTopic) string {
	switch topic {
	case topicRates:
		return "Standard sites start at $45/night, large at $55 and premium riverfront at $70. Weekly and monthly rates are on our rates page."
	case topicPets:
		return "Leashed pets are welcome at every site, and there is a fenced pet area by the north loop."
	case topicHookups:
		return "All sites have full hookups: 30/50 amp electric, water and sewer."
	case topicCheckin:
		return "Check-in opens at 1:00 PM and checkout is 11:00 AM. Same-day turnover is fine, your site is ready by early afternoon."
	}
	return ""
}

func chatHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/chat", func(ctx *gin.Context) {
		var body types.ChatRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		last := body.Messages[len(body.Messages)-1]
		if topic := detectTopic(last.Content); topic != topicNone {
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"reply": scriptedAnswer(topic), "scripted": true}})
			return
		}
		reply, err := lib.ChatCompletion(ctx, chatSystemPrompt, body.Messages)
		if err != nil {
			log.Printf("Error from chat provider: %s\n", err.Error())
			ctx.JSON(http.StatusBadGateway, gin.H{"error": "chat is unavailable right now"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"reply": reply, "scripted": false}})
	})
	return g
}
