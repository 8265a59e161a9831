package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// botFlagKey is the context key handlers read to skip analytics writes.
const botFlagKey = "is_bot"

// genericMarkers catch whole crawler families without enumerating them.
var genericMarkers = []string{"bot", "crawler", "spider", "crawling", "headless"}

// previewAgents are link-preview and scraper agents whose User-Agent
// carries no generic marker.
var previewAgents = []string{
	"facebookexternalhit", "slurp", "embedly", "quora link preview",
	"outbrain", "pinterest", "vkshare", "w3c_validator",
}

// BotFilter flags requests from crawlers and link-preview agents so
// handlers can skip analytics writes while still serving the page or
// redirect. An absent User-Agent is treated as a bot.
func BotFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ua := strings.ToLower(c.Request.UserAgent())
		if ua == "" || matchesBot(ua) {
			c.Set(botFlagKey, true)
		}
		c.Next()
	}
}

// IsBot reports whether BotFilter flagged the request.
func IsBot(c *gin.Context) bool {
	return c.GetBool(botFlagKey)
}

func matchesBot(ua string) bool {
	for _, marker := range genericMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	for _, agent := range previewAgents {
		if strings.Contains(ua, agent) {
			return true
		}
	}
	return false
}
