package http

import "github.com/gin-gonic/gin"

const flashCookie = "todo_flash"

// Flash messages carry a one-shot user-visible notice across a redirect,
// standing in for the template layer's flash facility. gin escapes and
// unescapes cookie values on its own.

func setFlash(c *gin.Context, message string) {
	c.SetCookie(flashCookie, message, 60, "/", "", false, true)
}

func takeFlash(c *gin.Context) string {
	message, err := c.Cookie(flashCookie)
	if err != nil || message == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return message
}
