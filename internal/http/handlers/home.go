package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /
func Home(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK,
		`<h1>Bem-vindo à Loja Virtual!</h1><p>Acesse <a href="/product">/product</a> para ver a página de exemplo.</p>`)
}
