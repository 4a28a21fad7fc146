// Package envelope padroniza o corpo das respostas HTTP dos serviços da livraria:
// {"success": true, "data": ...} em caso de sucesso e {"success": false, "error": "..."}
// em caso de falha.
package envelope

import (
	"github.com/gin-gonic/gin"
)

// Response é o envelope serializado em todas as respostas
type Response struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Data responde com sucesso carregando um payload
func Data(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// List responde com sucesso carregando uma coleção e o seu tamanho
func List[T any](c *gin.Context, status int, items []T) {
	count := len(items)
	if items == nil {
		items = []T{}
	}
	c.JSON(status, Response{Success: true, Count: &count, Data: items})
}

// Message responde com sucesso carregando apenas uma mensagem
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: true, Message: message})
}

// Fail responde com falha
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

// Abort responde com falha e interrompe a cadeia de middlewares
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: message})
}
