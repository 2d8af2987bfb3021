package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler renders the buyer-facing result page the gateway redirects
// to. Display only: no store access, no gateway call.
type FeedbackHandler struct {
	tmpl *template.Template
}

func NewFeedbackHandler() *FeedbackHandler {
	return &FeedbackHandler{tmpl: template.Must(template.New("feedback").Parse(feedbackPage))}
}

type feedbackData struct {
	Title   string
	Message string
	Color   string
	OrderID string
}

// GET /feedback?status=&orderId=
func (h *FeedbackHandler) Show(c *gin.Context) {
	status := c.Query("status")
	orderID := c.Query("orderId")

	d := feedbackData{OrderID: orderID}
	switch status {
	case "success":
		d.Title = "Pagamento Aprovado!"
		d.Message = "Seu pagamento foi aprovado com sucesso! Em breve você receberá a confirmação por e-mail."
		d.Color = "#28a745"
	case "pending":
		d.Title = "Pagamento Pendente"
		d.Message = "Seu pagamento está pendente. Assim que for aprovado, você será notificado."
		d.Color = "#ffc107"
	case "failure":
		d.Title = "Pagamento Recusado"
		d.Message = "Seu pagamento foi recusado. Por favor, tente novamente ou use outro método de pagamento."
		d.Color = "#dc3545"
	default:
		d.Title = "Status do Pagamento Desconhecido"
		d.Message = "Não foi possível determinar o status do seu pagamento."
		d.Color = "#ffc107"
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = h.tmpl.Execute(c.Writer, d)
}

const feedbackPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; text-align: center; padding: 50px; }
        h1 { color: {{.Color}}; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; padding: 30px; border-radius: 8px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
        {{if .OrderID}}<p>ID do Pedido: {{.OrderID}}</p>{{end}}
        <p>Obrigado por sua compra!</p>
        <a href="/">Voltar à loja</a>
    </div>
</body>
</html>
`
