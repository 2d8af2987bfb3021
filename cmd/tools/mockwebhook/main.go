package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Sends a Mercado Pago style webhook notification to a local server. The
// server will call the real payments API for the given id, so use ids that
// exist under your MP_ACCESS_TOKEN (or point the server at a stub).
func main() {
	target := flag.String("url", "http://localhost:3000/webhooks/mercadopago", "Webhook URL")
	topic := flag.String("topic", "payment", "Notification topic (payment, merchant_order, ...)")
	id := flag.String("id", "", "Gateway resource id (payment id for topic=payment)")
	orderID := flag.String("order-id", "", "Local order id carried on the notification URL")

	flag.Parse()

	q := url.Values{}
	q.Set("topic", *topic)
	if *id != "" {
		q.Set("id", *id)
	}
	if *orderID != "" {
		q.Set("orderId", *orderID)
	}

	full := *target + "?" + q.Encode()
	client := &http.Client{Timeout: 15 * time.Second}

	resp, err := client.Post(full, "application/json", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending webhook: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("POST %s\n", full)
	fmt.Printf("-> %d %s\n", resp.StatusCode, string(body))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
