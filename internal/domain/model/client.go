package model

import "time"

// Client is a customer company orders are produced for.
type Client struct {
	ID             int64
	Company        string
	Email          string
	InvoicePrefix  string
	MarginOverride *float64
	CreatedAt      time.Time
}
