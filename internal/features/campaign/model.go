package campaign

import (
	"time"
)

// Campaign is a row from the mailer's campaign table. Report scripts consume
// these through their resolved inputs, so the aggregate counters are included.
type Campaign struct {
	ID           int64     `json:"id"`
	CID          string    `json:"cid"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Subject      string    `json:"subject"`
	Status       int       `json:"status"`
	Delivered    int64     `json:"delivered"`
	Opened       int64     `json:"opened"`
	Clicks       int64     `json:"clicks"`
	Bounced      int64     `json:"bounced"`
	Complained   int64     `json:"complained"`
	Unsubscribed int64     `json:"unsubscribed"`
	Created      time.Time `json:"created"`
}

// ToInputs converts the campaign into the plain map shape handed to report
// scripts.
func (c *Campaign) ToInputs() map[string]interface{} {
	return map[string]interface{}{
		"id":           c.ID,
		"cid":          c.CID,
		"name":         c.Name,
		"description":  c.Description,
		"subject":      c.Subject,
		"status":       int64(c.Status),
		"delivered":    c.Delivered,
		"opened":       c.Opened,
		"clicks":       c.Clicks,
		"bounced":      c.Bounced,
		"complained":   c.Complained,
		"unsubscribed": c.Unsubscribed,
		"created":      c.Created,
	}
}
