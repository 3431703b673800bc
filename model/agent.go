package model

import "time"

// Agent is an eligible recipient of distributed work. Agents are soft-managed:
// deactivation hides them from future distributions without touching batches
// they already hold.
type Agent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	CreatedBy string    `json:"created_by"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
