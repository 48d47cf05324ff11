package domain

import "time"

// StatusNew is the status every project starts with.
const StatusNew = "New"

// Project groups a set of personas under a shared description.
// It is storage-agnostic and used across repository and HTTP layers.
type Project struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
}
