package controllers

import (
	"strconv"
)

// Created is the standard response for new items
type Created struct {
	ID string `json:"id"`
}

// parseLimit reads a ?limit= query value; absent or unusable values
// fall back to the default page size
func parseLimit(s string) int64 {
	if s == "" {
		return 0 // models apply their default
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
