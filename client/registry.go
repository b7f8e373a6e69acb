package client

import (
	"sync"
	"time"
)

type request struct {
	ProfileID string
	Accessed  time.Time
}

// mediate access to the requests-map using a mutex
// this is needed because the map is also maintained by a GO-routine (Flush)
var registry = struct {
	sync.RWMutex
	requests map[string]request // key is IP or domain-action (eg. movie-search)
}{}

// Registry deduplicates page refreshes so a visitor is not counted twice
// within a short period
type Registry struct {
}

func (r Registry) Initialize() {
	registry.requests = make(map[string]request)
}

// Continue reports whether a request should be counted as a new visit.
// The combination of client & profile found means this was a page refresh.
func (r Registry) Continue(client string, profileID string) bool {

	registry.RLock()
	found := !(registry.requests[client].ProfileID == profileID)
	registry.RUnlock()

	// add or update the last (relevant) request
	req := request{
		ProfileID: profileID,
		Accessed:  time.Now(),
	}

	registry.Lock()
	registry.requests[client] = req
	registry.Unlock()

	return found
}

// Flush removes requests from the registry which are older than 15 minutes
// usually called by a GO-routine that runs in a ticker
func (r Registry) Flush() {

	registry.Lock()
	now := time.Now()
	if len(registry.requests) > 5000 {
		// it's safe to just delete expired keys, since iterations over maps are not ordered
		for key, value := range registry.requests {
			if now.Sub(value.Accessed).Minutes() > 15 {
				delete(registry.requests, key)
			}
		}
	}
	registry.Unlock()
}

// Count returns how many different clients are currently active
func (r Registry) Count() int {
	registry.RLock()
	cnt := len(registry.requests)
	registry.RUnlock()
	return cnt
}

// Dump returns the last accessed profile and timestamp for each client
func (r Registry) Dump(max int) []request {

	var res []request

	registry.RLock()
	i := 0
	for _, v := range registry.requests {
		if i >= max {
			break
		}
		res = append(res, request{
			ProfileID: v.ProfileID,
			Accessed:  v.Accessed,
		})
		i++
	}
	registry.RUnlock()

	return res
}
