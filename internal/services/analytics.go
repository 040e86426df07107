package services

import (
	"log"
	"time"

	"github.com/google/uuid"
)

// RecordAuthEvent emits an anonymized analytics event for a successful
// registration or login. It runs detached from the request; a failure here
// can never affect the response or its status code. The event carries no
// email or subject id, only a random event id and the kind.
func RecordAuthEvent(kind string) {
	Dispatch("analytics", func() {
		eventID := uuid.New().String()
		log.Printf("analytics event=%s kind=%s at=%s", eventID, kind, time.Now().UTC().Format(time.RFC3339))
	})
}
