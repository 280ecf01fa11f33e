// pkg/webhook/payload.go

package webhook

import (
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// extractor pulls one field out of a provider payload. An empty result means
// "not here, try the next one".
type extractor func(payload gjson.Result) gjson.Result

func path(p string) extractor {
	return func(payload gjson.Result) gjson.Result {
		return payload.Get(p)
	}
}

// Providers send the same event top-level, under "data" or under "purchase".
var (
	emailExtractors = []extractor{
		path("buyer.email"),
		path("data.buyer.email"),
		path("purchase.buyer.email"),
	}
	statusExtractors = []extractor{
		path("status"),
		path("data.status"),
		path("purchase.status"),
	}
)

// approvedStatuses are compared lower-cased.
var approvedStatuses = []string{
	"approved",
	"approved_with_boleto",
	"completed",
	"pago",
	"aprovado",
}

// Event is what the handler needs from a payload.
type Event struct {
	Email string
	// Status is the status as text, empty when absent.
	Status string
	// RawStatus is the status exactly as sent, nil when absent.
	RawStatus any
}

// ParseEvent reads buyer email and status from body. Invalid JSON is treated
// as an empty payload.
func ParseEvent(body []byte) Event {
	var payload gjson.Result
	if gjson.ValidBytes(body) {
		payload = gjson.ParseBytes(body)
	}

	email := firstPresent(payload, emailExtractors)
	status := firstPresent(payload, statusExtractors)

	return Event{
		Email:     strings.TrimSpace(email.String()),
		Status:    status.String(),
		RawStatus: status.Value(),
	}
}

// Approved reports whether the status belongs to the approval vocabulary.
func (e Event) Approved() bool {
	return IsApproved(e.Status)
}

func IsApproved(status string) bool {
	return lo.Contains(approvedStatuses, strings.ToLower(status))
}

func firstPresent(payload gjson.Result, extractors []extractor) gjson.Result {
	for _, extract := range extractors {
		if r := extract(payload); present(r) {
			return r
		}
	}
	return gjson.Result{}
}

// present mirrors the truthiness providers rely on: null, false, empty
// strings and empty containers do not count.
func present(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return strings.TrimSpace(r.Str) != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return len(r.Map()) > 0
	}
	return r.Exists()
}
