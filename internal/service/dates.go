package service

import (
	"time"

	"github.com/spf13/cast"
)

// availableDateLayout is the stored form of availability dates from every source.
// Stored text sorts in time order.
const availableDateLayout = "2006-01-02 15:04:05"

// normalizeAvailableDate converts an ISO-8601 style date to availableDateLayout in UTC.
// Zone-less values are taken as UTC. Empty or unparseable input yields nil.
func normalizeAvailableDate(s string) *string {
	if s == "" {
		return nil
	}
	t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
	if err != nil {
		return nil
	}
	out := t.UTC().Format(availableDateLayout)
	return &out
}
