package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayouts are the formats accepted for dates coming from the frontend
// and from Excel imports.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
	"01-02-06",
	"2006/01/02",
}

func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}
