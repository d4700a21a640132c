package utils

import (
	"strconv"
	"strings"
	"time"
)

const (
	byteUnitStep          = 1024
	fractionalUnitLimit   = 10
	negativeSizeLabel     = "0b"
	listingTimeLayout     = "2006-01-02 15:04"
	fractionalTrailingTag = ".0"
)

var byteUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count with a lower-case unit, such as 512b, 1.5kb or 10mb.
// Values under ten units keep one decimal unless it is zero.
func FormatFileSize(byteCount int64) string {
	if byteCount < 0 {
		return negativeSizeLabel
	}
	if byteCount < byteUnitStep {
		return strconv.FormatInt(byteCount, 10) + byteUnits[0]
	}

	scaledValue := float64(byteCount)
	unitIndex := 0
	for scaledValue >= byteUnitStep && unitIndex < len(byteUnits)-1 {
		scaledValue /= byteUnitStep
		unitIndex++
	}
	if scaledValue < fractionalUnitLimit {
		formatted := strings.TrimSuffix(strconv.FormatFloat(scaledValue, 'f', 1, 64), fractionalTrailingTag)
		return formatted + byteUnits[unitIndex]
	}
	return strconv.FormatFloat(scaledValue, 'f', 0, 64) + byteUnits[unitIndex]
}

// FormatTimestamp renders a modification time in the local zone with minute precision.
// The zero time renders as an empty string.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return EmptyString
	}
	return value.Local().Format(listingTimeLayout)
}
