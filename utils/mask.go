// File: utils/mask.go
package utils

import "strings"

// MaskMobile hides all but the last four digits of a mobile number for logs.
func MaskMobile(mobile string) string {
	if len(mobile) <= 4 {
		return mobile
	}
	return strings.Repeat("*", len(mobile)-4) + mobile[len(mobile)-4:]
}
