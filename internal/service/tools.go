package service

import "regexp"

// допустимые символы ExternalImageId в Rekognition
var externalIDForbidden = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// SanitizeName drops every character outside [A-Za-z0-9_.-].
func SanitizeName(name string) string {
	return externalIDForbidden.ReplaceAllString(name, "")
}
