package fsp

import "fmt"

// Version is the client library version reported in the User-Agent header
var Version = "1.3.0"

// UserAgent returns the default User-Agent header value
func UserAgent() string {
	return fmt.Sprintf("fsp-api-client v%s", Version)
}
