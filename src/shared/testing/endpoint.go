package testing

import (
	"net/url"
	"strings"
)

// ServerEndpoint is the URL of path on an app started with ServerConfig.
func ServerEndpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		panic("path convention should start with /")
	}

	endpoint := url.URL{Scheme: "http", Host: "localhost" + ServerPort}
	return endpoint.String() + path
}
