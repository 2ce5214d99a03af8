package structures

import "net/http"

// Route is one URL with every method registered on it. Handler dispatches
// on the request method.
type Route struct {
	Url     string
	Methods []string
	Handler http.Handler
}
