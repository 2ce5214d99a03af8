package providers

import (
	"net/http"
	"sort"
	"strings"

	"gtmd/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

type RouterProvider struct {
	urls     []string
	handlers map[string]map[string]http.Handler
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.handle(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.handle(http.MethodPost, url, handler)
}

// handle registers handler for method on url. A later registration of the
// same method and url replaces the earlier one.
func (rp *RouterProvider) handle(method, url string, handler http.Handler) {
	byMethod, ok := rp.handlers[url]
	if !ok {
		byMethod = make(map[string]http.Handler)
		rp.handlers[url] = byMethod
		rp.urls = append(rp.urls, url)
	}
	byMethod[method] = handler
}

// GetRoutes returns one route per URL in registration order.
func (rp *RouterProvider) GetRoutes() []structures.Route {
	routes := make([]structures.Route, 0, len(rp.urls))
	for _, url := range rp.urls {
		byMethod := rp.handlers[url]
		routes = append(routes, structures.Route{
			Url:     url,
			Methods: allowedMethods(byMethod),
			Handler: methodHandler(byMethod),
		})
	}
	return routes
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{handlers: make(map[string]map[string]http.Handler)}
}

func allowedMethods(byMethod map[string]http.Handler) []string {
	methods := make([]string, 0, len(byMethod)+1)
	for method := range byMethod {
		methods = append(methods, method)
	}
	if _, ok := byMethod[http.MethodGet]; ok {
		if _, ok := byMethod[http.MethodHead]; !ok {
			methods = append(methods, http.MethodHead)
		}
	}
	sort.Strings(methods)
	return methods
}

// methodHandler dispatches on the request method. HEAD falls back to the
// GET handler, anything else unregistered gets 405 with an Allow header.
func methodHandler(byMethod map[string]http.Handler) http.Handler {
	allow := strings.Join(allowedMethods(byMethod), ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := byMethod[r.Method]
		if !ok && r.Method == http.MethodHead {
			handler, ok = byMethod[http.MethodGet]
		}
		if !ok {
			w.Header().Set("Allow", allow)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
