package providers

import (
	"donwatch/internal/structures"
	"net/http"
	"sort"
	"strings"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
	Endpoints() map[string]struct{}
}

// RouterProvider keeps one route per URL; several methods on the same URL
// share a dispatching handler.
type RouterProvider struct {
	routes  []structures.Route
	methods map[string]map[string]http.Handler
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	if handlers, ok := rp.methods[url]; ok {
		handlers[method] = handler
		for i := range rp.routes {
			if rp.routes[i].Url == url {
				rp.routes[i].Method = allowHeader(handlers)
			}
		}
		return
	}

	handlers := map[string]http.Handler{method: handler}
	rp.methods[url] = handlers
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Method:  method,
		Handler: methodHandler(handlers),
	})
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

// Endpoints is the label set the metrics middleware accepts; anything else is bucketed.
func (rp *RouterProvider) Endpoints() map[string]struct{} {
	out := make(map[string]struct{}, len(rp.routes))
	for _, r := range rp.routes {
		out[r.Url] = struct{}{}
	}
	return out
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{methods: make(map[string]map[string]http.Handler)}
}

func allowHeader(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for m := range handlers {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}

func methodHandler(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.Method]
		if !ok {
			w.Header().Set("Allow", allowHeader(handlers))
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
