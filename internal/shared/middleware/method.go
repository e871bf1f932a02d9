package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"person-registry/internal/shared/response"
)

// MethodGuard produces the NoMethod handler for a router running with
// HandleMethodNotAllowed. The allowed map (path -> verbs) is built from the
// registered routes so the rejection can name the verbs the route accepts.
// The guard runs before any business middleware, so a request with a wrong
// verb is rejected before the auth gate ever sees it.
func MethodGuard(allowed map[string][]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		verbs := allowed[c.Request.URL.Path]
		if len(verbs) == 0 {
			response.MethodNotAllowed(c, fmt.Sprintf("method %s not allowed on this route", c.Request.Method))
			return
		}
		response.MethodNotAllowed(c, fmt.Sprintf("invalid method, use %s on this route", strings.Join(verbs, " or ")))
	}
}

// AllowedMethods derives the path -> verbs map from gin's route table.
func AllowedMethods(routes gin.RoutesInfo) map[string][]string {
	allowed := make(map[string][]string)
	for _, route := range routes {
		allowed[route.Path] = append(allowed[route.Path], route.Method)
	}
	return allowed
}
