package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func guardedRouter() *gin.Engine {
	router := gin.New()
	ok := func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) }
	router.POST("/person", ok)
	router.GET("/person", ok)
	router.POST("/auth/login", ok)

	router.HandleMethodNotAllowed = true
	router.NoMethod(MethodGuard(AllowedMethods(router.Routes())))
	return router
}

func TestMethodGuardRejectsWrongVerbNamingAllowed(t *testing.T) {
	router := guardedRouter()

	req := httptest.NewRequest(http.MethodPatch, "/person", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "GET")
	assert.Contains(t, w.Body.String(), "POST")
}

func TestMethodGuardRejectsWrongVerbOnSingleVerbRoute(t *testing.T) {
	router := guardedRouter()

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "POST")
}

func TestMethodGuardDoesNotTouchMatchingVerbs(t *testing.T) {
	router := guardedRouter()

	req := httptest.NewRequest(http.MethodGet, "/person", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
