package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"vendora/utils"
)

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	client := r.Group("/client", JWTAuthClientMiddleware())
	client.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"clientID": c.GetString("clientID")})
	})
	vendor := r.Group("/vendor", JWTAuthVendorMiddleware())
	vendor.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"vendorID": c.GetString("vendorID")})
	})
	return r
}

func get(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestClientAuth(t *testing.T) {
	r := protectedRouter()

	token, err := utils.GenerateToken("c-1", "client", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if w := get(t, r, "/client/whoami", token); w.Code != http.StatusOK {
		t.Errorf("valid client token rejected with %d: %s", w.Code, w.Body.String())
	}
	if w := get(t, r, "/client/whoami", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token admitted with %d", w.Code)
	}
	if w := get(t, r, "/client/whoami", "not-a-token"); w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token admitted with %d", w.Code)
	}
	// A client token must not open vendor routes.
	if w := get(t, r, "/vendor/whoami", token); w.Code != http.StatusForbidden {
		t.Errorf("client token admitted to vendor route with %d", w.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	r := protectedRouter()
	token, err := utils.GenerateToken("c-1", "client", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if w := get(t, r, "/client/whoami", token); w.Code != http.StatusUnauthorized {
		t.Errorf("expired token admitted with %d", w.Code)
	}
}
