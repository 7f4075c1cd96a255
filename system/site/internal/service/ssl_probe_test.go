package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wopanel/pkg/core/logger"

	"github.com/stretchr/testify/assert"
)

func TestSecureAgainstWorkingTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	probe := NewSSLProbe(3*time.Second, logger.InitLogger("error", nil))
	host := strings.TrimPrefix(srv.URL, "https://")
	assert.True(t, probe.Secure(host))
}

func TestSecureServerError(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	probe := NewSSLProbe(3*time.Second, logger.InitLogger("error", nil))
	host := strings.TrimPrefix(srv.URL, "https://")
	assert.False(t, probe.Secure(host))
}

func TestSecureUnreachable(t *testing.T) {
	probe := NewSSLProbe(500*time.Millisecond, logger.InitLogger("error", nil))
	assert.False(t, probe.Secure("127.0.0.1:1"))
}
