package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ifinlabs/wealth-reporting-backend/internal/api/response"
)

// timeTokenWindow is how long a generated time token stays valid.
const timeTokenWindow = 5 * time.Minute

// APIKeyMiddleware guards admin-only routes. Callers must present the
// shared API key in X-API-Key plus a fresh HMAC time token in X-Time-Token;
// the token binds the key to a timestamp so a captured header pair goes
// stale within minutes.
//
// The expected key is read from INTERNAL_API_KEY on each request so tests
// can swap it.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("INTERNAL_API_KEY")

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}

		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		timeToken := r.Header.Get("X-Time-Token")
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}

		if !validateTimeToken(apiKey, timeToken) {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken produces a "timestamp.signature" token where the
// signature is an HMAC-SHA256 of the timestamp keyed with the API key.
func GenerateTimeToken(apiKey string) string {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	return fmt.Sprintf("%s.%s", timestamp, signTimestamp(apiKey, timestamp))
}

// validateTimeToken checks the token's signature and that its timestamp
// falls within the validity window.
func validateTimeToken(apiKey, token string) bool {
	timestamp, signature, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}

	issued, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}

	age := time.Since(time.Unix(issued, 0))
	if age < -timeTokenWindow || age > timeTokenWindow {
		return false
	}

	expected := signTimestamp(apiKey, timestamp)
	return hmac.Equal([]byte(signature), []byte(expected))
}

func signTimestamp(apiKey, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}
