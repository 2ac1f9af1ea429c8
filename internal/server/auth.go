package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cyberscribe/internal/config"
)

const sessionCookie = "auth_token"

// sessions implements the stateless admin login gate. A session token is
// base64(user:issuedAtMillis) signed with an HMAC-SHA256 of the session
// secret, so no server-side session state is kept: restarting with the same
// secret keeps sessions valid, rotating it invalidates them all.
type sessions struct {
	user   string
	pass   string
	secret []byte
	ttl    time.Duration
	secure bool
}

func newSessions(cfg config.Auth) *sessions {
	return &sessions{
		user:   cfg.AdminUser,
		pass:   cfg.AdminPass,
		secret: []byte(cfg.SessionSecret),
		ttl:    cfg.SessionTTL,
		secure: cfg.SecureCookies,
	}
}

func (s *sessions) sign(encoded string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encoded))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *sessions) token(user string) string {
	payload := user + ":" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	encoded := base64.StdEncoding.EncodeToString([]byte(payload))
	return encoded + "." + s.sign(encoded)
}

func (s *sessions) verify(token string) bool {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(encoded))) {
		return false
	}

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	// Usernames may contain ':'; the timestamp never does.
	idx := strings.LastIndex(string(payload), ":")
	if idx < 0 {
		return false
	}
	millis, err := strconv.ParseInt(string(payload)[idx+1:], 10, 64)
	if err != nil {
		return false
	}

	issued := time.UnixMilli(millis)
	return time.Since(issued) >= 0 && time.Since(issued) <= s.ttl
}

func (s *sessions) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *sessions) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// require gates a route group on a valid session cookie.
func (s *sessions) require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || !s.verify(cookie.Value) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (srv *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(srv.sessions.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(srv.sessions.pass)) == 1
	if !userOK || !passOK {
		srv.log.Warn("Failed login attempt", "username", creds.Username)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	srv.sessions.setCookie(w, srv.sessions.token(creds.Username))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (srv *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	srv.sessions.clearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
