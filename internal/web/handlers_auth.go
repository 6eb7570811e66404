package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Panz66/febw/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookieName = "febw_session"
	sessionIssuer     = "febw"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentAdmin(r); ok {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	view := AuthView{BaseView: s.baseView(r, "Masuk Panitia")}
	if err := s.templates.Render(w, "login.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "data tidak valid", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if !s.checkAdmin(username, password) {
		s.log.WithField("username", username).Warn("failed organizer login")
		view := AuthView{
			BaseView: s.baseView(r, "Masuk Panitia"),
			Username: username,
		}
		view.FlashError = "Username atau password salah"
		if err := s.templates.Render(w, "login.html", view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	token, err := s.issueSession(username, time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// checkAdmin accepts the configured organizer. Without a password hash the
// dev password is accepted outside prod.
func (s *Server) checkAdmin(username, password string) bool {
	if username == "" || username != s.cfg.AdminUsername {
		return false
	}
	if s.cfg.AdminPasswordHash != "" {
		return checkPassword(s.cfg.AdminPasswordHash, password)
	}
	return !s.cfg.IsProd() && password != "" && password == config.DevPassword()
}

func (s *Server) issueSession(username string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL())),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SessionSecret))
}

func (s *Server) parseSession(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(sessionIssuer))
	if err != nil {
		return "", err
	}
	if claims.Subject != s.cfg.AdminUsername {
		return "", errors.New("session subject is not the organizer")
	}
	return claims.Subject, nil
}

func (s *Server) currentAdmin(r *http.Request) (string, bool) {
	if s.cfg.SessionSecret == "" {
		return "", false
	}
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	username, err := s.parseSession(cookie.Value)
	if err != nil {
		return "", false
	}
	return username, true
}

func (s *Server) sessionTTL() time.Duration {
	if s.cfg.SessionTTL > 0 {
		return s.cfg.SessionTTL
	}
	return 12 * time.Hour
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.IsProd(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.sessionTTL()),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func checkPassword(hash string, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
