package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/camachoroberto/daily-roulette/internal/apperr"
)

const (
	sessionCookieName = "room_session"
	sessionTTL        = 7 * 24 * time.Hour
)

// createRoomSession mints a signed, room-scoped token with a 7-day expiry.
func (s *Server) createRoomSession(roomID uint) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"roomId": roomID,
		"iat":    now.Unix(),
		"exp":    now.Add(sessionTTL).Unix(),
	})
	return token.SignedString([]byte(s.cfg.SessionSecret))
}

// verifyRoomSession parses and verifies a session token, returning the bound
// room id. Expiry is enforced by the parser.
func (s *Server) verifyRoomSession(raw string) (uint, bool) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	roomID, ok := claims["roomId"].(float64)
	if !ok || roomID <= 0 {
		return 0, false
	}
	return uint(roomID), true
}

// requireSession authorizes a mutating call against roomID. Every failure
// mode (missing cookie, bad signature, expired, wrong room) produces the
// same UNAUTHORIZED response so callers cannot probe session state.
func (s *Server) requireSession(c *gin.Context, roomID uint) bool {
	raw, err := c.Cookie(sessionCookieName)
	if err != nil || raw == "" {
		respondError(c, apperr.Unauthorized("invalid or expired session"))
		return false
	}
	boundRoom, ok := s.verifyRoomSession(raw)
	if !ok || boundRoom != roomID {
		respondError(c, apperr.Unauthorized("invalid or expired session"))
		return false
	}
	return true
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, int(sessionTTL.Seconds()), "/", "", s.cfg.Production(), true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", s.cfg.Production(), true)
}
