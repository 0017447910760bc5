package server

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName holds the visitor id.
const CookieName = "mockexam_uid"

type (
	visitorIDKey struct{}
	visitorKey   struct{}
)

// identify attaches the caller's visitor id to the request context, minting
// a new id and cookie for first-time callers. No visitor state is created
// here; that waits until the request passes the password gate.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   365 * 24 * 60 * 60,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), visitorIDKey{}, id)))
	})
}

func visitorIDFrom(ctx context.Context) string {
	return ctx.Value(visitorIDKey{}).(string)
}

func visitorFrom(ctx context.Context) *visitor {
	return ctx.Value(visitorKey{}).(*visitor)
}

// visitor returns the visitor for id, creating it if needed, and marks it
// as seen.
func (s *Server) visitor(id string) *visitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.visitors[id]
	if !ok {
		v = &visitor{id: id, sess: s.svc.NewSession(id)}
		s.visitors[id] = v
	}
	v.lastSeen = s.now()
	return v
}

// lookup returns the visitor for id without creating one.
func (s *Server) lookup(id string) *visitor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visitors[id]
}

// evictIdle drops visitors not seen within the idle timeout and reports how
// many went.
func (s *Server) evictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.cfg.IdleTimeout)
	n := 0
	for id, v := range s.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(s.visitors, id)
			n++
		}
	}
	return n
}

func (s *Server) sweepIdle(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.evictIdle(); n > 0 {
				log.Printf("[Server] evicted %d idle visitor(s)", n)
			}
		}
	}
}

// requireLogin rejects visitors that have not logged in when a password is
// configured, then attaches the visitor to the request context.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := visitorIDFrom(r.Context())

		if s.cfg.AccessPassword != "" {
			v := s.lookup(id)
			authed := false
			if v != nil {
				v.mu.Lock()
				authed = v.authed
				v.mu.Unlock()
			}
			if !authed {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "login required"})
				return
			}
		}

		v := s.visitor(id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), visitorKey{}, v)))
	})
}

func (s *Server) checkPassword(given string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(s.cfg.AccessPassword)) == 1
}
