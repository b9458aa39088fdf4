package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/drivers/rdb"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	config    *config.Config
	client    *rdb.Service
	keyPrefix string
	maxAge    int
	codecs    []securecookie.Codec
}

func NewRedisStore(
	config *config.Config,
	client *rdb.Service,
	keyPrefix string,
	maxAge int,
	keyPairs ...[]byte) *RedisStore {
	return &RedisStore{
		config:    config,
		client:    client,
		keyPrefix: keyPrefix,
		maxAge:    maxAge,
		codecs:    securecookie.CodecsFromPairs(keyPairs...),
	}
}

// New creates a new session without loading it from the store
func (rs *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := rs.newSession(name)
	session.IsNew = true
	return session, nil
}

// Get fetches session from Redis or if none creates a new session
func (rs *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	// Create new session object
	session := rs.newSession(name)

	// Get the cookie
	cookie, err := r.Cookie(name)
	if err != nil {
		session.IsNew = true
		return session, nil // New session
	}

	// Get from Redis
	val, err := rs.client.Get(r.Context(), rs.key(cookie.Value))
	if err == redis.Nil {
		session.IsNew = true
		return session, nil // New session
	}

	if err != nil {
		return session, err
	}

	// Decode session data
	err = securecookie.DecodeMulti(name, val, &session.Values, rs.codecs...)
	if err != nil {
		session.IsNew = true
		return session, nil // New session
	}

	session.ID = cookie.Value
	session.IsNew = false
	return session, nil
}

// Save persists the session to Redis and sets the session cookie.
// A session with MaxAge < 0 is deleted from the store instead.
func (rs *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := rs.client.Delete(r.Context(), rs.key(session.ID)); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = rs.generateSessionID()
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, rs.codecs...)
	if err != nil {
		return err
	}

	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := rs.client.Set(r.Context(), rs.key(session.ID), encoded, ttl); err != nil {
		return err
	}

	http.SetCookie(w, sessions.NewCookie(session.Name(), session.ID, session.Options))
	return nil
}

// newSession creates a new session object
func (rs *RedisStore) newSession(name string) *sessions.Session {
	session := sessions.NewSession(rs, name)
	session.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   rs.maxAge,
		HttpOnly: true,
		Secure:   !rs.config.Debug,
	}
	return session
}

func (rs *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", rs.keyPrefix, sessionID)
}

func (rs *RedisStore) generateSessionID() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
