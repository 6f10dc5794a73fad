package security

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const tokenKey = "token"

// CookieOptions are the attributes of the session cookie.
type CookieOptions struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	TTL      time.Duration
}

// CookieCodec carries the session token in a signed (and optionally
// encrypted) HttpOnly cookie.
type CookieCodec struct {
	store *sessions.CookieStore
	name  string
}

// NewCookieCodec builds the codec. An empty hashKey gets a random one, which
// invalidates outstanding cookies on restart.
func NewCookieCodec(opts CookieOptions, hashKey, blockKey []byte) *CookieCodec {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	var store *sessions.CookieStore
	if len(blockKey) > 0 {
		store = sessions.NewCookieStore(hashKey, blockKey)
	} else {
		store = sessions.NewCookieStore(hashKey)
	}

	store.MaxAge(int(opts.TTL.Seconds()))
	store.Options.Path = "/"
	store.Options.Domain = opts.Domain
	store.Options.HttpOnly = true
	store.Options.Secure = opts.Secure
	store.Options.SameSite = opts.SameSite

	return &CookieCodec{store: store, name: opts.Name}
}

func (c *CookieCodec) Name() string { return c.name }

// Token returns the session token carried by r, or "" if the cookie is
// missing or fails verification.
func (c *CookieCodec) Token(r *http.Request) string {
	session, err := c.store.Get(r, c.name)
	if err != nil {
		return ""
	}
	token, _ := session.Values[tokenKey].(string)
	return token
}

// Save writes the cookie carrying token.
func (c *CookieCodec) Save(w http.ResponseWriter, r *http.Request, token string) error {
	session, _ := c.store.New(r, c.name)
	session.Values[tokenKey] = token
	return session.Save(r, w)
}

// Clear expires the cookie on the client.
func (c *CookieCodec) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := c.store.New(r, c.name)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
