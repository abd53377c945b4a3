package session

import (
	"net/http"

	"github.com/google/uuid"
)

// DefaultBrowserCookie names the cookie that identifies a browsing context.
const DefaultBrowserCookie = "bid"

// BrowserScoped returns a StoreFactory for server-side stores. Each browsing
// context gets a random id kept in a cookie without Max-Age, and build
// receives that id to namespace the slot. Once the browser drops the cookie
// the slot is unreachable.
func BrowserScoped(cookieName string, secure bool, build func(browserID string) Store) StoreFactory {
	if cookieName == "" {
		cookieName = DefaultBrowserCookie
	}
	return func(w http.ResponseWriter, r *http.Request) Store {
		var id string
		if c, err := r.Cookie(cookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				Secure:   secure,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		return build(id)
	}
}
