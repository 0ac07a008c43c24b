package bangumi

import (
	"net/url"
	"strconv"
)

// Request describes a single API call before it is sent. Builders render one
// on Build so callers can inspect or send it themselves.
type Request struct {
	Method string
	// Path is the escaped path relative to the base URL, e.g. "/v0/subjects/8"
	Path string
	// Query holds only the parameters that were set
	Query url.Values
	// Body is JSON encoded when non-nil
	Body any
}

// URL resolves the request against base.
func (r *Request) URL(base *url.URL) *url.URL {
	u := base.JoinPath(r.Path)
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}
	return u
}

func idPath(prefix string, id uint64, rest ...string) string {
	p := prefix + "/" + strconv.FormatUint(id, 10)
	for _, s := range rest {
		p += "/" + s
	}
	return p
}

func userPath(username string, rest ...string) string {
	p := "/v0/users/" + url.PathEscape(username)
	for _, s := range rest {
		p += "/" + s
	}
	return p
}

func setUint(q url.Values, key string, v uint64) {
	q.Set(key, strconv.FormatUint(v, 10))
}
