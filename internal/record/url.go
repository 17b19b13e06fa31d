package record

import (
	"net/url"
	"sort"
	"strings"
)

// canonicalURL lower-cases scheme and host, drops the fragment and tracking
// parameters, and sorts the query so the same posting always maps to one key.
func canonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "from" || lk == "vjk" || lk == "tk" || lk == "trk" {
			q.Del(k)
		}
	}

	switch {
	case strings.Contains(u.Host, "linkedin.com"):
		keep := url.Values{}
		if v := q.Get("currentJobId"); v != "" {
			keep.Set("currentJobId", v)
		}
		q = keep
	case strings.Contains(u.Host, "indeed.com"):
		keep := url.Values{}
		if v := q.Get("jk"); v != "" {
			keep.Set("jk", v)
		}
		q = keep
	}

	for k := range q {
		sort.Strings(q[k])
	}
	u.RawQuery = q.Encode()
	return u.String()
}
