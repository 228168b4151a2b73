package transport

import (
	"net/url"
	"strconv"
	"strings"

	"campushub/internal/session"
)

// BuildURL scopes path to the caller's school and attaches params.
//
// For tenant-scoped roles (school_admin, student) holding a school id, and a
// path with no "school" segment yet, "/school/{schoolId}" is appended. Global
// and company admins get the path unchanged. Empty params are dropped.
func BuildURL(sess session.Provider, path string, params url.Values) string {
	if u, ok := sess.CurrentUser(); ok && u.Role.TenantScoped() && u.SchoolID != 0 && !hasSchoolSegment(path) {
		path = strings.TrimRight(path, "/") + "/school/" + strconv.FormatUint(uint64(u.SchoolID), 10)
	}

	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			if v != "" {
				q.Add(k, v)
			}
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func hasSchoolSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == "school" {
			return true
		}
	}
	return false
}
