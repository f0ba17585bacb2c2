package util

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc creates a proxy function from explicit settings.
// With no proxy URLs it falls back to the environment. noProxy is a
// comma-separated list of hosts or domain suffixes ("*" bypasses everything).
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := parseNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if bypass.matches(req.URL.Hostname()) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

type noProxyList []string

func parseNoProxy(s string) noProxyList {
	var list noProxyList
	for _, entry := range strings.Split(s, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if host, _, err := net.SplitHostPort(entry); err == nil {
			entry = host
		}
		list = append(list, strings.TrimPrefix(entry, "*"))
	}
	return list
}

func (l noProxyList) matches(host string) bool {
	host = strings.ToLower(host)
	for _, entry := range l {
		switch {
		case entry == "":
			// bare "*"
			return true
		case host == strings.TrimPrefix(entry, "."):
			return true
		case strings.HasPrefix(entry, ".") && strings.HasSuffix(host, entry):
			return true
		case strings.HasSuffix(host, "."+entry):
			return true
		}
	}
	return false
}
