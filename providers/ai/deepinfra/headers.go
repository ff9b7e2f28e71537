package deepinfra

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
)

// HeaderFunc produces the headers of one outgoing request. It is called once
// per request.
type HeaderFunc func() http.Header

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// baseHeaders returns the fixed part of the web-embed header set.
func baseHeaders() http.Header {
	return http.Header{
		"Accept":             {"application/json"},
		"Accept-Language":    {"en-US,en;q=0.9"},
		"Content-Type":       {"application/json"},
		"Cache-Control":      {"no-cache"},
		"Pragma":             {"no-cache"},
		"Sec-Ch-Ua":          {`"Not_A Brand";v="8", "Chromium";v="120", "Microsoft Edge";v="120"`},
		"Sec-Ch-Ua-Mobile":   {"?0"},
		"Sec-Ch-Ua-Platform": {`"Windows"`},
		"Sec-Fetch-Dest":     {"empty"},
		"Sec-Fetch-Mode":     {"cors"},
		"Sec-Fetch-Site":     {"same-site"},
		"X-Deepinfra-Source": {"web-embed"},
		"Referer":            {"https://deepinfra.com/"},
	}
}

// DefaultHeaders returns the web-embed header set with a user agent picked
// from a fixed list and a random "<IPv4>, <IPv6>" X-Forwarded-For.
func DefaultHeaders() http.Header {
	headers := baseHeaders()
	headers.Set("User-Agent", userAgents[rand.IntN(len(userAgents))]) //nolint:gosec // not security sensitive
	headers.Set("X-Forwarded-For", randomIPv4()+", "+randomIPv6())
	return headers
}

// StaticHeaders returns a HeaderFunc producing the web-embed set with a fixed
// user agent and forwarded-for value. Empty arguments leave the header out.
func StaticHeaders(userAgent, forwardedFor string) HeaderFunc {
	return func() http.Header {
		headers := baseHeaders()
		if userAgent != "" {
			headers.Set("User-Agent", userAgent)
		}
		if forwardedFor != "" {
			headers.Set("X-Forwarded-For", forwardedFor)
		}
		return headers
	}
}

//nolint:gosec // random addresses only need to look plausible
func randomIPv4() string {
	return fmt.Sprintf("%d.%d.%d.%d", rand.IntN(255), rand.IntN(255), rand.IntN(255), rand.IntN(255))
}

//nolint:gosec // random addresses only need to look plausible
func randomIPv6() string {
	groups := make([]string, 8)
	for i := range groups {
		groups[i] = fmt.Sprintf("%x", rand.IntN(0x10000))
	}
	return strings.Join(groups, ":")
}
