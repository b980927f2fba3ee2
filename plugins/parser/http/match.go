package http

import "firestige.xyz/wirefp/pkg/datum"

// RequestMatchers recognise the first four bytes of common request methods.
var RequestMatchers = []datum.Matcher{
	datum.PrefixMatcher([]byte("GET ")),
	datum.PrefixMatcher([]byte("POST")),
	datum.PrefixMatcher([]byte("PUT ")),
	datum.PrefixMatcher([]byte("HEAD")),
	datum.PrefixMatcher([]byte("OPTI")),
	datum.PrefixMatcher([]byte("DELE")),
	datum.PrefixMatcher([]byte("CONN")),
	datum.PrefixMatcher([]byte("PATC")),
	datum.PrefixMatcher([]byte("TRAC")),
}

// ResponseMatcher recognises an HTTP/1.x status line.
var ResponseMatcher = datum.PrefixMatcher([]byte("HTTP/1."))
