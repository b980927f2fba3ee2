package engine

import (
	"fmt"
	"io"
	"strings"

	"firestige.xyz/wirefp/internal/analysis"
	"firestige.xyz/wirefp/pkg/emitter"
)

const notPresent = "not present (null)"

// Summary reports c through the bound accessors: fingerprint type, string
// and status, server name and, when available, the ALPNs, user agent and
// the process and malware verdicts. A nil context yields an empty object.
func (api *API) Summary(c *analysis.Context) *emitter.Record {
	rec := emitter.NewRecord()
	if c == nil {
		return rec
	}
	t := api.GetFingerprintType(c)
	rec.String("fingerprint_type", t.String())
	rec.Uint("fingerprint_type_code", uint64(t))

	fp, ok := api.GetFingerprintString(c)
	if !ok {
		fp = notPresent
	}
	rec.String("fingerprint_string", fp)

	s := api.GetFingerprintStatus(c)
	rec.String("fingerprint_status", s.String())
	rec.Uint("fingerprint_status_code", uint64(s))

	name, ok := api.GetServerName(c)
	if !ok {
		name = notPresent
	}
	rec.String("server_name", name)

	if alpns := api.alpns(c); len(alpns) > 0 {
		a := rec.Array("alpns")
		for _, p := range alpns {
			a.String(p)
		}
	}
	if ua, ok := api.userAgent(c); ok {
		rec.String("user_agent", ua)
	}

	if proc, score, ok := api.GetProcessInfo(c); ok {
		rec.String("probable_process", proc)
		rec.Float("probability_score", score)
	}
	if malware, p, ok := api.GetMalwareInfo(c); ok {
		rec.Bool("probable_process_is_malware", malware)
		rec.Float("probability_malware", p)
	}
	return rec
}

// WriteSummaryText writes the summary of c as "key: value" lines.
func (api *API) WriteSummaryText(w io.Writer, c *analysis.Context) error {
	if c == nil {
		_, err := fmt.Fprintln(w, "null analysis context (no analysis present)")
		return err
	}
	fp, ok := api.GetFingerprintString(c)
	if !ok {
		fp = notPresent
	}
	name, ok := api.GetServerName(c)
	if !ok {
		name = notPresent
	}
	_, err := fmt.Fprintf(w,
		"fingerprint_type: %s\nfingerprint_string: %s\nfingerprint_status: %s\nserver_name: %s\n",
		api.GetFingerprintType(c), fp, api.GetFingerprintStatus(c), name)
	if err != nil {
		return err
	}
	if alpns := api.alpns(c); len(alpns) > 0 {
		if _, err := fmt.Fprintf(w, "alpns: %s\n", strings.Join(alpns, ",")); err != nil {
			return err
		}
	}
	if ua, ok := api.userAgent(c); ok {
		if _, err := fmt.Fprintf(w, "user_agent: %s\n", ua); err != nil {
			return err
		}
	}
	if proc, score, ok := api.GetProcessInfo(c); ok {
		if _, err := fmt.Fprintf(w, "probable_process: %s\tprobability_score: %f\n", proc, score); err != nil {
			return err
		}
	}
	if malware, p, ok := api.GetMalwareInfo(c); ok {
		if _, err := fmt.Fprintf(w, "probable_process_is_malware: %t\tprobability_malware: %f\n", malware, p); err != nil {
			return err
		}
	}
	return nil
}

// alpns and userAgent need version 3 accessors.
func (api *API) alpns(c *analysis.Context) []string {
	if api.GetALPNs == nil {
		return nil
	}
	return api.GetALPNs(c)
}

func (api *API) userAgent(c *analysis.Context) (string, bool) {
	if api.GetUserAgent == nil {
		return "", false
	}
	return api.GetUserAgent(c)
}

// Record writes the full record of c. Engines older than version 3 cannot
// write records and yield the summary instead.
func (api *API) Record(c *analysis.Context, metadata bool) *emitter.Record {
	if api.WriteJSON == nil {
		return api.Summary(c)
	}
	rec := emitter.NewRecord()
	api.WriteJSON(c, rec, metadata)
	return rec
}
