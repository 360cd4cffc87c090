package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/dmitrijs2005/agentdesk/internal/client/client"
)

// Get issues an authorized GET to path and pretty-prints the JSON answer.
// An expired access token is renewed transparently by the client.
func (a *App) Get(ctx context.Context, path string) error {
	var out json.RawMessage
	if err := a.api.Do(ctx, &client.Request{Method: http.MethodGet, Path: path}, &out); err != nil {
		fmt.Fprintf(a.out, "Request failed: %s\n", err)
		return err
	}
	if len(out) == 0 {
		fmt.Fprintln(a.out, "(empty response)")
		return nil
	}

	var pretty any
	if err := json.Unmarshal(out, &pretty); err != nil {
		return err
	}
	b, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(b))
	return nil
}

// Stats prints the client's request and refresh counters.
func (a *App) Stats(ctx context.Context) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s%s %.0f", mf.GetName(), labels, m.GetCounter().GetValue()))
		}
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "No requests yet")
		return nil
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(a.out, l)
	}
	return nil
}
