package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// PrintMetrics dumps the client's counters in a compact text form.
func (a *App) PrintMetrics(ctx context.Context) error {
	samples, err := a.metrics.Snapshot()
	if err != nil {
		a.log.Warn(ctx, "metrics snapshot failed", "error", err)
		return err
	}
	for _, s := range samples {
		keys := make([]string, 0, len(s.Labels))
		for k := range s.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + s.Labels[k]
		}
		fmt.Fprintf(a.out, "%s{%s} %g\n", s.Name, strings.Join(pairs, ","), s.Value)
	}
	return nil
}
