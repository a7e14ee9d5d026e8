package dispatch

import (
	"context"
	"strings"

	"github.com/kubebridge/kubebridge/pkg/command"
)

const (
	defaultTailLines = 200

	// caps for the all-pods mode
	maxPodsPerNamespace = 50
	tailLinesPerPod     = 100
)

// getLogs fetches trailing log lines for one pod, or for every pod in the
// namespace when no pod is named. Pods whose logs are unavailable are
// skipped; pods whose filtered log is empty are omitted.
func (d *Dispatcher) getLogs(ctx context.Context, cmd *command.Command) *command.Result {
	payload, err := command.DecodePayload[command.GetLogsPayload](cmd)
	if err != nil {
		return command.Failed(err)
	}
	if payload.Namespace == "" {
		return command.Failedf("get_logs requires a namespace")
	}

	if payload.PodName != "" {
		tail := payload.TailLines
		if tail <= 0 {
			tail = defaultTailLines
		}
		logs, err := d.provider.PodLogs(ctx, payload.Namespace, payload.PodName, tail)
		if err != nil {
			return command.Failed(err)
		}
		return command.Completed(map[string]any{
			"logs": map[string]string{payload.PodName: filterLines(logs, payload.Search)},
		})
	}

	pods, err := d.provider.Pods(ctx, payload.Namespace, maxPodsPerNamespace)
	if err != nil {
		return command.Failed(err)
	}

	logsByPod := make(map[string]string, len(pods))
	for _, pod := range pods {
		logs, err := d.provider.PodLogs(ctx, payload.Namespace, pod, tailLinesPerPod)
		if err != nil {
			// pod may not be running yet
			d.logger.With("err", err).With("pod", pod).Debug("skipping pod logs")
			continue
		}
		filtered := filterLines(logs, payload.Search)
		if filtered == "" {
			continue
		}
		logsByPod[pod] = filtered
	}

	return command.Completed(map[string]any{"logs": logsByPod})
}

// filterLines keeps only lines containing search, case-insensitively. An
// empty search keeps everything.
func filterLines(logs, search string) string {
	if search == "" {
		return logs
	}
	needle := strings.ToLower(search)
	var kept []string
	for line := range strings.Lines(logs) {
		if strings.Contains(strings.ToLower(line), needle) {
			kept = append(kept, strings.TrimRight(line, "\n"))
		}
	}
	return strings.Join(kept, "\n")
}
