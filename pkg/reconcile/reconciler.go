// Package reconcile orchestrates apply semantics for manifest batches:
// read the live resource, then create or merge-patch, with dry-run previews
// computed by the diff engine.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kubebridge/kubebridge/pkg/diff"
	"github.com/kubebridge/kubebridge/pkg/kube"
	"github.com/kubebridge/kubebridge/pkg/logutil"
	"github.com/kubebridge/kubebridge/pkg/manifest"
)

const placeholderName = "unnamed"

// Outcome records one manifest's fate inside a batch.
type Outcome struct {
	Kind    string   `json:"kind,omitempty"`
	Name    string   `json:"name,omitempty"`
	Success bool     `json:"success"`
	Action  string   `json:"action"`
	Changes []string `json:"changes,omitempty"`
}

// Result aggregates a whole apply batch: per-resource outcomes, the
// assembled human-readable log, and the echoed dry-run flag.
type Result struct {
	Outcomes []Outcome `json:"resources"`
	Log      string    `json:"log"`
	DryRun   bool      `json:"dryRun"`
}

type Reconciler struct {
	provider kube.Provider
}

func New(provider kube.Provider) *Reconciler {
	return &Reconciler{provider: provider}
}

// Apply reconciles each manifest in the batch independently. A failure in
// one manifest never aborts the rest; it becomes that manifest's outcome.
// Logging goes through the command-scoped logger carried on ctx.
func (r *Reconciler) Apply(ctx context.Context, namespace string, manifests []string, dryRun bool) Result {
	logger := logutil.FromContext(ctx)
	outcomes := make([]Outcome, 0, len(manifests))
	for _, text := range manifests {
		outcome := r.applyOne(ctx, namespace, text, dryRun)
		if !outcome.Success {
			logger.With("kind", outcome.Kind).With("name", outcome.Name).
				With("reason", outcome.Action).Debug("manifest not applied")
		}
		outcomes = append(outcomes, outcome)
	}
	return Result{
		Outcomes: outcomes,
		Log:      assembleLog(namespace, outcomes, dryRun),
		DryRun:   dryRun,
	}
}

func (r *Reconciler) applyOne(ctx context.Context, namespace, text string, dryRun bool) Outcome {
	doc, err := manifest.Parse(text)
	if err != nil {
		return Outcome{Success: false, Action: err.Error()}
	}
	doc.SetDefaultNamespace(namespace)
	doc.SetDefaultName(placeholderName)

	kind, ok := kube.LookupKind(doc.Kind())
	if !ok {
		return Outcome{
			Kind:    doc.Kind(),
			Name:    doc.Name(),
			Success: false,
			Action:  fmt.Sprintf("unsupported kind %q", doc.Kind()),
		}
	}

	outcome := Outcome{Kind: kind.Name, Name: doc.Name()}

	live, err := r.provider.Get(ctx, kind, doc.Namespace(), doc.Name())
	switch {
	case err == nil:
		return r.update(ctx, kind, doc, live, dryRun, outcome)
	case errors.Is(err, kube.ErrNotFound):
		return r.create(ctx, kind, doc, dryRun, outcome)
	default:
		outcome.Success = false
		outcome.Action = err.Error()
		return outcome
	}
}

func (r *Reconciler) update(ctx context.Context, kind kube.Kind, doc manifest.Document, live map[string]any, dryRun bool, outcome Outcome) Outcome {
	if err := r.provider.Patch(ctx, kind, doc.Namespace(), doc.Name(), doc, dryRun); err != nil {
		outcome.Success = false
		outcome.Action = err.Error()
		return outcome
	}
	outcome.Success = true
	if dryRun {
		plan := diff.Compare(manifest.Clean(manifest.Document(live)), manifest.Clean(doc))
		outcome.Action = "validated (would update)"
		outcome.Changes = diff.Render(plan)
	} else {
		outcome.Action = "configured"
	}
	return outcome
}

func (r *Reconciler) create(ctx context.Context, kind kube.Kind, doc manifest.Document, dryRun bool, outcome Outcome) Outcome {
	if err := r.provider.Create(ctx, kind, doc.Namespace(), doc, dryRun); err != nil {
		outcome.Success = false
		outcome.Action = err.Error()
		return outcome
	}
	outcome.Success = true
	if dryRun {
		outcome.Action = "validated (would create)"
		outcome.Changes = diff.Render(diff.Summarize(manifest.Clean(doc)))
	} else {
		outcome.Action = "created"
	}
	return outcome
}

func assembleLog(namespace string, outcomes []Outcome, dryRun bool) string {
	mode := "Apply"
	if dryRun {
		mode = "Dry run"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d resource(s) to namespace %s\n", mode, len(outcomes), namespace)

	passed, failed := 0, 0
	for _, outcome := range outcomes {
		name := outcome.Name
		if outcome.Kind != "" {
			name = strings.ToLower(outcome.Kind) + "/" + outcome.Name
		}
		if name == "" {
			name = "(unparsed)"
		}
		fmt.Fprintf(&b, "%s: %s\n", name, outcome.Action)
		for _, line := range outcome.Changes {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		if outcome.Success && dryRun && outcome.Action == "validated (would update)" && len(outcome.Changes) == 0 {
			b.WriteString("  (no changes)\n")
		}
		if outcome.Success {
			passed++
		} else {
			failed++
		}
	}
	fmt.Fprintf(&b, "Done: %d passed, %d failed", passed, failed)
	return b.String()
}
