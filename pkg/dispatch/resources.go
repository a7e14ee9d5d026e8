package dispatch

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/kubebridge/kubebridge/pkg/command"
	"github.com/kubebridge/kubebridge/pkg/kube"
	"github.com/kubebridge/kubebridge/pkg/manifest"
)

const documentSeparator = "---\n"

// listResources enumerates every catalog kind in the namespace concurrently.
// Each kind is independent: a failed kind is logged and omitted, the rest
// still make it into the result.
func (d *Dispatcher) listResources(ctx context.Context, cmd *command.Command) *command.Result {
	payload, err := command.DecodePayload[command.ListResourcesPayload](cmd)
	if err != nil {
		return command.Failed(err)
	}
	if payload.Namespace == "" {
		return command.Failedf("list_resources requires a namespace")
	}

	perKind := make([][]kube.Reference, len(kube.Catalog))
	var g errgroup.Group
	for i, kind := range kube.Catalog {
		g.Go(func() error {
			refs, err := d.provider.ListKind(ctx, kind, payload.Namespace)
			if err != nil {
				d.logger.With("err", err).With("kind", kind.Name).Debug("skipping kind enumeration")
				return nil
			}
			perKind[i] = refs
			return nil
		})
	}
	// closures never return errors; Wait only joins
	_ = g.Wait()

	return command.Completed(map[string]any{
		"resources": lo.Flatten(perKind),
	})
}

// getManifests fetches each requested resource, cleans it, and concatenates
// the survivors into one multi-document blob in request order. A failed
// fetch is logged and skipped.
func (d *Dispatcher) getManifests(ctx context.Context, cmd *command.Command) *command.Result {
	payload, err := command.DecodePayload[command.GetManifestsPayload](cmd)
	if err != nil {
		return command.Failed(err)
	}
	if payload.Namespace == "" {
		return command.Failedf("get_manifests requires a namespace")
	}

	var docs []string
	for _, selector := range payload.Resources {
		kind, ok := kube.LookupKind(selector.Kind)
		if !ok {
			d.logger.With("kind", selector.Kind).Warn("skipping unsupported kind")
			continue
		}
		live, err := d.provider.Get(ctx, kind, payload.Namespace, selector.Name)
		if err != nil {
			d.logger.With("err", err).With("kind", selector.Kind).With("name", selector.Name).
				Warn("skipping resource fetch")
			continue
		}
		cleaned := manifest.Redact(manifest.Clean(manifest.Document(live)))
		text, err := cleaned.Serialize()
		if err != nil {
			d.logger.With("err", err).With("name", selector.Name).Warn("skipping unserializable resource")
			continue
		}
		docs = append(docs, text)
	}

	return command.Completed(map[string]any{
		"manifests": strings.Join(docs, documentSeparator),
	})
}
