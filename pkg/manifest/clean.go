package manifest

// Server-managed metadata fields stripped before diffing or export.
var managedMetadataFields = []string{
	"managedFields",
	"resourceVersion",
	"uid",
	"creationTimestamp",
	"generation",
	"selfLink",
}

// Annotations injected by tooling or controllers, never part of desired state.
var injectedAnnotations = []string{
	"kubectl.kubernetes.io/last-applied-configuration",
	"deployment.kubernetes.io/revision",
}

const redactedValue = "**redacted**"

// Clean returns a copy of the document with server-managed fields removed:
// status, managed metadata, and auto-injected annotations. Annotation and
// label maps left empty by the cleaning are dropped entirely. Clean is
// idempotent and never mutates its input, so live snapshots stay read-only.
func Clean(doc Document) Document {
	out := deepCopy(map[string]any(doc))
	delete(out, "status")

	md, ok := out["metadata"].(map[string]any)
	if !ok {
		return out
	}
	for _, field := range managedMetadataFields {
		delete(md, field)
	}
	if annotations, ok := md["annotations"].(map[string]any); ok {
		for _, key := range injectedAnnotations {
			delete(annotations, key)
		}
		if len(annotations) == 0 {
			delete(md, "annotations")
		}
	}
	if labels, ok := md["labels"].(map[string]any); ok && len(labels) == 0 {
		delete(md, "labels")
	}
	return out
}

// Redact replaces every value under a Secret's data with a fixed placeholder
// so credential material never leaves the cluster in an exported manifest.
func Redact(doc Document) Document {
	if doc.Kind() != "Secret" {
		return doc
	}
	out := Document(deepCopy(map[string]any(doc)))
	for _, field := range []string{"data", "stringData"} {
		if data, ok := out[field].(map[string]any); ok {
			for key := range data {
				data[key] = redactedValue
			}
		}
	}
	return out
}

func deepCopy(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return deepCopy(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
