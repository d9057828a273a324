package locale

// CloneMap deep-copies a nested string tree.
func CloneMap(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for key, value := range data {
		if nested, ok := value.(map[string]any); ok {
			out[key] = CloneMap(nested)
			continue
		}
		out[key] = value
	}
	return out
}

// FillMissing deep-merges src into dst with the first-wins rule: keys already
// present in dst are never overwritten, src only fills structurally-absent
// keys. Where both sides hold a nested map the fill recurses; a dst leaf
// shadows an entire src subtree.
func FillMissing(dst, src map[string]any) {
	for key, srcValue := range src {
		dstValue, exists := dst[key]
		if !exists {
			if nested, ok := srcValue.(map[string]any); ok {
				dst[key] = CloneMap(nested)
			} else {
				dst[key] = srcValue
			}
			continue
		}

		dstNested, dstOK := dstValue.(map[string]any)
		srcNested, srcOK := srcValue.(map[string]any)
		if dstOK && srcOK {
			FillMissing(dstNested, srcNested)
		}
		// Existing dst value wins on any other shape.
	}
}
