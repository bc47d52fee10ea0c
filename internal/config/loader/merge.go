package loader

// DeepMerge layers src over dst and returns dst. Nested maps merge key
// by key; any other value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, val := range src {
		srcMap, ok := val.(map[string]any)
		if !ok {
			dst[key] = val
			continue
		}
		dstMap, ok := dst[key].(map[string]any)
		if !ok {
			dstMap = nil
		}
		dst[key] = DeepMerge(dstMap, srcMap)
	}
	return dst
}
