package games

// Params arrive as map[string]any because they cross a JSON boundary; after
// a decode round trip numbers are float64 and arrays are []any, while callers
// constructing maps in Go pass native ints. These helpers accept both shapes.

func intParam(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func stringParam(params map[string]any, key string) (string, bool) {
	s, ok := params[key].(string)
	return s, ok
}

func intSliceParam(params map[string]any, key string) ([]int, bool) {
	switch v := params[key].(type) {
	case []int:
		out := make([]int, len(v))
		copy(out, v)
		return out, true
	case []any:
		out := make([]int, 0, len(v))
		for _, e := range v {
			switch n := e.(type) {
			case int:
				out = append(out, n)
			case float64:
				out = append(out, int(n))
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}
