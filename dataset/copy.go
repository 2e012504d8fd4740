package dataset

import "maps"

// DB is the state of a sub-database, or a delta merged into it.
type DB = map[string]any

func deepCopy(db DB) DB {
	ret := make(DB, len(db))
	for k, v := range db {
		ret[k] = deepCopyValue(v)
	}
	return ret
}

func deepCopyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return deepCopy(v)
	case []any:
		ret := make([]any, len(v))
		for i, e := range v {
			ret[i] = deepCopyValue(e)
		}
		return ret
	}
	return v
}

// merge returns a new map with b's keys written over a's.
func merge(a, b DB) DB {
	ret := make(DB, len(a)+len(b))
	maps.Copy(ret, a)
	maps.Copy(ret, b)
	return ret
}
