package patch

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/bytedance/sonic"
)

// Diff returns the operations that turn from into to. Only object members
// are walked; arrays and scalars are replaced whole. Members missing from to
// are removed.
func Diff[T any](from, to T) ([]Operation, error) {
	fromMap, err := toMap(from)
	if err != nil {
		return nil, fmt.Errorf("failed to convert source state: %w", err)
	}
	toMapValue, err := toMap(to)
	if err != nil {
		return nil, fmt.Errorf("failed to convert target state: %w", err)
	}
	ops := make([]Operation, 0)
	diffMaps("", fromMap, toMapValue, &ops)
	return ops, nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func diffMaps(prefix string, from, to map[string]any, ops *[]Operation) {
	keys := make([]string, 0, len(to))
	for k := range to {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		path := prefix + "/" + escapeJSONPointer(key)
		target := to[key]
		current, exists := from[key]
		if !exists {
			*ops = append(*ops, Operation{Op: OperationAdd, Path: path, Value: target})
			continue
		}
		targetMap, targetIsMap := target.(map[string]any)
		currentMap, currentIsMap := current.(map[string]any)
		if targetIsMap && currentIsMap {
			diffMaps(path, currentMap, targetMap, ops)
			continue
		}
		if !reflect.DeepEqual(current, target) {
			*ops = append(*ops, Operation{Op: OperationReplace, Path: path, Value: target})
		}
	}

	removed := make([]string, 0)
	for k := range from {
		if _, ok := to[k]; !ok {
			removed = append(removed, k)
		}
	}
	sort.Strings(removed)
	for _, key := range removed {
		*ops = append(*ops, Operation{Op: OperationRemove, Path: prefix + "/" + escapeJSONPointer(key)})
	}
}
