// Package record turns raw JSON objects from the catalog service into typed
// records.
//
// A record starts from its kind's defaults and only the keys present in the
// raw object replace them. A present zero value such as `"price": 0` or
// `"multiValue": false` is kept; absence, not falsiness, selects the default.
// Keys are matched exactly against the record's wire names, so `"PRICE"` is
// an unknown key and not a spelling of `"price"`.
package record

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Normalize decodes raw over the record returned by defaults. It never fails:
// unknown keys are ignored, and a key whose value has the wrong JSON type
// keeps that field's default.
func Normalize[T any](raw json.RawMessage, defaults func() T) T {
	rec := defaults()
	if len(raw) == 0 {
		return rec
	}

	filtered, ok := exactKeys(raw, reflect.TypeOf(rec))
	if !ok {
		return rec
	}

	// json.Unmarshal only assigns keys that are present and carries on past
	// type mismatches.
	_ = json.Unmarshal(filtered, &rec)

	return rec
}

// NormalizeList normalizes every element of raws in order.
func NormalizeList[T any](raws []json.RawMessage, defaults func() T) []T {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw, defaults))
	}
	return out
}

// ToObject projects a record onto a plain JSON object keyed by the record's
// wire names.
func ToObject(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}

	obj := map[string]any{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return map[string]any{}
	}
	return obj
}

// exactKeys drops every object key of raw that is not the exact wire name of
// a field of t, descending into nested records. Values that do not have the
// shape t expects are returned untouched for json.Unmarshal to skip. ok is
// false when raw is not valid JSON.
func exactKeys(raw json.RawMessage, t reflect.Type) (json.RawMessage, bool) {
	if !json.Valid(raw) {
		return nil, false
	}
	if t == nil {
		return raw, true
	}
	return filterValue(raw, t), true
}

func filterValue(raw json.RawMessage, t reflect.Type) json.RawMessage {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		fields := wireFields(t)
		obj := map[string]json.RawMessage{}
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			return raw
		}
		kept := make(map[string]json.RawMessage, len(obj))
		for key, value := range obj {
			ft, ok := fields[key]
			if !ok {
				continue
			}
			kept[key] = filterValue(value, ft)
		}
		out, err := json.Marshal(kept)
		if err != nil {
			return raw
		}
		return out

	case reflect.Slice, reflect.Array:
		elem := t.Elem()
		if !hasStruct(elem) {
			return raw
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || items == nil {
			return raw
		}
		for i := range items {
			items[i] = filterValue(items[i], elem)
		}
		out, err := json.Marshal(items)
		if err != nil {
			return raw
		}
		return out
	}

	return raw
}

func hasStruct(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

var fieldCache sync.Map // reflect.Type -> map[string]reflect.Type

// wireFields maps the JSON names of t's exported fields to their types.
func wireFields(t reflect.Type) map[string]reflect.Type {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]reflect.Type)
	}

	fields := map[string]reflect.Type{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				for k, v := range wireFields(ft) {
					if _, taken := fields[k]; !taken {
						fields[k] = v
					}
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = f.Type
	}

	fieldCache.Store(t, fields)
	return fields
}
