package adminapi

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
)

// NormalizeList reduces any list payload the backend may return to the
// canonical ListResult. It never fails: anything unrecognizable yields an
// empty result tagged ShapeUnknown.
//
// Accepted envelopes, checked in order:
//
//	{data: {...}}  the inner object becomes the root
//	{items: [...]} then {data: [...]} then {rows: [...]}
//	{total: n}     then {count: n}
func NormalizeList(payload any) model.ListResult[any] {
	root, ok := payload.(map[string]any)
	if !ok {
		return model.EmptyList[any]()
	}

	enveloped := false
	if inner, ok := root["data"].(map[string]any); ok {
		root = inner
		enveloped = true
	}

	result := model.ListResult[any]{Items: []any{}}

	switch {
	case isArray(root["items"]):
		result.Items = toItems(root["items"])
		result.Shape = pick(enveloped, model.ShapeEnvelopeItems, model.ShapeItems)
	case isArray(root["data"]):
		result.Items = toItems(root["data"])
		result.Shape = pick(enveloped, model.ShapeEnvelopeData, model.ShapeData)
	case isArray(root["rows"]):
		result.Items = toItems(root["rows"])
		result.Shape = pick(enveloped, model.ShapeEnvelopeRows, model.ShapeRows)
	}

	if n, ok := asCount(root["total"]); ok {
		result.Total = &n
	} else if n, ok := asCount(root["count"]); ok {
		result.Total = &n
	}

	if result.Shape == "" {
		result.Shape = model.ShapeUnknown
		if result.Total != nil {
			result.Shape = model.ShapeEmpty
		}
	}

	return result
}

// ConvertList re-decodes raw items into T. Items that do not decode are
// skipped; order of the rest is preserved.
func ConvertList[T any](raw model.ListResult[any]) model.ListResult[T] {
	out := model.ListResult[T]{
		Items: make([]T, 0, len(raw.Items)),
		Total: raw.Total,
		Shape: raw.Shape,
	}
	for _, item := range raw.Items {
		b, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			continue
		}
		out.Items = append(out.Items, v)
	}
	return out
}

func pick(enveloped bool, inEnvelope, flat model.ListShape) model.ListShape {
	if enveloped {
		return inEnvelope
	}
	return flat
}

func isArray(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]any); ok {
		return true
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

func toItems(v any) []any {
	if items, ok := v.([]any); ok {
		out := make([]any, len(items))
		copy(out, items)
		return out
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// asCount accepts finite, integral, non-negative numbers.
func asCount(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		return n, n >= 0
	case int32:
		return int(n), n >= 0
	case int64:
		if n < 0 || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return asCount(i)
		}
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) || f > math.MaxInt64/2 {
		return 0, false
	}
	return int(f), true
}
