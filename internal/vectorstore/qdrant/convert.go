package qdrant

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Qdrant only accepts UUID or integer point ids, while forum entity ids are
// arbitrary strings. Points are addressed by a UUIDv5 derived from the entity
// id; the payload keeps the original id for rendering and cross-referencing.
var pointIDNamespace = uuid.MustParse("5f9b3a44-20c1-4bfe-9f0d-3c87a1d2e6b0")

// pointID derives the stable point id for an entity id.
func pointID(entityID string) *qdrant.PointId {
	return qdrant.NewIDUUID(uuid.NewSHA1(pointIDNamespace, []byte(entityID)).String())
}

// resultID recovers the source entity id of a hit, preferring the payload.
func resultID(id *qdrant.PointId, payload map[string]any) string {
	if v, ok := payload["id"].(string); ok && v != "" {
		return v
	}
	return extractPointID(id)
}

func extractPointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	if n := id.GetNum(); n != 0 {
		return fmt.Sprintf("%d", n)
	}
	return ""
}

func toQdrantPayload(payload map[string]any) map[string]*qdrant.Value {
	if payload == nil {
		return nil
	}
	out := make(map[string]*qdrant.Value, len(payload))
	for k, v := range payload {
		out[k] = toQdrantValue(v)
	}
	return out
}

func toQdrantValue(v any) *qdrant.Value {
	switch val := v.(type) {
	case string:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: val}}
	case int:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(val)}}
	case int64:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: val}}
	case float64:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: val}}
	case bool:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: val}}
	default:
		// Fallback to string representation
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", val)}}
	}
}

func fromQdrantPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = fromQdrantValue(v)
	}
	return out
}

func fromQdrantValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	default:
		return nil
	}
}
