package g2b

// itemsShape classifies what the API put under response.body.items.
type itemsShape int

const (
	shapeAbsent itemsShape = iota
	shapeList
	shapeObject
)

// itemsValue is the resolved items node: exactly one of list or object is
// meaningful, selected by shape.
type itemsValue struct {
	shape  itemsShape
	list   []any
	object map[string]any
}

// classifyItems inspects v once. Empty lists, empty objects and scalar
// false-like values all count as absent.
func classifyItems(v any) itemsValue {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return itemsValue{shape: shapeAbsent}
		}
		return itemsValue{shape: shapeList, list: t}
	case map[string]any:
		if len(t) == 0 {
			return itemsValue{shape: shapeAbsent}
		}
		return itemsValue{shape: shapeObject, object: t}
	}
	return itemsValue{shape: shapeAbsent}
}

// ExtractItems returns the announcement records under
// response.body.items. The API sends a list, an {"item": [...]} wrapper,
// an {"item": {...}} wrapper for a single result, or drops items entirely
// when nothing matched; all of these come back as a plain slice. Anything
// malformed yields an empty slice.
func ExtractItems(envelope map[string]any) (items []map[string]any) {
	defer func() {
		if recover() != nil {
			items = nil
		}
	}()

	response, _ := envelope["response"].(map[string]any)
	body, _ := response["body"].(map[string]any)

	v := classifyItems(body["items"])
	switch v.shape {
	case shapeList:
		return objects(v.list)
	case shapeObject:
		inner := classifyItems(v.object["item"])
		switch inner.shape {
		case shapeList:
			return objects(inner.list)
		case shapeObject:
			return []map[string]any{inner.object}
		}
	}
	return nil
}

// objects keeps the elements of list that are JSON objects.
func objects(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, it := range list {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
