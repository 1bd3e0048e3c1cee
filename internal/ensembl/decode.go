package ensembl

import (
	"fmt"

	"github.com/Jeffail/gabs"
	"github.com/mitchellh/mapstructure"
)

// Response bodies come back either as a list of entries carrying their own
// key field (VEP HGVS) or as an object keyed by the requested key (variation).
// Replay files use the same two shapes.

// DecodeEffects decodes a VEP HGVS response body keyed by "input".
func DecodeEffects(body []byte) (map[string]*EffectPayload, error) {
	entries, err := keyedEntries(body, "input")
	if err != nil {
		return nil, err
	}

	out := make(map[string]*EffectPayload, len(entries))
	for key, data := range entries {
		var p EffectPayload
		if err := decodeEntry(data, &p); err != nil {
			return nil, fmt.Errorf("decode effect payload %s: %w", key, err)
		}
		if p.Input == "" {
			p.Input = key
		}
		out[key] = &p
	}
	return out, nil
}

// DecodeVariations decodes a variation response body keyed by the requested ID.
func DecodeVariations(body []byte) (map[string]*VariationPayload, error) {
	entries, err := keyedEntries(body, "name")
	if err != nil {
		return nil, err
	}

	out := make(map[string]*VariationPayload, len(entries))
	for key, data := range entries {
		var p VariationPayload
		if err := decodeEntry(data, &p); err != nil {
			return nil, fmt.Errorf("decode variation payload %s: %w", key, err)
		}
		out[key] = &p
	}
	return out, nil
}

// keyedEntries parses body and returns key -> raw entry. For list bodies the
// key is read from keyField; entries without it are skipped.
func keyedEntries(body []byte, keyField string) (map[string]interface{}, error) {
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	out := make(map[string]interface{})
	switch parsed.Data().(type) {
	case []interface{}:
		children, err := parsed.Children()
		if err != nil {
			return nil, fmt.Errorf("read response entries: %w", err)
		}
		for _, child := range children {
			if _, ok := child.Data().(map[string]interface{}); !ok {
				continue
			}
			key, ok := child.Path(keyField).Data().(string)
			if !ok || key == "" {
				continue
			}
			out[key] = child.Data()
		}
	case map[string]interface{}:
		children, err := parsed.ChildrenMap()
		if err != nil {
			return nil, fmt.Errorf("read response entries: %w", err)
		}
		for key, child := range children {
			if _, ok := child.Data().(map[string]interface{}); !ok {
				continue
			}
			out[key] = child.Data()
		}
	case nil:
	default:
		return nil, fmt.Errorf("unexpected response shape %T", parsed.Data())
	}
	return out, nil
}

func decodeEntry(data interface{}, target interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
