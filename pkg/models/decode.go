package models

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeEntity decodes an EntityRecord into a caller-supplied struct using
// its json tags. The MetaKey envelope is dropped before decoding so target
// structs only need fields for their own data (plus "id" if wanted).
func DecodeEntity(record EntityRecord, target any) error {
	fields := make(map[string]any, len(record))
	for k, v := range record {
		if k == MetaKey {
			continue
		}
		fields[k] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build entity decoder: %w", err)
	}

	if err := decoder.Decode(fields); err != nil {
		return fmt.Errorf("failed to decode entity: %w", err)
	}
	return nil
}
