package node

import (
	"encoding/json"

	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/errors"
)

// registry is the closed kind table.
var registry = map[dag.Kind]func() dag.Operation{
	dag.KindLoader:             func() dag.Operation { return &Loader{} },
	dag.KindFilter:             func() dag.Operation { return &Filter{} },
	dag.KindImportSetting:      func() dag.Operation { return &ImportSetting{} },
	dag.KindModifier:           func() dag.Operation { return &Modifier{} },
	dag.KindGrouping:           func() dag.Operation { return &Grouping{} },
	dag.KindPrefabBuilder:      func() dag.Operation { return &PrefabBuilder{} },
	dag.KindBundleConfigurator: func() dag.Operation { return &BundleConfigurator{} },
	dag.KindBundleBuilder:      func() dag.Operation { return &BundleBuilder{} },
	dag.KindExporter:           func() dag.Operation { return &Exporter{} },
}

// New returns a zero-configured operation of the given kind.
func New(kind dag.Kind) (dag.Operation, error) {
	ctor, ok := registry[kind]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownKind, "unknown node kind %q", kind)
	}
	return ctor(), nil
}

// Known reports whether kind is in the table.
func Known(kind dag.Kind) bool {
	_, ok := registry[kind]
	return ok
}

// EncodeSettings returns the JSON encoding of an operation's settings.
func EncodeSettings(op dag.Operation) ([]byte, error) {
	data, err := json.Marshal(op)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s settings", op.Kind())
	}
	return data, nil
}

// DecodeSettings builds an operation of the given kind from its JSON
// settings. Empty data yields a zero-configured operation.
func DecodeSettings(kind dag.Kind, data []byte) (dag.Operation, error) {
	op, err := New(kind)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return op, nil
	}
	if err := json.Unmarshal(data, op); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s settings", kind)
	}
	return op, nil
}
