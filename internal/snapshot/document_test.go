package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestDimension(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		yaml    string
		want    *float64
		wantErr bool
	}{
		{name: "number", json: `12.5`, yaml: `12.5`, want: ptr(12.5)},
		{name: "integer", json: `4`, yaml: `4`, want: ptr(4)},
		{name: "value and unit", json: `{"value": 32, "unit": "PIXELS"}`, yaml: "{value: 32, unit: PIXELS}", want: ptr(32)},
		{name: "auto", json: `{"unit": "AUTO"}`, yaml: "{unit: AUTO}"},
		{name: "percent", json: `{"value": 150, "unit": "PERCENT"}`, yaml: "{value: 150, unit: PERCENT}"},
		{name: "value without unit", json: `{"value": 8}`, yaml: "{value: 8}", want: ptr(8)},
		{name: "mixed", json: `"MIXED"`, yaml: "MIXED"},
		{name: "null", json: `null`, yaml: "null"},
		{name: "bool", json: `true`, yaml: "true", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/json", func(t *testing.T) {
			var d Dimension
			err := json.Unmarshal([]byte(tt.json), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, d.Ptr())
		})
		t.Run(tt.name+"/yaml", func(t *testing.T) {
			var holder struct {
				D Dimension `yaml:"d"`
			}
			err := yaml.Unmarshal([]byte("d: "+tt.yaml), &holder)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, holder.D.Ptr())
		})
	}
}

func TestDimension_Marshal(t *testing.T) {
	data, err := json.Marshal(struct {
		A Dimension `json:"a"`
		B Dimension `json:"b"`
	}{A: Dimension{Value: ptr(3)}})
	require.NoError(t, err)
	require.JSONEq(t, `{"a": 3, "b": null}`, string(data))

	out, err := yaml.Marshal(struct {
		A Dimension `yaml:"a,omitempty"`
		B Dimension `yaml:"b,omitempty"`
	}{A: Dimension{Value: ptr(3)}})
	require.NoError(t, err)
	require.Equal(t, "a: 3\n", string(out))
}

func ptr(v float64) *float64 { return &v }
