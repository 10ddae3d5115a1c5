package varinspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{4, "4"},
		{4.5, "4.5"},
		{4.50001, "4.5"},
		{0.999, "1"},
		{0.5005, "0.5"},
		{12.3456, "12.35"},
		{0.333333, "0.33"},
		{-0.001, "0"},
		{-2.25, "-2.25"},
		{0, "0"},
		{0.125, "0.13"},
		{0.625, "0.63"},
		{1.125, "1.13"},
		{-1.125, "-1.13"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestFormatColor(t *testing.T) {
	tests := []struct {
		name string
		in   Color
		want string
	}{
		{"red", Color{R: 1, A: 1}, "rgb(255, 0, 0)"},
		{"mid gray rounds half up", Color{R: 0.5, G: 0.5, B: 0.5}, "rgb(128, 128, 128)"},
		{"alpha ignored", Color{R: 0, G: 0, B: 1, A: 0.2}, "rgb(0, 0, 255)"},
		{"near white", Color{R: 0.998, G: 0.998, B: 0.998}, "rgb(254, 254, 254)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatColor(tt.in))
		})
	}
}
