package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Édith Piaf", "edith piaf"},
		{"Øyvind", "oyvind"},
		{"Łódź", "lodz"},
		{"Æther", "aether"},
		{"Straße", "strasse"},
		{"Þórr", "thorr"},
		{"Sigur Rós", "sigur ros"},
		{"ABBA", "abba"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}
