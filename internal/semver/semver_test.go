package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtLeast(t *testing.T) {
	tests := []struct {
		version string
		minimum string
		want    bool
		wantErr bool
	}{
		{"1.2.0", "1.2.0", true, false},
		{"v1.3.1", "1.2.0", true, false},
		{"1.1.9", "1.2.0", false, false},
		{"1.2.0-rc.1", "1.2.0", false, false},
		{"dev", "1.2.0", false, true},
		{"1.2.0", "latest", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.version+">="+tt.minimum, func(t *testing.T) {
			got, err := AtLeast(tt.version, tt.minimum)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
