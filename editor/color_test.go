package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos-io/transpalentor/api"
)

var (
	white = Color{R: 255, G: 255, B: 255}
	black = Color{}
	red   = Color{R: 255}
	green = Color{G: 255}
)

func TestColorSet_Add(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		have    []Color
		add     Color
		wantErr error
		want    []Color
	}{
		{name: "empty", add: white, want: []Color{white}},
		{name: "append keeps order", have: []Color{white, black}, add: red, want: []Color{white, black, red}},
		{name: "duplicate", have: []Color{white}, add: white, wantErr: ErrDuplicateColor, want: []Color{white}},
		{name: "full", have: []Color{white, black, red}, add: green, wantErr: ErrColorLimit, want: []Color{white, black, red}},
		{name: "full and duplicate reports limit", have: []Color{white, black, red}, add: white, wantErr: ErrColorLimit, want: []Color{white, black, red}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var s ColorSet
			for _, c := range tt.have {
				require.NoError(t, s.Add(c))
			}
			err := s.Add(tt.add)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, s.Colors())
		})
	}
}

func TestColorSet_Remove(t *testing.T) {
	t.Parallel()

	var s ColorSet
	for _, c := range []Color{white, black, red} {
		require.NoError(t, s.Add(c))
	}

	require.NoError(t, s.Remove(1))
	assert.Equal(t, []Color{white, red}, s.Colors())

	assert.ErrorIs(t, s.Remove(2), ErrColorIndex)
	assert.ErrorIs(t, s.Remove(-1), ErrColorIndex)
	assert.Equal(t, []Color{white, red}, s.Colors())

	// 删除后可以重新加入
	require.NoError(t, s.Add(black))
	assert.Equal(t, []Color{white, red, black}, s.Colors())
}

func TestColorSet_NeverExceedsLimit(t *testing.T) {
	t.Parallel()

	var s ColorSet
	for i := 0; i < 20; i++ {
		_ = s.Add(Color{R: uint8(i % 5), G: uint8(i)})
		if i%4 == 3 {
			_ = s.Remove(0)
		}
		require.LessOrEqual(t, s.Len(), api.MaxColors)

		seen := map[Color]bool{}
		for _, c := range s.Colors() {
			require.False(t, seen[c], "duplicate %v", c)
			seen[c] = true
		}
	}
}

func TestColorSet_CopiesAndPayload(t *testing.T) {
	t.Parallel()

	var s ColorSet
	require.NoError(t, s.Add(white))
	require.NoError(t, s.Add(black))

	got := s.Colors()
	got[0] = red
	assert.Equal(t, white, s.Colors()[0])

	c := s.Clone()
	require.NoError(t, c.Remove(0))
	assert.Equal(t, 2, s.Len())

	assert.Equal(t, api.Colors{{255, 255, 255}, {0, 0, 0}}, s.Payload())

	s.Reset()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Payload())
}

func TestColorSet_ReadOnValue(t *testing.T) {
	t.Parallel()

	set := func() ColorSet {
		var s ColorSet
		require.NoError(t, s.Add(red))
		return s
	}

	assert.Equal(t, 1, set().Len())
	assert.True(t, set().Contains(red))
	assert.Equal(t, []Color{red}, set().Colors())
	assert.Equal(t, api.Colors{{255, 0, 0}}, set().Payload())
	assert.Equal(t, 1, set().Clone().Len())
}

func TestParseHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#ffffff", want: white},
		{in: "#FF0000", want: red},
		{in: "00ff00", want: green},
		{in: " #102030 ", want: Color{R: 0x10, G: 0x20, B: 0x30}},
		{in: "#fff", wantErr: true},
		{in: "#gg0000", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseHex(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHex)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorFromInts(t *testing.T) {
	t.Parallel()

	c, err := ColorFromInts(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Color{R: 1, G: 2, B: 3}, c)
	assert.Equal(t, "#010203", c.Hex())
	assert.Equal(t, "RGB(1, 2, 3)", c.String())
	assert.Equal(t, api.RGB{1, 2, 3}, c.Triple())

	_, err = ColorFromInts(256, 0, 0)
	assert.ErrorIs(t, err, ErrColorRange)
	_, err = ColorFromInts(0, -1, 0)
	assert.ErrorIs(t, err, ErrColorRange)
}
