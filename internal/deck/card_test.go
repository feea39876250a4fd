package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRank(t *testing.T) {
	tests := []struct {
		input   string
		want    Rank
		wantErr bool
	}{
		{input: "A", want: Ace},
		{input: "a", want: Ace},
		{input: "2", want: Two},
		{input: "10", want: Ten},
		{input: "T", want: Ten},
		{input: "j", want: Jack},
		{input: " Q ", want: Queen},
		{input: "K", want: King},
		{input: "X", wantErr: true},
		{input: "", wantErr: true},
		{input: "12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRank(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRanks(t *testing.T) {
	ranks, err := ParseRanks("A,7 10")
	require.NoError(t, err)
	assert.Equal(t, []Rank{Ace, Seven, Ten}, ranks)
	assert.Equal(t, "A 7 10", FormatRanks(ranks))

	_, err = ParseRanks("A,Z")
	assert.Error(t, err)
}

func TestRankValues(t *testing.T) {
	assert.Equal(t, 11, Ace.Value())
	assert.Equal(t, 5, Five.Value())
	assert.Equal(t, 10, Ten.Value())
	assert.Equal(t, 10, King.Value())
	assert.Equal(t, 0, NoRank.Value())

	assert.True(t, Queen.IsTen())
	assert.False(t, Ace.IsTen())
	assert.False(t, Nine.IsTen())
}

func TestHiLoWeights(t *testing.T) {
	want := map[Rank]int{
		Ace: -1, Two: 1, Three: 1, Four: 1, Five: 1, Six: 1,
		Seven: 0, Eight: 0, Nine: 0, Ten: -1, Jack: -1, Queen: -1, King: -1,
	}
	for r, w := range want {
		assert.Equal(t, w, r.HiLo(), "rank %s", r)
	}
}

func TestRankString(t *testing.T) {
	assert.Equal(t, "A", Ace.String())
	assert.Equal(t, "7", Seven.String())
	assert.Equal(t, "10", Ten.String())
	assert.Equal(t, "K", King.String())
	assert.Equal(t, "-", NoRank.String())
}
