package transaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itemtrace/custody-backend-go/internal/models"
)

func TestParseBlock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Block
		wantErr bool
	}{
		{
			name:  "valid block",
			input: "BLOCK=7=Rotterdam Depot=250817093041123456=false=deadbeef",
			want: Block{
				DeviceID:  7,
				Site:      "Rotterdam Depot",
				Timestamp: "250817093041123456",
				Destruct:  false,
				Signature: "deadbeef",
			},
		},
		{
			name:  "destruct block",
			input: "BLOCK=0=Incinerator B=250817093041000000=true=00ff",
			want: Block{
				DeviceID:  0,
				Site:      "Incinerator B",
				Timestamp: "250817093041000000",
				Destruct:  true,
				Signature: "00ff",
			},
		},
		{name: "too few fields", input: "BLOCK=1=Depot=250817093041123456=false", wantErr: true},
		{name: "negative id", input: "BLOCK=-1=Depot=250817093041123456=false=aa", wantErr: true},
		{name: "bad timestamp", input: "BLOCK=1=Depot=2508170930=false=aa", wantErr: true},
		{name: "bad destruct", input: "BLOCK=1=Depot=250817093041123456=maybe=aa", wantErr: true},
		{name: "empty signature", input: "BLOCK=1=Depot=250817093041123456=false=", wantErr: true},
		{name: "empty site", input: "BLOCK=1==250817093041123456=false=aa", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAllocate(t *testing.T) {
	got, err := Parse("ALLOCATE=Lab 3=250817093041123456")
	require.NoError(t, err)
	assert.Equal(t, Allocate{Site: "Lab 3", Timestamp: "250817093041123456"}, got)

	_, err = Parse("ALLOCATE=Lab 3")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse("TRANSFER=1=2")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestStringRoundTrip(t *testing.T) {
	b := Block{DeviceID: 12, Site: "Harbor", Timestamp: "250817093041123456", Destruct: true, Signature: "abcd"}
	parsed, err := Parse(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	a := Allocate{Site: "Harbor", Timestamp: "250817093041123456"}
	parsed, err = Parse(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("NUMBER")
	require.NoError(t, err)
	assert.Equal(t, Query{Tag: TagNumber}, q)

	q, err = ParseQuery("HISTORY=42")
	require.NoError(t, err)
	assert.Equal(t, Query{Tag: TagHistory, DeviceID: 42}, q)

	for _, raw := range []string{"HISTORY=", "HISTORY=x", "HISTORY=-2", "COUNT", "NUMBER=1"} {
		_, err := ParseQuery(raw)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	t1 := time.Date(2025, 8, 17, 9, 30, 41, 123456000, time.UTC)
	t2 := time.Date(2025, 8, 18, 14, 2, 7, 0, time.UTC)
	entries := []models.CustodyEntry{
		{Site: "Lab 3", Timestamp: t1},
		{Site: "Rotterdam Depot", Timestamp: t2},
	}

	encoded := EncodeHistory(entries)
	assert.Equal(t, "Lab 3=250817093041123456=Rotterdam Depot=250818140207000000", encoded)

	decoded, err := DecodeHistory(encoded)
	require.NoError(t, err)
	assert.Equal(t, entries, decoded)
}

func TestDecodeHistoryEdgeCases(t *testing.T) {
	decoded, err := DecodeHistory("")
	require.NoError(t, err)
	assert.Empty(t, decoded)

	_, err = DecodeHistory("Lab 3")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeHistory("Lab 3=notatime")
	assert.ErrorIs(t, err, ErrMalformed)
}
