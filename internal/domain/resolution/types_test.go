package resolution

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeResponseSingleElementArray(t *testing.T) {
	certainty := 0.92
	encoded, err := EncodeResponse(ResolvedAnswer{Text: "hello", Source: SourceSemantic, Certainty: &certainty})
	require.NoError(t, err)
	require.Equal(t, `[{"answer":"hello","certainty":0.92,"source":"semantic"}]`, encoded)
}

func TestEncodeResponseOmitsEmptyCertainty(t *testing.T) {
	encoded, err := EncodeResponse(ResolvedAnswer{Text: DefaultApology, Source: SourceFallback})
	require.NoError(t, err)
	require.NotContains(t, encoded, "certainty")
}

func TestDecodeResponseRoundTrip(t *testing.T) {
	certainty := 0.75
	encoded, err := EncodeResponse(ResolvedAnswer{Text: "answer", Source: SourceGenerative, Certainty: &certainty})
	require.NoError(t, err)

	decoded, err := DecodeResponse(encoded)
	require.NoError(t, err)
	require.Equal(t, "answer", decoded.Text)
	require.Equal(t, SourceGenerative, decoded.Source)
	require.Equal(t, 0.75, *decoded.Certainty)
}

func TestDecodeResponseLegacyMultiElement(t *testing.T) {
	decoded, err := DecodeResponse(`[{"answer":"first"},{"answer":"second"}]`)
	require.NoError(t, err)
	require.Equal(t, "first", decoded.Text)
}

func TestDecodeResponseRejectsEmptyArray(t *testing.T) {
	_, err := DecodeResponse(`[]`)
	require.Error(t, err)
	_, err = DecodeResponse(`not json`)
	require.Error(t, err)
}
