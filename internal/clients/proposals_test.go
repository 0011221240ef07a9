package clients

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	decoded, err := decodeJSON([]byte(raw))
	require.NoError(t, err)
	return decoded
}

func TestNormalizeProposals_RuleOrder(t *testing.T) {
	// The first rule matches and is too short, so the nested list is never tried.
	decoded := decode(t, `{"propuestas": ["solo"]}`)

	_, err := NormalizeProposals(decoded)

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, `"propuestas"`)
	assert.Equal(t, decoded, malformed.RawBody)
}

func TestNormalizeProposals_NestedNotSequence(t *testing.T) {
	_, err := NormalizeProposals(decode(t, `{"propuestas": {"propuestas": "a b c"}}`))

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "no accepted proposal shape matched", malformed.Reason)
}

func TestNormalizeProposals_CoercesMixedElements(t *testing.T) {
	decoded := decode(t, `[1.5, true, null, {"texto": "a"}, ["b"], "c", 10000000000000000001]`)

	proposals, err := NormalizeProposals(decoded)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"1.5",
		"true",
		"null",
		`{"texto":"a"}`,
		`["b"]`,
		"c",
		"10000000000000000001",
	}, proposals)
}

func TestNormalizeProposals_NilBody(t *testing.T) {
	_, err := NormalizeProposals(nil)

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestProposalText_FloatWithoutNumberDecoding(t *testing.T) {
	assert.Equal(t, "3", proposalText(float64(3)))
	assert.Equal(t, "0.25", proposalText(0.25))
}

func TestNormalizeProposals_IntegerProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		nums := rapid.SliceOfN(rapid.Int64(), 3, 10).Draw(rt, "nums")
		raw, err := json.Marshal(map[string]any{"propuestas": nums})
		if err != nil {
			rt.Fatalf("marshal: %v", err)
		}
		decoded, err := decodeJSON(raw)
		if err != nil {
			rt.Fatalf("decode: %v", err)
		}

		proposals, err := NormalizeProposals(decoded)
		if err != nil {
			rt.Fatalf("normalize: %v", err)
		}
		if len(proposals) != len(nums) {
			rt.Fatalf("got %d proposals, want %d", len(proposals), len(nums))
		}
		for i, n := range nums {
			if proposals[i] != strconv.FormatInt(n, 10) {
				rt.Errorf("proposal %d = %q, want %d", i, proposals[i], n)
			}
		}
	})
}
