package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/signal-scout/internal/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		source types.SourceAPI
		rawID  string
		want   string
	}{
		{
			name:   "HN id used as-is",
			source: types.SourceHackerNews,
			rawID:  "38971204",
			want:   "38971204",
		},
		{
			name:   "HN id trimmed",
			source: types.SourceHackerNews,
			rawID:  "  38971204\n",
			want:   "38971204",
		},
		{
			name:   "Reddit t3_ prefix stripped",
			source: types.SourceReddit,
			rawID:  "t3_1abcde",
			want:   "1abcde",
		},
		{
			name:   "Reddit bare id unchanged",
			source: types.SourceReddit,
			rawID:  "1abcde",
			want:   "1abcde",
		},
		{
			name:   "RSS GUID trimmed only",
			source: types.SourceBevNET,
			rawID:  " https://www.bevnet.com/news/2024/example ",
			want:   "https://www.bevnet.com/news/2024/example",
		},
		{
			name:   "USPTO strips dashes and spaces",
			source: types.SourceUSPTO,
			rawID:  "97-123 456",
			want:   "97123456",
		},
		{
			name:   "unknown source falls through to trim",
			source: types.SourceAPI("mystery"),
			rawID:  " t3_keep-me ",
			want:   "t3_keep-me",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.source, tt.rawID))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	sources := []types.SourceAPI{
		types.SourceHackerNews,
		types.SourceReddit,
		types.SourceBevNET,
		types.SourceNosh,
		types.SourceUSPTO,
	}
	ids := []string{"t3_abc", " 97-123 456 ", "https://example.com/guid?x=1", "plain"}

	for _, source := range sources {
		for _, id := range ids {
			once := Normalize(source, id)
			assert.Equal(t, once, Normalize(source, once),
				"normalize must be idempotent for %s %q", source, id)
		}
	}
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint(types.SourceHackerNews, "38971204")

	// 32 lowercase hex chars, deterministic across calls
	assert.Len(t, fp, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", fp)
	assert.Equal(t, fp, Fingerprint(types.SourceHackerNews, "38971204"))
}

func TestFingerprintSourcesNeverCollide(t *testing.T) {
	// Same raw id from different sources must produce distinct hashes;
	// "t3_abc" normalizes to "abc" for reddit but stays intact for hn.
	hn := types.Signal{SourceAPI: types.SourceHackerNews, SourceID: "t3_abc"}
	reddit := types.Signal{SourceAPI: types.SourceReddit, SourceID: "t3_abc"}

	assert.Equal(t, "t3_abc", Normalize(hn.SourceAPI, hn.SourceID))
	assert.Equal(t, "abc", Normalize(reddit.SourceAPI, reddit.SourceID))
	assert.NotEqual(t, FingerprintSignal(&hn), FingerprintSignal(&reddit))

	// Even with identical normalized ids the source prefix keeps them apart.
	assert.NotEqual(t,
		Fingerprint(types.SourceBevNET, "guid-1"),
		Fingerprint(types.SourceNosh, "guid-1"))
}

func TestFingerprintMatchesNormalizedVariant(t *testing.T) {
	// A listing-sourced "t3_" id and a search-sourced bare id are the same post.
	a := types.Signal{SourceAPI: types.SourceReddit, SourceID: "t3_1abcde"}
	b := types.Signal{SourceAPI: types.SourceReddit, SourceID: "1abcde"}
	assert.Equal(t, FingerprintSignal(&a), FingerprintSignal(&b))
}
