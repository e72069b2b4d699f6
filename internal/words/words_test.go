package words

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase passthrough", in: "wallet", want: "wallet"},
		{name: "uppercase folded", in: "WaLLeT", want: "wallet"},
		{name: "diacritics stripped", in: "portefeuille-é", want: "portefeuillee"},
		{name: "german sharp s dropped", in: "straße", want: "strae"},
		{name: "digits and punctuation removed", in: "web2.0-name!", want: "webname"},
		{name: "whitespace removed", in: "two words", want: "twowords"},
		{name: "non latin script removed", in: "財布", want: ""},
		{name: "mixed scripts keep latin", in: "かばんbag", want: "bag"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"wallet", "Città", "naïve café", "ÅNGSTRÖM", "x9y8z7", "øre", "",
		"already-normalized", "wllt",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestLanguagesTable(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Languages)
	seen := make(map[string]bool, len(Languages))
	for _, lang := range Languages {
		require.NotEmpty(t, lang.Name)
		require.NotEmpty(t, lang.Code)
		require.False(t, seen[lang.Code], "duplicate code %s", lang.Code)
		seen[lang.Code] = true
	}
	require.True(t, seen[English.Code])
}
