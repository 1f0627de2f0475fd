package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizesTerms(t *testing.T) {
	lex := New(map[string][]string{
		"meds":  {"Aspirin", "  aspirin ", "WARFARIN", ""},
		"":      {"ignored"},
		"empty": {},
	})

	assert.Equal(t, []string{"meds"}, lex.Categories())
	assert.Equal(t, []string{"aspirin", "warfarin"}, lex.TermsOf("meds"))
	assert.Equal(t, 2, lex.TermCount())
}

func TestTermsOfUnknownCategory(t *testing.T) {
	lex := New(map[string][]string{"meds": {"aspirin"}})
	assert.Nil(t, lex.TermsOf("vitals"))
	assert.False(t, lex.HasCategory("vitals"))
	assert.True(t, lex.HasCategory("meds"))
}

func TestMatchTerms(t *testing.T) {
	lex := New(map[string][]string{
		"diagnoses": {"coronary artery disease", "cad"},
		"meds":      {"aspirin"},
	})

	tests := []struct {
		name string
		text string
		want map[string]int
	}{
		{
			name: "multi-word phrase match",
			text: "History of coronary artery disease. Coronary artery disease stable.",
			want: map[string]int{"coronary artery disease": 2},
		},
		{
			name: "whole word only",
			text: "a cascade of cadence",
			want: map[string]int{},
		},
		{
			name: "abbreviation as whole word",
			text: "CAD, s/p stent",
			want: map[string]int{"cad": 1},
		},
		{
			name: "multiple terms",
			text: "CAD on aspirin",
			want: map[string]int{"cad": 1, "aspirin": 1},
		},
		{
			name: "empty text",
			text: "",
			want: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lex.MatchTerms(tt.text))
		})
	}
}

func TestCategoriesMatching(t *testing.T) {
	lex := New(map[string][]string{
		"diagnoses": {"cad"},
		"meds":      {"aspirin"},
		"vitals":    {"blood pressure"},
	})

	got := lex.CategoriesMatching("CAD on aspirin 81 mg")
	assert.Equal(t, []string{"diagnoses", "meds"}, got)

	assert.Empty(t, lex.CategoriesMatching("unremarkable exam"))
}

func TestCategoriesOf(t *testing.T) {
	lex := New(map[string][]string{
		"diagnoses": {"diabetes"},
		"endocrine": {"diabetes"},
	})

	assert.ElementsMatch(t, []string{"diagnoses", "endocrine"}, lex.CategoriesOf("Diabetes"))
	assert.Nil(t, lex.CategoriesOf("warfarin"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yml")
	content := "meds:\n  - aspirin\n  - warfarin\nvitals:\n  - blood pressure\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	lex, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"meds", "vitals"}, lex.Categories())
	assert.Equal(t, []string{"aspirin", "warfarin"}, lex.TermsOf("meds"))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("meds: [unclosed"), 0600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestDefaultLexicon(t *testing.T) {
	lex := Default()
	assert.Equal(t, []string{"diagnoses", "lab_values", "medications", "procedures", "symptoms", "vitals"}, lex.Categories())
	assert.True(t, lex.TermCount() > 100)
	assert.Contains(t, lex.TermsOf("medications"), "aspirin")
	assert.Contains(t, lex.CategoriesOf("coronary artery disease"), "diagnoses")
}
