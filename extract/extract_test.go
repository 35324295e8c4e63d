package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/tbxark/stickeragent/types"
)

func TestExtract(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		message string
		hint    Hint
		want    types.FieldExtractionResult
	}{
		{
			name:    "all in one with brackets",
			message: "(Aisha & Suleiman) 6th Jan 2026 courtesy: Smith family",
			want: types.FieldExtractionResult{
				FoundSomething: true,
				Name1:          "Aisha",
				Name2:          "Suleiman",
				NameSource:     types.NameSourceBracket,
				Date:           "6th Jan 2026",
				Courtesy:       "Smith family",
			},
		},
		{
			name:    "month and year only",
			message: "January, 2026",
			want: types.FieldExtractionResult{
				FoundSomething: true,
				Date:           "January, 2026",
				DateIsPartial:  true,
			},
		},
		{
			name:    "explicit title short circuits templates",
			message: "the title is: happy graduation day",
			want: types.FieldExtractionResult{
				FoundSomething: true,
				Title:          "Happy Graduation Day",
			},
		},
		{
			name:    "title template stripped before names",
			message: "Alhamdulillah on your wedding ceremony (Aisha & Musa)",
			want: types.FieldExtractionResult{
				FoundSomething: true,
				Title:          "Alhamdulillah On Your Wedding Ceremony",
				Name1:          "Aisha",
				Name2:          "Musa",
				NameSource:     types.NameSourceBracket,
			},
		},
		{
			name:    "generic pair needs confirmation",
			message: "Aisha and Musa",
			want: types.FieldExtractionResult{
				FoundSomething:        true,
				Name1:                 "Aisha",
				Name2:                 "Musa",
				NameSource:            types.NameSourceGeneric,
				NameNeedsConfirmation: true,
			},
		},
		{
			name:    "bride and groom labels",
			message: "bride: Aisha, groom: Musa",
			want: types.FieldExtractionResult{
				FoundSomething: true,
				Name1:          "Aisha",
				Name2:          "Musa",
				NameSource:     types.NameSourceBrideGroom,
			},
		},
		{
			name:    "wedding tail as lone name",
			message: "for the wedding Fatima",
			want: types.FieldExtractionResult{
				FoundSomething: true,
				Name1:          "Fatima",
				NameSource:     types.NameSourceWeddingTail,
			},
		},
		{
			name:    "whole message courtesy when names and date known",
			message: "With warm regards",
			hint:    Hint{HasName: true, HasDate: true},
			want: types.FieldExtractionResult{
				FoundSomething: true,
				Courtesy:       "With warm regards",
			},
		},
		{
			name:    "no courtesy heuristic without context",
			message: "With warm regards",
			want:    types.FieldExtractionResult{},
		},
		{
			name:    "questions are never courtesy",
			message: "what do i need to send",
			hint:    Hint{HasName: true, HasDate: true},
			want:    types.FieldExtractionResult{},
		},
		{
			name:    "empty",
			message: "   ",
			want:    types.FieldExtractionResult{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tc.message, tc.hint)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Extract(%q) mismatch (-want +got):\n%s", tc.message, diff)
			}
		})
	}
}

func TestExtractIsPure(t *testing.T) {
	t.Parallel()
	msgs := []string{
		"(Aisha & Suleiman) 6th Jan 2026 courtesy: Smith family",
		"Congratulations on your wedding Aisha and Musa",
		"January, 2026",
		"from the Bello family",
	}
	for _, m := range msgs {
		first := Extract(m, Hint{HasName: true})
		second := Extract(m, Hint{HasName: true})
		assert.Empty(t, cmp.Diff(first, second), m)
	}
}

func TestFindDate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in      string
		want    string
		partial bool
	}{
		{"6th Jan 2026", "6th Jan 2026", false},
		{"Dec 25, 2025", "Dec 25, 2025", false},
		{"on 25/12/2025", "25/12/2025", false},
		{"2025-12-25", "2025-12-25", false},
		{"25/12/25 at noon", "25/12/25", false},
		{"March 2026", "March 2026", true},
		{"on 25th December", "on 25th December", false},
		{"December 25th", "December 25th", false},
	}
	for _, tc := range cases {
		got, partial, ok := FindDate(tc.in)
		assert.True(t, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.partial, partial, tc.in)
	}
	_, _, ok := FindDate("no date here")
	assert.False(t, ok)
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"the wedding aisha":  "Aisha",
		"Musa on 6th Jan":    "Musa",
		`"aisha"`:            "Aisha",
		"is   fatima  bello": "Fatima Bello",
		"family":             "",
		"a":                  "",
		"groom: Musa on":     "Musa",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), in)
	}
}

func TestBracketSplitKeepsNamesContainingAnd(t *testing.T) {
	t.Parallel()
	got := Extract("(Alexandra & Musa)", Hint{})
	assert.Equal(t, "Alexandra", got.Name1)
	assert.Equal(t, "Musa", got.Name2)
}

func TestTitles(t *testing.T) {
	t.Parallel()
	assert.True(t, IsCommonTitle("Wedding Ceremony"))
	assert.True(t, IsCommonTitle("Congratulations On Your Wedding"))
	assert.False(t, IsCommonTitle("Graduation Party"))
	assert.False(t, IsCommonTitle(""))

	assert.False(t, TitlesDiffer("  alhamdulillah on your   WEDDING ceremony", DefaultTemplateTitle))
	assert.False(t, TitlesDiffer("Graduation Party", ""))
	assert.True(t, TitleConflicts("Graduation Party", DefaultTemplateTitle))
	assert.False(t, TitleConflicts("Happy Married Life", DefaultTemplateTitle))

	title, ok := MatchTitle("wedding ceremony")
	assert.True(t, ok)
	assert.Equal(t, "Wedding Ceremony", title)
}

func TestFallbackTitle(t *testing.T) {
	t.Parallel()
	title, ok := FallbackTitle("graduation party!")
	assert.True(t, ok)
	assert.Equal(t, "Graduation Party", title)

	for _, in := range []string{"Aisha Musa", "what party", "party", "Birthday party from Bello", "Party 2026", "a very long happy birthday party for everyone here"} {
		_, ok := FallbackTitle(in)
		assert.False(t, ok, in)
	}
}

func TestSize(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{"3x3": "3x3", "4 by 2.5": "4x2.5", "default": "4x4", "3.5 × 4": "3.5x4"} {
		got, ok := ParseSizeReply(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseSizeReply("3x3 please")
	assert.False(t, ok)

	got, ok := SizeFromText("make it 3 x 3 inches")
	assert.True(t, ok)
	assert.Equal(t, "3x3 in", got)
	got, _ = SizeFromText("4.50x3")
	assert.Equal(t, "4.5x3 in", got)
}
