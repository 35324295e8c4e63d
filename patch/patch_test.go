package patch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type couple struct {
	Name1 string `json:"name1"`
	Name2 string `json:"name2"`
}

type card struct {
	Title string   `json:"title"`
	Names couple   `json:"names"`
	Tags  []string `json:"tags,omitempty"`
}

func TestApplyRFC6902(t *testing.T) {
	t.Parallel()
	allowed := NewAllowedPaths("/title", "/names/*")
	current := card{Title: "Wedding", Names: couple{Name1: "Aisha"}}

	ops := []Operation{
		Replace("/title", "Wedding Ceremony"),
		Replace("/names/name2", "Musa"),
	}
	require.NoError(t, Validate(ops, allowed))
	got, err := ApplyRFC6902(current, ops)
	require.NoError(t, err)
	assert.Equal(t, card{Title: "Wedding Ceremony", Names: couple{Name1: "Aisha", Name2: "Musa"}}, got)
	assert.Equal(t, "Wedding", current.Title)

	got, err = ApplyRFC6902(got, []Operation{Replace("/title", "")})
	require.NoError(t, err)
	assert.Empty(t, got.Title)

	assert.ErrorIs(t, Validate([]Operation{Replace("/tags", []string{"x"})}, allowed), ErrPathNotAllowed)
}

func TestFixOperation(t *testing.T) {
	t.Parallel()
	got, err := ApplyRFC6902(card{Title: "A"}, []Operation{
		Replace("/tags", []string{"gold"}),
		{Op: OperationRemove, Path: "/missing"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"gold"}, got.Tags)
}

func TestAllowedPaths(t *testing.T) {
	t.Parallel()
	allowed := NewAllowedPaths("/title", "/names/*")
	assert.True(t, allowed.Allows("/names/name1"))
	assert.False(t, allowed.Allows("/names"))
	assert.False(t, allowed.Allows("/size"))
	assert.True(t, AllowedPaths(nil).Allows("/anything"))

	kept, dropped := Filter([]Operation{Replace("/title", "x"), Replace("/size", "3x3")}, allowed)
	assert.Len(t, kept, 1)
	require.Len(t, dropped, 1)
	assert.Equal(t, "/size", dropped[0].Path)
}

func TestDiffRoundTrip(t *testing.T) {
	t.Parallel()
	from := card{Title: "Wedding", Names: couple{Name1: "Aisha", Name2: "Musa"}}
	to := card{Title: "Graduation", Names: couple{Name1: "Aisha"}, Tags: []string{"blue"}}

	ops, err := Diff(from, to)
	require.NoError(t, err)
	want := []Operation{
		{Op: OperationReplace, Path: "/names/name2", Value: ""},
		{Op: OperationAdd, Path: "/tags", Value: []any{"blue"}},
		{Op: OperationReplace, Path: "/title", Value: "Graduation"},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("Diff() mismatch (-want +got):\n%s", diff)
	}

	got, err := ApplyRFC6902(from, ops)
	require.NoError(t, err)
	assert.Equal(t, to, got)

	back, err := Diff(to, from)
	require.NoError(t, err)
	assert.Contains(t, back, Operation{Op: OperationRemove, Path: "/tags"})
}
