package pathtmpl_test

import (
	"reflect"
	"testing"

	"extrafiles/internal/pathtmpl"
)

func TestSubstituteAlbumPath(t *testing.T) {
	fields := map[string]any{pathtmpl.AlbumPathField: "/music/Artist/Album"}
	if got := pathtmpl.Substitute("$albumpath/extra/", fields); got != "/music/Artist/Album/extra/" {
		t.Fatalf("unexpected substitution: %q", got)
	}
}

func TestSubstituteMissingAlbumPathUsesSentinel(t *testing.T) {
	if got := pathtmpl.Substitute("$albumpath/extra", map[string]any{}); got != "./extra" {
		t.Fatalf("expected sentinel, got %q", got)
	}
	if got := pathtmpl.Substitute("${albumpath}/extra", nil); got != "./extra" {
		t.Fatalf("expected sentinel for nil fields, got %q", got)
	}
}

func TestSubstituteFields(t *testing.T) {
	fields := map[string]any{
		pathtmpl.AlbumPathField: "/music/AC_DC/Back in Black",
		"albumartist":           "AC/DC",
		"year":                  int64(1980),
		"disctotal":             int64(2),
		"rg_album_gain":         -7.5,
		"comp":                  false,
		"path":                  []byte("/music/x"),
	}
	tests := []struct {
		tmpl string
		want string
	}{
		{"$albumpath/$year", "/music/AC_DC/Back in Black/1980"},
		{"$albumartist", "AC_DC"},
		{"${year}s", "1980s"},
		{"$year$disctotal", "19802"},
		{"$rg_album_gain", "-7.5"},
		{"$comp", "0"},
		{"$unknown/x", "$unknown/x"},
		{"${unknown}", "${unknown}"},
		{"cost $$5", "cost $5"},
		{"100$%", "100%"},
		{"a$,b", "a,b"},
		{"brace$}", "brace}"},
		{"trailing $", "trailing $"},
		{"${broken", "${broken"},
		{"$ space", "$ space"},
	}
	for _, tt := range tests {
		if got := pathtmpl.Substitute(tt.tmpl, fields); got != tt.want {
			t.Errorf("Substitute(%q) = %q, want %q", tt.tmpl, got, tt.want)
		}
	}
}

func TestSubstituteFunctions(t *testing.T) {
	fields := map[string]any{
		pathtmpl.AlbumPathField: "/music/a",
		"album":                 "Déjà Vu",
		"albumartist":           "crosby, stills & nash",
		"disctotal":             int64(1),
		"empty":                 "",
	}
	tests := []struct {
		tmpl string
		want string
	}{
		{"%lower{$album}", "déjà vu"},
		{"%upper{$album}", "DÉJÀ VU"},
		{"%title{$albumartist}", "Crosby, Stills & Nash"},
		{"%asciify{$album}", "Deja Vu"},
		{"%left{$album,4}", "Déjà"},
		{"%right{$album,2}", "Vu"},
		{"%left{abc,10}", "abc"},
		{"%if{$disctotal,multi,single}", "multi"},
		{"%if{0,multi,single}", "single"},
		{"%if{$empty,yes}", ""},
		{"%if{false,yes,no}", "no"},
		{"%upper{a$,b}", "A,B"},
		{"$albumpath/%lower{%asciify{$album}}", "/music/a/deja vu"},
		{"%nosuch{$album}", "%nosuch{$album}"},
		{"%left{abc,x}", "%left{abc,x}"},
		{"%lower{a,b}", "%lower{a,b}"},
		{"%lower{unterminated", "%lower{unterminated"},
		{"100%", "100%"},
		{"%{x}", "%{x}"},
		{"outside, comma}", "outside, comma}"},
	}
	for _, tt := range tests {
		if got := pathtmpl.Substitute(tt.tmpl, fields); got != tt.want {
			t.Errorf("Substitute(%q) = %q, want %q", tt.tmpl, got, tt.want)
		}
	}
}

func TestAlbumPathIsNotSanitized(t *testing.T) {
	fields := map[string]any{pathtmpl.AlbumPathField: "/music/Artist/Album", "album": "../.."}
	if got := pathtmpl.Substitute("$albumpath/$album", fields); got != "/music/Artist/Album/_" {
		t.Fatalf("unexpected substitution: %q", got)
	}
}

func TestTemplateFields(t *testing.T) {
	tmpl := pathtmpl.Parse("$albumpath/%lower{$albumartist}/${year} - $albumartist")
	want := []string{"albumpath", "albumartist", "year"}
	if got := tmpl.Fields(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
	if tmpl.Source() != "$albumpath/%lower{$albumartist}/${year} - $albumartist" {
		t.Fatalf("unexpected source %q", tmpl.Source())
	}
}

func TestParsedTemplateIsReusable(t *testing.T) {
	tmpl := pathtmpl.Parse("$albumpath/extra")
	for _, root := range []string{"/a", "/b"} {
		if got := tmpl.Substitute(map[string]any{pathtmpl.AlbumPathField: root}); got != root+"/extra" {
			t.Fatalf("unexpected substitution for %s: %q", root, got)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{42, "42"},
		{int64(7), "7"},
		{1.25, "1.25"},
		{true, "1"},
		{[]byte("caf\xe9"), "caf\ufffd"},
	}
	for _, tt := range tests {
		if got := pathtmpl.FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
