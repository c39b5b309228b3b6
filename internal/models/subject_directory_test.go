// Tests for subject_directory.go and listing.go: directory lookups and cache key construction.
package models

import (
	"reflect"
	"testing"
)

func testDirectory() SubjectDirectory {
	return SubjectDirectory{
		ExamPageLinks: map[string]string{
			CategoryALevel: "a-levels",
			CategoryIGCSE:  "cambridge-igcse",
		},
		Subjects: map[string]map[string]string{
			CategoryIGCSE:  {"0452": "accounting-0452", "0620": "chemistry-0620"},
			CategoryALevel: {"9709": "mathematics-9709", "0620": "dup-0620"},
		},
	}
}

func TestSubjectDirectory_Lookup(t *testing.T) {
	t.Parallel()
	dir := testDirectory()

	loc, ok := dir.Lookup("0452")
	if !ok {
		t.Fatal("expected 0452 to be found")
	}
	want := SubjectLocation{Category: CategoryIGCSE, CategorySegment: "cambridge-igcse", SubjectSegment: "accounting-0452"}
	if loc != want {
		t.Errorf("Lookup() = %+v, want %+v", loc, want)
	}

	// alevel sorts before igcse
	loc, ok = dir.Lookup("0620")
	if !ok || loc.Category != CategoryALevel {
		t.Errorf("Lookup(0620) = %+v, %v; want alevel entry", loc, ok)
	}

	if _, ok := dir.Lookup("1234"); ok {
		t.Error("expected unknown subject not to be found")
	}
}

func TestSubjectDirectory_SubjectCodes(t *testing.T) {
	t.Parallel()
	got := testDirectory().SubjectCodes()
	want := []string{"0452", "0620", "9709"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SubjectCodes() = %v, want %v", got, want)
	}
}

func TestSubjectDirectory_IsEmpty(t *testing.T) {
	t.Parallel()
	if !(SubjectDirectory{}).IsEmpty() {
		t.Error("zero directory should be empty")
	}
	if testDirectory().IsEmpty() {
		t.Error("populated directory should not be empty")
	}
}

func TestNewPageKey(t *testing.T) {
	t.Parallel()
	if got := NewPageKey("0620", SessionSpecimen, "20"); got != (PageKey{Subject: "0620", Token: "y"}) {
		t.Errorf("specimen key = %+v", got)
	}
	if got := NewPageKey("0620", SessionMayJune, "14"); got != (PageKey{Subject: "0620", Token: "14"}) {
		t.Errorf("may-june key = %+v", got)
	}
	if NewPageKey("0620", SessionMayJune, "14") != NewPageKey("0620", SessionOctNov, "14") {
		t.Error("sessions of one year must share a listing page key")
	}
}
