package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// recordingT captures failures reported by the helpers without ending the
// test that drives them.
type recordingT struct {
	testing.TB
	fatals []string
	errors []string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func authorBooks() string {
	var b strings.Builder
	for _, book := range CreateAuthor().Books {
		fmt.Fprintf(&b, "%s by %s\n", book.Title, book.Author.Name)
	}
	return b.String()
}

func TestFixture(t *testing.T) {
	var people []Person
	Fixture(t, "people.json", &people)

	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}
	if people[1].ID != 2 || people[1].Name != "jamir" {
		t.Errorf("unexpected second person %+v", people[1])
	}
}

func TestFixture_Failures(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{name: "missing file", file: "missing.json", want: "missing.json"},
		{name: "malformed json", file: "broken.json", want: "broken.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingT{}
			var people []Person
			Fixture(rec, tt.file, &people)

			if len(rec.fatals) != 1 {
				t.Fatalf("expected one fatal report, got %v", rec.fatals)
			}
			if !strings.Contains(rec.fatals[0], tt.want) {
				t.Errorf("expected report to name %s, got %q", tt.want, rec.fatals[0])
			}
		})
	}
}

func TestGolden(t *testing.T) {
	Golden(t, "author_books.txt", authorBooks())
}

func TestGolden_Mismatch(t *testing.T) {
	if *update {
		t.Skip("golden files are being rewritten")
	}
	rec := &recordingT{}
	actual := strings.Replace(authorBooks(), "book 3", "book three", 1)

	Golden(rec, "author_books.txt", actual)

	if len(rec.errors) != 1 {
		t.Fatalf("expected one mismatch report, got %v", rec.errors)
	}
	report := rec.errors[0]
	if !strings.Contains(report, `line 3: want "book 3 by Carlos", got "book three by Carlos"`) {
		t.Errorf("expected the differing line in the report, got %q", report)
	}
	if strings.Contains(report, "line 1:") {
		t.Errorf("expected matching lines to be left out, got %q", report)
	}
}

func TestGolden_MissingFile(t *testing.T) {
	if *update {
		t.Skip("golden files are being rewritten")
	}
	rec := &recordingT{}

	Golden(rec, "missing.txt", "anything")

	if len(rec.fatals) != 1 || !strings.Contains(rec.fatals[0], "-update") {
		t.Errorf("expected a report pointing at -update, got %v", rec.fatals)
	}
	if _, err := os.Stat(GoldenPath("missing.txt")); !os.IsNotExist(err) {
		t.Errorf("expected no golden file to be created, got %v", err)
	}
}

func TestLineDiff_LengthMismatch(t *testing.T) {
	got := lineDiff("a\nb", "a")

	if got != "line 2: want \"b\", got \"\"\n" {
		t.Errorf("unexpected diff %q", got)
	}
}

func TestWriteTemp(t *testing.T) {
	path := WriteTemp(t, "cache.yaml", []byte("name: temp\n"))

	if filepath.Base(path) != "cache.yaml" {
		t.Errorf("expected file name cache.yaml, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != "name: temp\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestPaths(t *testing.T) {
	if got := FixturePath("keys.json"); got != filepath.Join("testdata", "keys.json") {
		t.Errorf("unexpected fixture path %s", got)
	}
	if got := GoldenPath("walk.txt"); got != filepath.Join("testdata", "golden", "walk.txt") {
		t.Errorf("unexpected golden path %s", got)
	}
}
