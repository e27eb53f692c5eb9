package post

import (
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	var (
		tests = []string{
			"",
			"# Hi",
			"---\nslug: hello-world\ntitle: Hello World\nsummary: first post\npublishedOn: 2021-04-01\n---\n# Hi\n",
			"+++\nslug = \"toml-post\"\ntitle = \"TOML Post\"\ndate = 2022-05-06\n+++\nbody text\n",
			"---\nslug: no-title\n---\nx",
		}
		expect = []struct {
			slug, title, summary, body string
			date                       time.Time
		}{
			{"", "", "", "", time.Time{}},
			{"", "", "", "# Hi", time.Time{}},
			{"hello-world", "Hello World", "first post", "# Hi", time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)},
			{"toml-post", "TOML Post", "", "body text", time.Date(2022, 5, 6, 0, 0, 0, 0, time.UTC)},
			{"no-title", "No Title", "", "x", time.Time{}},
		}
	)
	for i := range tests {
		doc, err := Parse([]byte(tests[i]))
		if err != nil {
			t.Errorf("%d: %s", i, err)
			continue
		}
		fm := doc.FrontMatter
		body := strings.TrimSpace(string(doc.Body))
		if fm.Slug != expect[i].slug || fm.Title != expect[i].title || fm.Summary != expect[i].summary || body != expect[i].body {
			t.Errorf("%d: Expected %+v but got %+v with body %q", i, expect[i], fm, body)
		}
		if !fm.PublishedOn.Equal(expect[i].date) {
			t.Errorf("%d: Expected date %s but got %s", i, expect[i].date, fm.PublishedOn)
		}
	}
}

func TestParseData(t *testing.T) {
	doc, err := Parse([]byte("---\nslug: s\ntitle: T\nauthor: me\ntags: [a, b]\n---\nbody"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Data["author"] != "me" {
		t.Errorf("Expected custom field in data but got %v", doc.Data)
	}
	if len(doc.FrontMatter.Tags) != 2 || doc.FrontMatter.Tags[1] != "b" {
		t.Errorf("Unexpected tags %v", doc.FrontMatter.Tags)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		"---\ntitle: [unclosed\n---\nbody",
		"---\npublishedOn: not a date\n---\nbody",
	}
	for i := range tests {
		_, err := Parse([]byte(tests[i]))
		if err == nil {
			t.Errorf("%d: Expected an error", i)
		}
	}
}

func TestSetSlug(t *testing.T) {
	doc, err := Parse([]byte("just a body"))
	if err != nil {
		t.Fatal(err)
	}
	doc.SetSlug("my-first_post")
	if doc.FrontMatter.Slug != "my-first_post" || doc.Data["slug"] != "my-first_post" {
		t.Errorf("Slug not set: %+v %v", doc.FrontMatter, doc.Data)
	}
	if doc.FrontMatter.Title != "My First Post" {
		t.Errorf("Expected derived title but got %q", doc.FrontMatter.Title)
	}
}

func TestValidSlug(t *testing.T) {
	var (
		tests  = []string{"hello-world", "post_2", "A1", "go1.22", "über-go", "with space", "-x", "", ".", "..", "../etc", "a/b", `a\\b`, ".hidden"}
		expect = []bool{true, true, true, true, true, true, true, false, false, false, false, false, false, false}
	)
	for i := range tests {
		if ValidSlug(tests[i]) != expect[i] {
			t.Errorf("ValidSlug(%q): expected %v", tests[i], expect[i])
		}
	}
}
