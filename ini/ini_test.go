// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"encoding"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

// Ensure File satisfies the encoding.Text* interfaces.
var _ interface {
	encoding.TextMarshaler
	encoding.TextUnmarshaler
	io.WriterTo
} = new(File)

func TestNil(t *testing.T) {
	f := (*File)(nil)
	if _, err := f.Get("foo", "bar"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(...) error = %v; want %v", err, ErrNotFound)
	}
	if got := f.Sections(); len(got) > 0 {
		t.Errorf("Sections() = %q; want empty", got)
	}
	if got := f.Section("foo"); len(got) > 0 {
		t.Errorf("Section(...) = %q; want empty", got)
	}
	if got := f.Len(); got != 0 {
		t.Errorf("Len() = %d; want 0", got)
	}
	if got, err := f.MarshalText(); err != nil {
		t.Errorf("MarshalText(): %v", err)
	} else if len(got) > 0 {
		t.Errorf("MarshalText() = %q; want empty", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		source       string
		want         map[string]Section
		wantSections []string
		canonical    string
	}{
		{
			name: "Empty",
		},
		{
			name:      "EmptyWithNewline",
			source:    "\n",
			canonical: "\n",
		},
		{
			name:      "NoSection",
			source:    "FOO=bar\n",
			canonical: "FOO=bar\n",
		},
		{
			name:   "Single",
			source: "[db]\nhost = example.com\n",
			want: map[string]Section{
				"db": {"host": "example.com"},
			},
			wantSections: []string{"db"},
			canonical:    "[db]\nhost = example.com\n",
		},
		{
			name:   "NoNewline",
			source: "[db]\nhost=example.com",
			want: map[string]Section{
				"db": {"host": "example.com"},
			},
			wantSections: []string{"db"},
			canonical:    "[db]\nhost=example.com\n",
		},
		{
			name:   "FoldedNames",
			source: "[  DataBase ]\n  HOST  =  Example.COM  \n",
			want: map[string]Section{
				"database": {"host": "Example.COM"},
			},
			wantSections: []string{"database"},
			canonical:    "[  DataBase ]\n  HOST  =  Example.COM  \n",
		},
		{
			name:   "QuotedValue",
			source: "[s]\nname = \"My Server\"\nexpr=\"a=b\"\n",
			want: map[string]Section{
				"s": {"name": "My Server", "expr": "a=b"},
			},
			wantSections: []string{"s"},
			canonical:    "[s]\nname = \"My Server\"\nexpr=\"a=b\"\n",
		},
		{
			name:   "UnbalancedQuotes",
			source: "[s]\na = \"open\nb = close\"\nc = \"\n",
			want: map[string]Section{
				"s": {"a": `"open`, "b": `close"`, "c": `"`},
			},
			wantSections: []string{"s"},
			canonical:    "[s]\na = \"open\nb = close\"\nc = \"\n",
		},
		{
			name:   "FirstEqualsSplits",
			source: "[s]\nurl = http://x/?a=b\n",
			want: map[string]Section{
				"s": {"url": "http://x/?a=b"},
			},
			wantSections: []string{"s"},
			canonical:    "[s]\nurl = http://x/?a=b\n",
		},
		{
			name:   "EmptyValue",
			source: "[s]\nempty =\n",
			want: map[string]Section{
				"s": {"empty": ""},
			},
			wantSections: []string{"s"},
			canonical:    "[s]\nempty =\n",
		},
		{
			name:   "CommentsAndJunk",
			source: "; top\norphan = 1\n[s]\n; k = commented\nbare line\nk = v\n",
			want: map[string]Section{
				"s": {"k": "v"},
			},
			wantSections: []string{"s"},
			canonical:    "; top\norphan = 1\n[s]\n; k = commented\nbare line\nk = v\n",
		},
		{
			name:   "EmptySection",
			source: "[a]\n[b]\nk = v\n",
			want: map[string]Section{
				"a": {},
				"b": {"k": "v"},
			},
			wantSections: []string{"a", "b"},
			canonical:    "[a]\n[b]\nk = v\n",
		},
		{
			name:      "BlankSectionNameDeactivates",
			source:    "[a]\n[ ]\nk = v\n",
			want:      map[string]Section{"a": {}},
			canonical: "[a]\n[ ]\nk = v\n",
			// "k" follows a header with no name, so it belongs to no section.
			wantSections: []string{"a"},
		},
		{
			name:   "ShortBracketsAreNotHeaders",
			source: "[s]\n[]\nk = v\n",
			want: map[string]Section{
				"s": {"k": "v"},
			},
			wantSections: []string{"s"},
			canonical:    "[s]\n[]\nk = v\n",
		},
		{
			name:   "DuplicateKeyLastWins",
			source: "[s]\nk = 1\nK = 2\n",
			want: map[string]Section{
				"s": {"k": "2"},
			},
			wantSections: []string{"s"},
			canonical:    "[s]\nk = 1\nK = 2\n",
		},
		{
			name:   "DuplicateSectionsMerge",
			source: "[a]\nx = 1\ny = 1\n[b]\nz = 1\n[A]\ny = 2\n",
			want: map[string]Section{
				"a": {"x": "1", "y": "2"},
				"b": {"z": "1"},
			},
			wantSections: []string{"b", "a"},
			canonical:    "[a]\nx = 1\ny = 1\n[b]\nz = 1\n[A]\ny = 2\n",
		},
		{
			name:   "CRLF",
			source: "[s]\r\nk = v\r\n",
			want: map[string]Section{
				"s": {"k": "v"},
			},
			wantSections: []string{"s"},
			canonical:    "[s]\nk = v\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(test.source))
			if err != nil {
				t.Fatal("Parse:", err)
			}
			got := make(map[string]Section)
			for _, name := range f.Sections() {
				got[name] = f.Section(name)
			}
			want := test.want
			if want == nil {
				want = map[string]Section{}
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("sections (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantSections, f.Sections()); diff != "" {
				t.Errorf("Sections() (-want +got):\n%s", diff)
			}
			checkIndex(t, f)

			text, err := f.MarshalText()
			if err != nil {
				t.Fatal("MarshalText:", err)
			}
			if diff := cmp.Diff(test.canonical, string(text)); diff != "" {
				t.Errorf("MarshalText() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGet(t *testing.T) {
	const source = "; settings\n" +
		"[Server]\n" +
		"Host = example.com\n" +
		"Port=8080\n" +
		"Name = \"My Server\"\n" +
		"\n" +
		"[client]\n" +
		"  Timeout =  30  \n" +
		"[Äpfel]\n" +
		"Sorte = Boskop\n" +
		"[Straße]\n" +
		"ss = 1\n" +
		"ß = 2\n" +
		"[headers only]\n"
	f, err := Parse(strings.NewReader(source))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		section string
		key     string
		want    string
		kind    NotFoundKind
	}{
		{section: "Server", key: "Host", want: "example.com"},
		{section: "server", key: "host", want: "example.com"},
		{section: "SERVER", key: "HOST", want: "example.com"},
		{section: " server ", key: " port ", want: "8080"},
		{section: "server", key: "name", want: "My Server"},
		{section: "CLIENT", key: "timeout", want: "30"},
		{section: "äpfel", key: "SORTE", want: "Boskop"},
		{section: "STRASSE", key: "ss", kind: SectionNotFound},
		{section: "straße", key: "SS", want: "1"},
		{section: "straße", key: "ß", want: "2"},
		{section: "headers only", key: "x", kind: SectionNotFound},
		{section: "server", key: "timeout", kind: KeyNotFound},
		{section: "missing", key: "host", kind: SectionNotFound},
		{section: "", key: "settings", kind: SectionNotFound},
	}
	for _, test := range tests {
		got, err := f.Get(test.section, test.key)
		if test.kind != 0 {
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Errorf("Get(%q, %q) = %q, %v; want *NotFoundError", test.section, test.key, got, err)
				continue
			}
			if nf.Kind != test.kind {
				t.Errorf("Get(%q, %q) error kind = %d; want %d", test.section, test.key, nf.Kind, test.kind)
			}
			continue
		}
		if err != nil || got != test.want {
			t.Errorf("Get(%q, %q) = %q, %v; want %q, <nil>", test.section, test.key, got, err, test.want)
		}
	}
}

func TestCaseInsensitivity(t *testing.T) {
	f, err := Parse(strings.NewReader("[db]\nhost = 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	for _, names := range [][2]string{{"Db", "Host"}, {"db", "host"}, {"DB", "HOST"}} {
		got, err := f.Get(names[0], names[1])
		if err != nil || got != "1" {
			t.Errorf("Get(%q, %q) = %q, %v; want \"1\", <nil>", names[0], names[1], got, err)
		}
	}
}

// TestGetRoundTrip checks that every property reads back as the unquoted
// text of its line.
func TestGetRoundTrip(t *testing.T) {
	lines := []string{
		"[one]",
		"a = plain",
		`b = "with space"`,
		`c = "x=y"`,
		"d=",
		"[two]",
		`e = ""`,
		"f =   padded\t",
	}
	f, err := Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]map[string]string{
		"one": {"a": "plain", "b": "with space", "c": "x=y", "d": ""},
		"two": {"e": "", "f": "padded"},
	}
	for sect, props := range want {
		for k, v := range props {
			if got, err := f.Get(sect, k); err != nil || got != v {
				t.Errorf("Get(%q, %q) = %q, %v; want %q, <nil>", sect, k, got, err, v)
			}
		}
	}
}

func TestParseLongLine(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	f, err := Parse(strings.NewReader("[s]\nk = " + long + "\nafter = 1"))
	if err != nil {
		t.Fatal("Parse:", err)
	}
	if got, err := f.Get("s", "k"); err != nil || got != long {
		t.Errorf("Get(\"s\", \"k\") = <%d bytes>, %v; want <%d bytes>, <nil>", len(got), err, len(long))
	}
	if got, err := f.Get("s", "after"); err != nil || got != "1" {
		t.Errorf("Get(\"s\", \"after\") = %q, %v; want \"1\", <nil>", got, err)
	}
}

func TestParseReadError(t *testing.T) {
	readErr := errors.New("bad disk")
	r := io.MultiReader(strings.NewReader("[s]\nk = 1\n"), iotest.ErrReader(readErr))
	_, err := Parse(r)
	if !errors.Is(err, readErr) {
		t.Fatalf("Parse error = %v; want %v", err, readErr)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Parse error = %v; want mention of line 3", err)
	}
}

func TestUnmarshalText(t *testing.T) {
	f := new(File)
	f.Set("old", "k", "v")
	if err := f.UnmarshalText([]byte("[new]\nk = 1\n")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"new"}, f.Sections()); diff != "" {
		t.Errorf("Sections() (-want +got):\n%s", diff)
	}
}

func TestSectionGet(t *testing.T) {
	sect := Section{"host": "example.com"}
	if got := sect.Get("HOST"); got != "example.com" {
		t.Errorf("Get(\"HOST\") = %q; want \"example.com\"", got)
	}
	if got := sect.Get("port"); got != "" {
		t.Errorf("Get(\"port\") = %q; want empty", got)
	}
}

// checkIndex verifies that every indexed line number points at the line
// the index claims it does.
func checkIndex(tb testing.TB, f *File) {
	tb.Helper()
	seen := make(map[int]string)
	for name, sec := range f.sections {
		if sec.anchor < 0 || sec.anchor >= len(f.lines) {
			tb.Errorf("section %q anchor %d out of range [0, %d)", name, sec.anchor, len(f.lines))
			continue
		}
		header := trim(f.lines[sec.anchor])
		if !isSectionHeader(header) || normalize(header[1:len(header)-1]) != name {
			tb.Errorf("section %q anchor %d is %q", name, sec.anchor, f.lines[sec.anchor])
		}
		for k, prop := range sec.properties {
			if prop.line < 0 || prop.line >= len(f.lines) {
				tb.Errorf("[%s] %s line %d out of range [0, %d)", name, k, prop.line, len(f.lines))
				continue
			}
			if prev, dup := seen[prop.line]; dup {
				tb.Errorf("[%s] %s shares line %d with %s", name, k, prop.line, prev)
			}
			seen[prop.line] = "[" + name + "] " + k
			line := trim(f.lines[prop.line])
			i := strings.IndexByte(line, '=')
			if i == -1 {
				tb.Errorf("[%s] %s line %d has no '=': %q", name, k, prop.line, line)
				continue
			}
			if got := normalize(line[:i]); got != k {
				tb.Errorf("[%s] %s line %d holds key %q", name, k, prop.line, got)
			}
			if got := unquote(trim(line[i+1:])); got != prop.value {
				tb.Errorf("[%s] %s line %d holds value %q; index has %q", name, k, prop.line, got, prop.value)
			}
		}
	}
}
