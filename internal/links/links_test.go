package links

import "testing"

const base = "https://www.coloradocollege.edu/academics/curriculum/catalog/"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "leading slash stripped",
			in:   `<a href="/courses/cp122.html">CP122</a>`,
			want: `<a href="` + base + `courses/cp122.html">CP122</a>`,
		},
		{
			name: "bare relative",
			in:   `<a href="courses/ma126.html">MA126</a>`,
			want: `<a href="` + base + `courses/ma126.html">MA126</a>`,
		},
		{
			name: "only one slash stripped",
			in:   `<a href="//cdn.example.com/x">x</a>`,
			want: `<a href="//cdn.example.com/x">x</a>`,
		},
		{
			name: "absolute untouched",
			in:   `<a href="https://www.coloradocollege.edu/">CC</a>`,
			want: `<a href="https://www.coloradocollege.edu/">CC</a>`,
		},
		{
			name: "single quotes rewritten to double",
			in:   `<a class='x' href='/a.html' target="_blank">a</a>`,
			want: `<a class='x' href="` + base + `a.html" target="_blank">a</a>`,
		},
		{
			name: "unquoted value",
			in:   `<a href=b.html>b</a>`,
			want: `<a href="` + base + `b.html">b</a>`,
		},
		{
			name: "empty href untouched",
			in:   `<a href="">empty</a>`,
			want: `<a href="">empty</a>`,
		},
		{
			name: "anchor without href",
			in:   `<a name="top"></a>`,
			want: `<a name="top"></a>`,
		},
		{
			name: "non-anchor href untouched",
			in:   `<link href="/style.css"><td data-href="/x">cell</td>`,
			want: `<link href="/style.css"><td data-href="/x">cell</td>`,
		},
		{
			name: "surrounding markup preserved",
			in:   "<tr class=\"course\">\n  <td>CP 122</td><td><a  href=\"/c.html\"   title=\"C &amp; D\">C</a></td>\n</tr>",
			want: "<tr class=\"course\">\n  <td>CP 122</td><td><a  href=\"" + base + "c.html\"   title=\"C &amp; D\">C</a></td>\n</tr>",
		},
		{
			name: "uppercase tag",
			in:   `<A HREF="/x.html">x</A>`,
			want: `<A href="` + base + `x.html">x</A>`,
		},
		{
			name: "uppercase rows keep their case",
			in:   `<TR CLASS="x"><TD><A HREF="/a.html">a</A></TD><TD>b</TD></TR>`,
			want: `<TR CLASS="x"><TD><A href="` + base + `a.html">a</A></TD><TD>b</TD></TR>`,
		},
		{
			name: "absolute only fragment unchanged",
			in:   `<TR><TD><A href="https://www.coloradocollege.edu/">CC</A></TD></TR>`,
			want: `<TR><TD><A href="https://www.coloradocollege.edu/">CC</A></TD></TR>`,
		},
		{
			name: "href inside another attribute value",
			in:   `<a title="x href=/t" href="/real.html">r</a>`,
			want: `<a title="x href=/t" href="` + base + `real.html">r</a>`,
		},
		{
			name: "href text in single-quoted value",
			in:   `<a data-x='a href="/t"' href=real.html>r</a>`,
			want: `<a data-x='a href="/t"' href="` + base + `real.html">r</a>`,
		},
		{
			name: "valueless attribute before href",
			in:   `<a download href="/f.pdf">f</a>`,
			want: `<a download href="` + base + `f.pdf">f</a>`,
		},
		{
			name: "empty fragment",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in, base); got != tt.want {
				t.Errorf("Normalize()\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		`<tr><td><a href="/courses/cp122.html">CP122</a></td><td><a href="https://x.test/">x</a></td></tr>`,
		`<a href='rel.html'>r</a><a href="//proto.test/">p</a>`,
	}

	for _, in := range inputs {
		once := Normalize(in, base)
		twice := Normalize(once, base)
		if once != twice {
			t.Errorf("Normalize not idempotent:\n once: %s\ntwice: %s", once, twice)
		}
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve("/a/b.html", base); got != base+"a/b.html" {
		t.Errorf("Resolve() = %q", got)
	}
	if got := Resolve("a.html", base); got != base+"a.html" {
		t.Errorf("Resolve() = %q", got)
	}
}
