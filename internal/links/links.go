package links

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Normalize rewrites every relative href on an anchor tag to baseURL+value,
// stripping at most one leading "/" from the value. Values starting with
// "http" or "//" and empty values are left as they are.
func Normalize(fragment, baseURL string) string {
	if fragment == "" {
		return fragment
	}

	var out bytes.Buffer
	out.Grow(len(fragment))

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// z.Raw() still holds any trailing bytes the tokenizer could not
			// turn into a token.
			out.Write(z.Raw())
			break
		}

		raw := z.Raw()
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			// TagName lowercases the name inside the buffer Raw points into.
			raw = bytes.Clone(raw)
			if name, _ := z.TagName(); string(name) == "a" {
				out.WriteString(rewriteAnchor(string(raw), baseURL))
				continue
			}
		}
		out.Write(raw)
	}

	return out.String()
}

// rewriteAnchor rewrites the first href attribute of a raw <a ...> tag.
func rewriteAnchor(tag, baseURL string) string {
	start, end, value, ok := findHref(tag)
	if !ok || !IsRelative(value) {
		return tag
	}
	return tag[:start] + `href="` + Resolve(value, baseURL) + `"` + tag[end:]
}

// findHref walks the attributes of a raw start tag and returns the span of
// the first href attribute, from its name to the end of its value, plus the
// unquoted value. Quoted values of other attributes are skipped whole.
func findHref(tag string) (start, end int, value string, ok bool) {
	i := 1
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '/' && tag[i] != '>' {
		i++
	}

	for i < len(tag) {
		for i < len(tag) && (isSpace(tag[i]) || tag[i] == '/') {
			i++
		}
		if i >= len(tag) || tag[i] == '>' {
			return 0, 0, "", false
		}

		nameStart := i
		for i < len(tag) && !isSpace(tag[i]) && tag[i] != '=' && tag[i] != '/' && tag[i] != '>' {
			i++
		}
		name := tag[nameStart:i]

		j := skipSpace(tag, i)
		if j >= len(tag) || tag[j] != '=' {
			// Attribute without a value.
			continue
		}
		j = skipSpace(tag, j+1)

		var val string
		if j < len(tag) && (tag[j] == '"' || tag[j] == '\'') {
			closing := strings.IndexByte(tag[j+1:], tag[j])
			if closing < 0 {
				return 0, 0, "", false
			}
			val = tag[j+1 : j+1+closing]
			j += closing + 2
		} else {
			valStart := j
			for j < len(tag) && !isSpace(tag[j]) && tag[j] != '>' {
				j++
			}
			val = tag[valStart:j]
		}

		if strings.EqualFold(name, "href") {
			return nameStart, j, val, true
		}
		i = j
	}
	return 0, 0, "", false
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// IsRelative reports whether an href value would be rewritten by Normalize.
func IsRelative(value string) bool {
	return value != "" && !strings.HasPrefix(value, "http") && !strings.HasPrefix(value, "//")
}

// Resolve joins a relative href onto baseURL without doubling the separator.
func Resolve(value, baseURL string) string {
	return baseURL + strings.TrimPrefix(value, "/")
}
