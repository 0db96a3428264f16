package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/ustr"
	"github.com/dshills/ustr/internal/config"
)

// report accumulates a JSON document. The first error sticks.
type report struct {
	json string
	err  error
}

func (r *report) set(path string, v any) {
	if r.err != nil {
		return
	}
	r.json, r.err = sjson.Set(r.json, path, v)
}

func (r *report) result() (string, error) {
	if r.err != nil {
		return "", fmt.Errorf("building report: %w", r.err)
	}
	return r.json, nil
}

// codePoint formats r as U+XXXX.
func codePoint(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

// limit reports whether n items may be listed under maxItems, where 0 means
// unlimited.
func limit(n, maxItems int) bool {
	return maxItems == 0 || n < maxItems
}

// describe reports the storage, counts and views of s.
func describe(s ustr.String, opts config.InspectConfig) (string, error) {
	r := &report{json: "{}"}
	r.set("text", s.String())
	r.set("kind", s.Kind().String())
	r.set("capacity", s.Capacity())
	r.set("ascii", s.IsASCII())
	r.set("nfc", s.IsNFC())
	r.set("counts.characters", s.Count())
	r.set("counts.scalars", s.Scalars().Count())
	r.set("counts.utf8", s.UTF8Count())
	r.set("counts.utf16", s.UTF16Count())
	r.set("hash", fmt.Sprintf("%016x", s.Hash()))

	utf8 := s.UTF8()
	if opts.Scalars {
		r.set("scalars", []any{})
		n := 0
		for i, c := range s.Scalars().All() {
			if !limit(n, opts.MaxItems) {
				r.set("truncated.scalars", true)
				break
			}
			r.set("scalars.-1", map[string]any{
				"offset": utf8.Offset(i),
				"value":  codePoint(c),
				"char":   string(c),
			})
			n++
		}
	}

	if opts.UTF16 {
		r.set("utf16", []any{})
		n := 0
		for _, u := range s.UTF16().All() {
			if !limit(n, opts.MaxItems) {
				r.set("truncated.utf16", true)
				break
			}
			r.set("utf16.-1", fmt.Sprintf("%04X", u))
			n++
		}
	}

	if opts.Graphemes {
		r.set("characters", []any{})
		n := 0
		for i, c := range s.Characters() {
			if !limit(n, opts.MaxItems) {
				r.set("truncated.characters", true)
				break
			}
			var scalars []string
			for _, sc := range c.Scalars().All() {
				scalars = append(scalars, codePoint(sc))
			}
			r.set("characters.-1", map[string]any{
				"offset":  utf8.Offset(i),
				"text":    c.String(),
				"scalars": scalars,
			})
			n++
		}
	}

	return r.result()
}

// renderInspect writes the text form of a describe report.
func renderInspect(w io.Writer, js string) {
	doc := gjson.Parse(js)
	fmt.Fprintf(w, "%-11s %s\n", "text", strconv.QuoteToGraphic(doc.Get("text").String()))
	fmt.Fprintf(w, "%-11s %s (capacity %d)\n", "kind", doc.Get("kind").String(), doc.Get("capacity").Int())
	fmt.Fprintf(w, "%-11s ascii=%t nfc=%t\n", "flags", doc.Get("ascii").Bool(), doc.Get("nfc").Bool())
	fmt.Fprintf(w, "%-11s characters=%d scalars=%d utf8=%d utf16=%d\n", "counts",
		doc.Get("counts.characters").Int(),
		doc.Get("counts.scalars").Int(),
		doc.Get("counts.utf8").Int(),
		doc.Get("counts.utf16").Int())
	fmt.Fprintf(w, "%-11s %s\n", "hash", doc.Get("hash").String())

	if scalars := doc.Get("scalars"); scalars.Exists() {
		fmt.Fprintln(w, "scalars")
		scalars.ForEach(func(_, v gjson.Result) bool {
			fmt.Fprintf(w, "  %4d  %-8s %s\n", v.Get("offset").Int(), v.Get("value").String(), printable(v.Get("char").String()))
			return true
		})
		more(w, doc, "scalars")
	}

	if units := doc.Get("utf16"); units.Exists() {
		var parts []string
		units.ForEach(func(_, v gjson.Result) bool {
			parts = append(parts, v.String())
			return true
		})
		fmt.Fprintf(w, "%-11s %s\n", "utf16", strings.Join(parts, " "))
		more(w, doc, "utf16")
	}

	if chars := doc.Get("characters"); chars.Exists() {
		fmt.Fprintln(w, "characters")
		chars.ForEach(func(_, v gjson.Result) bool {
			var scalars []string
			v.Get("scalars").ForEach(func(_, sc gjson.Result) bool {
				scalars = append(scalars, sc.String())
				return true
			})
			fmt.Fprintf(w, "  %4d  %-10s %s\n", v.Get("offset").Int(),
				strconv.QuoteToGraphic(v.Get("text").String()), strings.Join(scalars, " "))
			return true
		})
		more(w, doc, "characters")
	}
}

func more(w io.Writer, doc gjson.Result, list string) {
	if doc.Get("truncated." + list).Bool() {
		fmt.Fprintln(w, "  ...")
	}
}

// printable shows a combining mark on a dotted circle and escapes
// control characters.
func printable(s string) string {
	r := []rune(s)
	if len(r) != 1 {
		return s
	}
	switch {
	case unicode.Is(unicode.M, r[0]):
		return "\u25cc" + s
	case r[0] < 0x20 || r[0] == 0x7F:
		return strconv.QuoteRune(r[0])
	}
	return s
}
