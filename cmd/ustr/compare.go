package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/dshills/ustr"
)

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare A B",
		Short: "Compare two strings canonically",
		Long: `Compare A and B under canonical equivalence. Strings that differ only
in normalization are equal and hash alike.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y := ustr.New(args[0]), ustr.New(args[1])

			r := &report{json: "{}"}
			for _, side := range []struct {
				key string
				s   ustr.String
			}{{"a", x}, {"b", y}} {
				r.set(side.key+".text", side.s.String())
				r.set(side.key+".nfc", side.s.NFC().String())
				r.set(side.key+".characters", side.s.Count())
				r.set(side.key+".hash", fmt.Sprintf("%016x", side.s.Hash()))
			}
			order := x.Compare(y)
			r.set("order", order)
			r.set("equal", order == 0)
			r.set("identical", x.String() == y.String())

			js, err := r.result()
			if err != nil {
				return err
			}
			return a.emit(js, renderCompare)
		},
	}
}

func renderCompare(w io.Writer, js string) {
	doc := gjson.Parse(js)
	a := strconv.QuoteToGraphic(doc.Get("a.text").String())
	b := strconv.QuoteToGraphic(doc.Get("b.text").String())

	switch order := doc.Get("order").Int(); {
	case order < 0:
		fmt.Fprintf(w, "%s < %s\n", a, b)
	case order > 0:
		fmt.Fprintf(w, "%s > %s\n", a, b)
	case doc.Get("identical").Bool():
		fmt.Fprintf(w, "%s == %s\n", a, b)
	default:
		fmt.Fprintf(w, "%s == %s (canonically equivalent)\n", a, b)
	}
	for _, side := range []string{"a", "b"} {
		fmt.Fprintf(w, "%s  nfc=%s characters=%d hash=%s\n", side,
			strconv.QuoteToGraphic(doc.Get(side+".nfc").String()),
			doc.Get(side+".characters").Int(),
			doc.Get(side+".hash").String())
	}
}
