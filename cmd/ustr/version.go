package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &report{json: "{}"}
			r.set("version", version)
			r.set("commit", commit)
			r.set("date", date)
			r.set("go", runtime.Version())
			js, err := r.result()
			if err != nil {
				return err
			}
			return a.emit(js, func(w io.Writer, js string) {
				doc := gjson.Parse(js)
				fmt.Fprintf(w, "ustr %s\n", doc.Get("version").String())
				fmt.Fprintf(w, "Commit: %s\n", doc.Get("commit").String())
				fmt.Fprintf(w, "Built: %s (%s)\n", doc.Get("date").String(), doc.Get("go").String())
			})
		},
	}
}
