// Command genhints regenerates roothints.gen.go from a named.root zone,
// fetched from internic or read from a local file. Output goes to the file
// named as the first argument, or stdout.
package main

import (
	"bytes"
	_ "embed"
	"flag"
	"fmt"
	"go/format"
	"net/http"
	"os"
	"strings"
	"text/template"

	"github.com/rootfall/resolver"
)

//go:embed roothints.go.tmpl
var roothintsgotmpl string

const hintsURL = "https://www.internic.net/domain/named.root"

var inputFile = flag.String("f", "", "read hints from a local file instead of fetching them")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	var hints []resolver.RootHint
	if *inputFile != "" {
		hints, err = resolver.LoadRootHints(*inputFile)
	} else {
		hints, err = fetchHints()
	}
	if err != nil {
		return err
	}
	funcs := template.FuncMap{
		"trimDot": func(s string) string { return strings.TrimSuffix(s, ".") },
	}
	t, err := template.New("").Funcs(funcs).Parse(roothintsgotmpl)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = t.Execute(&buf, hints); err != nil {
		return err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return err
	}
	out := os.Stdout
	if args := flag.Args(); len(args) > 0 {
		if out, err = os.Create(args[0]); err != nil {
			return err
		}
		defer out.Close()
	}
	_, err = out.Write(src)
	return err
}

func fetchHints() ([]resolver.RootHint, error) {
	resp, err := http.Get(hintsURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", hintsURL, resp.Status)
	}
	return resolver.ParseRootHints(resp.Body)
}
