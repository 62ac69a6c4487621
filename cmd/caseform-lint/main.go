package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/goliatone/go-caseform/internal/loader"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/validation"
)

type violation struct {
	file  string
	issue validation.Issue
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths or urls...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint layout trees (JSON or YAML) for structural problems.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	l := loader.New(schema.NewLoaderOptions(schema.WithHTTPFallback(30 * time.Second)))

	var violations []violation
	for _, path := range paths {
		src, err := schema.SourceFor(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		view, err := l.LoadView(ctx, src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		for _, issue := range validation.Lint(view) {
			violations = append(violations, violation{file: path, issue: issue})
		}
	}

	if len(violations) > 0 {
		sort.SliceStable(violations, func(i, j int) bool {
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.issue.Location, v.issue.Message)
		}
		os.Exit(1)
	}
}
