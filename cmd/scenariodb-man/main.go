package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PyramidAGI/scenariodb/internal/cli"
	"github.com/PyramidAGI/scenariodb/internal/version"
)

func main() {
	var (
		outDir string
		quiet  bool
	)
	flag.StringVar(&outDir, "out", "docs/man", "output directory for generated man pages")
	flag.BoolVar(&quiet, "quiet", false, "do not list the written pages")
	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "scenariodb-man: unexpected arguments: %v\n", flag.Args())
		os.Exit(2)
	}

	pages, err := cli.GenerateManPages(outDir, cli.BuildInfo{
		Version:   version.Version,
		Commit:    version.Commit,
		BuildTime: version.BuildTime,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "scenariodb-man: %v\n", err)
		os.Exit(1)
	}
	if quiet {
		return
	}
	for _, page := range pages {
		fmt.Println(page)
	}
	fmt.Fprintf(os.Stderr, "scenariodb-man: wrote %d pages to %s\n", len(pages), outDir)
}
