// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Command ferromd renders a Markdown document to HTML (SPEC_FULL.md §10.2),
// grounded on _examples/jacoelho-xsd's cmd/xmllint flag-based CLI shape:
// a flag.FlagSet wired to os.Args, reading a file argument (or stdin when
// none is given) and writing to stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	commonmark "github.com/ferromark/ferromark-go"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ferromd", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := commonmark.DefaultOptions()
	fs.BoolVar(&opts.Tables, "tables", opts.Tables, "enable GFM tables")
	fs.BoolVar(&opts.Strikethrough, "strikethrough", opts.Strikethrough, "enable ~~strikethrough~~")
	fs.BoolVar(&opts.TaskLists, "task-lists", opts.TaskLists, "enable [ ]/[x] task list items")
	fs.BoolVar(&opts.AutolinkLiterals, "autolink-literals", opts.AutolinkLiterals, "autolink bare URLs and emails")
	fs.BoolVar(&opts.DisallowedRawHTML, "filter-html", opts.DisallowedRawHTML, "strip the GFM disallowed raw HTML tag set")
	fs.BoolVar(&opts.AllowHTML, "allow-html", opts.AllowHTML, "pass raw HTML through instead of escaping it")
	fs.BoolVar(&opts.Footnotes, "footnotes", opts.Footnotes, "enable [^id] footnotes")
	fs.BoolVar(&opts.FrontMatter, "front-matter", opts.FrontMatter, "strip a leading ---/+++ front matter block")
	fs.BoolVar(&opts.HeadingIDs, "heading-ids", opts.HeadingIDs, "emit id attributes on headings")
	fs.BoolVar(&opts.Math, "math", opts.Math, "enable $...$ and $$...$$ math spans")
	fs.BoolVar(&opts.Callouts, "callouts", opts.Callouts, "enable GitHub-style blockquote callouts")
	printFrontMatter := fs.Bool("print-front-matter", false, "write the extracted front matter to stderr before the HTML (requires -front-matter)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] [file]\n\n", fs.Name())
		fmt.Fprintln(stderr, "Renders a Markdown document to HTML on stdout. Reads stdin if no file is given.")
		fmt.Fprintln(stderr, "\nOptions:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var in io.Reader = os.Stdin
	if remaining := fs.Args(); len(remaining) > 0 {
		if len(remaining) > 1 {
			fmt.Fprintln(stderr, "error: at most one file argument is accepted")
			fs.Usage()
			return 2
		}
		f, err := os.Open(remaining[0])
		if err != nil {
			log.Println(err)
			return 1
		}
		defer f.Close()
		in = f
	}

	source, err := io.ReadAll(in)
	if err != nil {
		log.Println(err)
		return 1
	}
	doc := commonmark.Parse(source, opts)
	if *printFrontMatter {
		if fm := doc.FrontMatter(); len(fm) > 0 {
			stderr.Write(fm)
		}
	}
	if err := doc.RenderHTML(stdout); err != nil {
		log.Println(err)
		return 1
	}
	return 0
}
