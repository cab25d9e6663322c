// The antlr2sitter command translates ANTLR v4 grammars into the rules
// of a tree-sitter grammar. Usage:
//
//	antlr2sitter grammar-file...
//
// The rules of all the named files are written to standard output as
// a single document, in the order they were read. Files with a .ebnf
// extension are read as Go-style EBNF instead of ANTLR.
//
// Constructs that cannot be translated are replaced by markers and
// reported on standard error; the output is a starting point that
// usually needs finishing by hand.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/rogpeppe/misc/antlr2sitter"
	"github.com/rogpeppe/misc/antlr2sitter/antlr"
	"github.com/rogpeppe/misc/antlr2sitter/goebnf"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("antlr2sitter: ")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: antlr2sitter grammar-file...")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	em := antlr2sitter.NewEmitter(os.Stdout)
	for _, path := range flag.Args() {
		if err := translateFile(em, path); err != nil {
			em.Flush()
			log.Fatal(err)
		}
	}
	for _, d := range em.Duplicates() {
		log.Print(d)
	}
	if err := em.Close(); err != nil {
		log.Fatal(err)
	}
}

func translateFile(em *antlr2sitter.Emitter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	g, err := parseGrammar(path, f)
	if err != nil {
		return err
	}
	res, err := antlr2sitter.Translate(g)
	em.Rules(res.Rules)
	for _, d := range res.Diagnostics {
		log.Print(d)
	}
	return err
}

func parseGrammar(path string, r io.Reader) (*antlr.Grammar, error) {
	if filepath.Ext(path) == ".ebnf" {
		return goebnf.Parse(path, r)
	}
	return antlr.Parse(path, r)
}
