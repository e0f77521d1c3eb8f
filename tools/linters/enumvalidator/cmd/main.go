package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"sawmill.app/ledger/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
