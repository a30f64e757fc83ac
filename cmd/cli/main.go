// Command cli analyzes a CSV or Excel file from the command line and
// prints the text report. Optional flags write the chart workbook and
// slide deck next to the input.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"datalens/adapters/deck"
	"datalens/adapters/excel"
	"datalens/domain/dataset"
	"datalens/internal/analyzer"
)

func main() {
	charts := flag.Bool("charts", false, "write a chart workbook next to the input file")
	slides := flag.Bool("slides", false, "write a slide deck next to the input file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-charts] [-slides] <file.csv|file.xlsx>\n", os.Args[0])
		os.Exit(2)
	}
	path := flag.Arg(0)

	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	var ds *dataset.Dataset
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		ds, err = excel.ReadDatasetBytes(content)
	} else {
		ds, err = analyzer.Parse(string(content))
	}
	if err != nil {
		log.Fatalf("Failed to parse %s: %v", path, err)
	}

	report := analyzer.Summarize(ds)
	fmt.Print(report.Summary)

	base := strings.TrimSuffix(path, filepath.Ext(path))

	if *charts {
		buf, err := excel.WriteChartWorkbook(report, ds)
		if err != nil {
			log.Fatalf("Failed to build chart workbook: %v", err)
		}
		out := base + "_charts.xlsx"
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", out, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	}

	if *slides {
		buf, err := deck.Build(report, deck.DefaultOptions())
		if err != nil {
			log.Fatalf("Failed to build slide deck: %v", err)
		}
		out := base + "_report.pptx"
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", out, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	}
}
