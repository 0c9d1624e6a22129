package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

func main() {
	var (
		base        string
		targetsPath string
		token       string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:3000", "API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "contract_check", "targets.json"), "Path to JSON targets file")
	flag.StringVar(&token, "token", os.Getenv("CONTRACT_TOKEN"), "Bearer token sent on every request")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	runner := newRunner(&http.Client{Timeout: timeout}, base, token)
	results := runner.Run(targets)
	printReport(results)

	breaking, optional := tally(results)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}
