package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	Source     string // Subreddit name, username, or path of a saved listing json file.
	DestDir    string // Destination directory to save media and exports to.
	Verbose    bool   // True for verbose output.
	Jobs       int    // Number of downloads to run in parallel.
	Limit      int    // Maximum number of posts to fetch.
	Category   string // Listing category (new, hot, top, ...).
	TimeFilter string // Time filter for top/controversial listings.
	User       bool   // Source names a user profile rather than a subreddit.
	Export     string // Export format for descriptor records: json or csv.
}

func parseArgs() (*Config, error) {
	verbose := flag.Bool("v", false, "verbose output")
	jobs := flag.Int("j", 1, "jobs")
	limit := flag.Int("limit", 100, "maximum number of posts to fetch")
	category := flag.String("category", "new", "listing category (new, hot, top, controversial, rising)")
	timeFilter := flag.String("time", "all", "time filter for top/controversial (all, year, month, week, day, hour)")
	user := flag.Bool("user", false, "treat source as a user profile instead of a subreddit")
	export := flag.String("export", "json", "descriptor export format (json or csv)")

	flag.Usage = usage
	flag.Parse()

	if len(flag.Args()) < 1 {
		return nil, fmt.Errorf("missing required argument: source")
	}
	source := flag.Args()[0]

	if len(flag.Args()) < 2 {
		return nil, fmt.Errorf("missing required argument: dest_dir")
	}
	destDir := flag.Args()[1]

	if *export != "json" && *export != "csv" {
		return nil, fmt.Errorf("invalid export format: have=%s want=json or csv", *export)
	}

	return &Config{
		Source:     source,
		DestDir:    destDir,
		Verbose:    *verbose,
		Jobs:       *jobs,
		Limit:      *limit,
		Category:   *category,
		TimeFilter: *timeFilter,
		User:       *user,
		Export:     *export,
	}, nil
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [option]... <subreddit|username|listing.json> <dest_dir>\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(flag.CommandLine.Output(), "Scrapes media from a reddit listing.\n")
	flag.PrintDefaults()
}
