// Command checkarticles reports article sources whose metadata the build will fall
// back on: missing names, missing or unparseable dates and duplicate titles
package main

import (
	"fmt"
	"os"

	"github.com/aktagon/sitegen/internal/logger"
	"github.com/aktagon/sitegen/internal/site"
)

const usage = "Usage: checkarticles [--strict] <articles-directory>"

func main() {
	log, err := logger.New(logger.Config{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	os.Exit(run(os.Args[1:], log))
}

func run(args []string, log logger.Logger) int {
	strict := false
	if len(args) > 0 && args[0] == "--strict" {
		strict = true
		args = args[1:]
	}
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	problems, err := site.CheckArticles(args[0], site.DefaultArticleSuffix)
	if err != nil {
		log.Error("Check failed", logger.String("articles", args[0]), logger.Err(err))
		return 1
	}

	for _, p := range problems {
		fmt.Println(p)
	}
	fmt.Printf("\nFound %d problems\n", len(problems))

	if strict && len(problems) > 0 {
		return 1
	}
	return 0
}
