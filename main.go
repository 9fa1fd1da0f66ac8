// The main package for the recipecrawler executable.
package main

import (
	"github.com/culinary-data/recipe-crawler/cmd"
)

func main() {
	cmd.Execute()
}
